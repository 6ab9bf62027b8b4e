// Copyright 2025 The Classroom Authors, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"classroom/pkg/classerrors"
	"classroom/pkg/utils/resp"
	"classroom/portal/dto"

	"github.com/gin-gonic/gin"
)

func (s *Server) createSubmission(c *gin.Context) {
	var req dto.SubmissionCreateRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	rows, err := s.submissionService.Create(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	resp.OK(c, rows)
}

func (s *Server) listSubmissions(c *gin.Context) {
	var q dto.SubmissionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.writeError(c, classerrors.Invalid("invalid assignment_id or class_id"))
		return
	}

	subs, err := s.submissionService.List(c.Request.Context(), &q)
	if err != nil {
		s.writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"submissions": subs})
}
