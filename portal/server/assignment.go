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

func (s *Server) listAssignments(c *gin.Context) {
	list, err := s.assignmentService.ListActive(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	resp.OK(c, gin.H{"assignments": list})
}

func (s *Server) createAssignment(c *gin.Context) {
	var req dto.AssignmentCreateRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	res, err := s.assignmentService.Create(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	resp.OK(c, res)
}

func (s *Server) adminListAssignments(c *gin.Context) {
	var q dto.AssignmentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.writeError(c, classerrors.Invalid("invalid class_id"))
		return
	}

	list, err := s.assignmentService.AdminList(c.Request.Context(), q.ClassID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	resp.OK(c, list)
}
