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
	"context"
	"net/http"
	"strings"

	"classroom/pkg/utils/resp"
	"classroom/pkg/version"
	"classroom/portal/model"

	"github.com/gin-gonic/gin"
)

// envCheck reports which settings are present. Values never leave the
// process.
func (s *Server) envCheck(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	resp.OK(c, s.conf.EnvReport())
}

func (s *Server) versionInfo(c *gin.Context) {
	resp.OK(c, version.Get())
}

// objectReader is implemented by stores that hold uploaded pages
// themselves instead of in an external object store.
type objectReader interface {
	GetObject(ctx context.Context, bucket, name string) (*model.Object, error)
}

func (s *Server) getObject(objects objectReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimPrefix(c.Param("name"), "/")
		obj, err := objects.GetObject(c.Request.Context(), c.Param("bucket"), name)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.Data(http.StatusOK, obj.ContentType, obj.Body)
	}
}
