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
	"bytes"
	"errors"

	"classroom/pkg/classerrors"
	"classroom/pkg/utils/resp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// writeError turns a service error into its HTTP answer. Unknown errors
// are logged and hidden behind a generic 500.
func (s *Server) writeError(c *gin.Context, err error) {
	var (
		upstream *classerrors.UpstreamError
		argument *classerrors.ArgumentError
	)
	switch {
	case errors.Is(err, classerrors.ErrNotConfigured):
		resp.ServerError(c, "server not configured")
	case errors.As(err, &argument):
		resp.BadRequest(c, argument.Msg)
	case errors.Is(err, classerrors.ErrInvalidPassword),
		errors.Is(err, classerrors.ErrUnauthorized),
		errors.Is(err, classerrors.ErrInvalidToken):
		resp.Unauthorized(c)
	case errors.Is(err, classerrors.ErrTooManyAttempts):
		resp.TooManyRequests(c, "too many login attempts, try again later")
	case errors.Is(err, classerrors.ErrNotFound):
		resp.NotFound(c, "not found")
	case errors.As(err, &upstream):
		s.logger.Warningf("%s %s: upstream answered %d", c.Request.Method, c.FullPath(), upstream.Status)
		resp.Upstream(c, upstream.Status, upstream.Body)
	default:
		s.logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		resp.ServerError(c, "server error")
	}
}

// bindJSON decodes the request body into obj. An empty body decodes as {}.
func bindJSON(c *gin.Context, obj any) error {
	body, err := c.GetRawData()
	if err != nil {
		return classerrors.Invalid("Bad request")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := binding.JSON.BindBody(body, obj); err != nil {
		var argument *classerrors.ArgumentError
		if errors.As(err, &argument) {
			return err
		}
		return classerrors.Invalid("Bad request")
	}
	return nil
}
