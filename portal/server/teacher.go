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
	"classroom/pkg/session"
	"classroom/pkg/utils/resp"
	"classroom/portal/dto"
	"classroom/portal/server/middleware"

	"github.com/gin-gonic/gin"
)

func (s *Server) login(c *gin.Context) {
	if !s.conf.LoginConfigured() {
		s.writeError(c, classerrors.ErrNotConfigured)
		return
	}

	var req dto.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	token, err := s.authService.Login(c.Request.Context(), c.ClientIP(), req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Header("Set-Cookie", s.auth.Cookie(token))
	resp.OK(c, gin.H{"ok": true})
}

// logout clears the cookie. Tokens are not revoked: a copy of the token
// stays valid until it expires.
func (s *Server) logout(c *gin.Context) {
	cookie := session.CookieOptions{
		Name:   s.conf.Session.CookieName,
		Domain: s.conf.Session.Domain,
		Secure: s.conf.Session.Secure,
	}.Clear()
	if s.auth != nil {
		cookie = s.auth.ClearCookie()
	}
	c.Header("Set-Cookie", cookie)
	resp.OK(c, gin.H{"ok": true})
}

func (s *Server) sessionInfo(c *gin.Context) {
	resp.OK(c, middleware.Claims(c))
}
