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
	"net/http"
	"strings"

	"classroom/pkg/session"
	"classroom/pkg/utils/resp"
	"classroom/portal/server/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LegacyPrefix is where the static site used to find its functions.
const LegacyPrefix = "/.netlify/functions"

func (s *Server) apiRouter() {
	r := s.Engine
	r.Use(middleware.RequestID(), middleware.Metrics(), middleware.CORSMiddleware())
	r.NoMethod(func(c *gin.Context) { resp.MethodNotAllowed(c) })
	r.NoRoute(s.noRoute())

	teacher := middleware.RequireRole(s.auth, session.RoleTeacher)

	api := r.Group("/api/v1")
	{
		api.POST("/teacher/login", s.login)
		api.POST("/teacher/logout", s.logout)
		api.GET("/teacher/session", teacher, s.sessionInfo)

		api.GET("/assignments", s.listAssignments)
		api.POST("/assignments", teacher, s.createAssignment)
		api.GET("/admin/assignments", teacher, s.adminListAssignments)

		api.POST("/submissions", s.createSubmission)
		api.GET("/submissions", teacher, s.listSubmissions)

		api.GET("/env-check", s.envCheck)
		api.GET("/version", s.versionInfo)
	}

	legacy := r.Group(LegacyPrefix)
	{
		legacy.POST("/teacher-login", s.login)
		legacy.GET("/assignments-list", s.listAssignments)
		legacy.POST("/submissions-create", s.createSubmission)
		legacy.POST("/assignment-create", teacher, s.createAssignment)
		legacy.GET("/submissions-list", teacher, s.listSubmissions)
		legacy.GET("/assignments-admin-list", teacher, s.adminListAssignments)
		legacy.GET("/env-check", s.envCheck)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if objects, ok := s.store.(objectReader); ok {
		r.GET("/objects/:bucket/*name", s.getObject(objects))
	}
}

// noRoute serves the static site, when one is configured, for anything
// that is not an API path.
func (s *Server) noRoute() gin.HandlerFunc {
	var site http.Handler
	if dir := s.conf.App.SiteDir; dir != "" {
		site = http.FileServer(gin.Dir(dir, false))
	}
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		api := strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, LegacyPrefix+"/")
		get := c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead
		if site == nil || api || !get {
			resp.NotFound(c, "not found")
			return
		}
		site.ServeHTTP(c.Writer, c.Request)
	}
}
