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
	"fmt"

	"classroom/internal/config"
	"classroom/pkg/log"
	"classroom/pkg/session"
	"classroom/portal/service"
	"classroom/portal/store"

	"github.com/gin-gonic/gin"
)

// Server is the classroom HTTP API.
type Server struct {
	*gin.Engine
	logger *log.Logger
	conf   *config.Config
	store  store.Store

	// auth is nil when no session secret is configured.
	auth *session.Authenticator

	authService       service.AuthService
	assignmentService service.AssignmentService
	submissionService service.SubmissionService
}

// ServerConfig is the server configuration.
type ServerConfig struct {
	Conf  *config.Config
	Store store.Store
	// Limiter throttles logins. Nil disables throttling.
	Limiter service.Limiter
	// Clock defaults to the wall clock.
	Clock session.Clock
}

// NewServer creates a new server. A missing session secret or teacher
// password does not fail: the affected routes answer "server not
// configured" instead.
func NewServer(cfg *ServerConfig) (*Server, error) {
	logger := log.GetLogger("server")
	conf := cfg.Conf

	s := &Server{
		logger: logger,
		conf:   conf,
		store:  cfg.Store,
	}

	if conf.SessionConfigured() {
		opts := []session.Option{
			session.WithTTL(conf.Session.TTL),
			session.WithLeeway(conf.Session.Leeway),
			session.WithCookie(session.CookieOptions{
				Name:   conf.Session.CookieName,
				Domain: conf.Session.Domain,
				Secure: conf.Session.Secure,
			}),
		}
		if cfg.Clock != nil {
			opts = append(opts, session.WithClock(cfg.Clock))
		}
		auth, err := session.NewAuthenticator([]byte(conf.Session.Secret), opts...)
		if err != nil {
			return nil, err
		}
		s.auth = auth
	} else {
		logger.Warningf("session secret is not set, teacher routes are disabled")
	}
	if conf.Teacher.Password == "" {
		logger.Warningf("teacher password is not set, login is disabled")
	}

	s.authService = service.NewAuthService(&service.AuthConfig{
		Authenticator: s.auth,
		Password:      conf.Teacher.Password,
		Limiter:       cfg.Limiter,
		Limit:         conf.Login.Limit,
		Window:        conf.Login.Window,
	})
	s.assignmentService = service.NewAssignmentService(cfg.Store, conf.Supabase.Bucket)
	s.submissionService = service.NewSubmissionService(cfg.Store)

	if gin.Mode() == gin.TestMode {
		s.Engine = gin.New()
		s.Use(gin.Recovery())
	} else {
		s.Engine = gin.Default()
	}
	s.HandleMethodNotAllowed = true

	// The login throttle keys on ClientIP, so forwarded headers are only
	// believed from configured proxies.
	if err := s.SetTrustedProxies(conf.App.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	s.TrustedPlatform = conf.App.TrustedPlatform

	s.apiRouter()
	return s, nil
}

// Authenticator returns the session authenticator, or nil when the
// server runs without a secret.
func (s *Server) Authenticator() *session.Authenticator {
	return s.auth
}
