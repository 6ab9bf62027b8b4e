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

package service

import (
	"context"
	"time"

	"classroom/pkg/classerrors"
	"classroom/pkg/log"
	"classroom/pkg/session"
	"classroom/pkg/utils"
	"classroom/portal/metrics"
)

// Limiter counts attempts per key in a fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

// AuthService checks the teacher password and mints session tokens.
type AuthService interface {
	// Login returns a signed teacher token for clientIP when password
	// matches the configured one.
	Login(ctx context.Context, clientIP, password string) (string, error)
}

var (
	_ AuthService = (*authServiceImpl)(nil)
)

type AuthConfig struct {
	// Authenticator is nil when no session secret is configured.
	Authenticator *session.Authenticator
	Password      string
	Limiter       Limiter
	Limit         int64
	Window        time.Duration
}

type authServiceImpl struct {
	auth     *session.Authenticator
	password string
	limiter  Limiter
	limit    int64
	window   time.Duration
	logger   *log.Logger
}

func NewAuthService(cfg *AuthConfig) AuthService {
	return &authServiceImpl{
		auth:     cfg.Authenticator,
		password: cfg.Password,
		limiter:  cfg.Limiter,
		limit:    cfg.Limit,
		window:   cfg.Window,
		logger:   log.GetLogger("auth-service"),
	}
}

func (s *authServiceImpl) Login(ctx context.Context, clientIP, password string) (string, error) {
	if s.auth == nil || s.password == "" {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return "", classerrors.ErrNotConfigured
	}

	if !s.allow(ctx, clientIP) {
		metrics.LoginAttempts.WithLabelValues("throttled").Inc()
		s.logger.Warningf("login throttled for %s", clientIP)
		return "", classerrors.ErrTooManyAttempts
	}

	if !utils.ComparePassword(s.password, password) {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		s.logger.Infof("invalid teacher password from %s", clientIP)
		return "", classerrors.ErrInvalidPassword
	}

	token, err := s.auth.Issue(session.Claims{session.ClaimRole: session.RoleTeacher})
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.LoginAttempts.WithLabelValues("ok").Inc()
	return token, nil
}

// allow fails open: an unreachable limiter must not lock teachers out.
func (s *authServiceImpl) allow(ctx context.Context, clientIP string) bool {
	if s.limiter == nil || s.limit <= 0 {
		return true
	}
	ok, _, err := s.limiter.Allow(ctx, "rl:login:ip:"+clientIP, s.limit, s.window)
	if err != nil {
		s.logger.Warningf("login limiter unavailable: %v", err)
		return true
	}
	return ok
}
