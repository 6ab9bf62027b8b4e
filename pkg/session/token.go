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

// Package session issues and verifies the signed bearer token that carries
// the teacher session in a cookie.
//
// A token is a compact HS256 JWT:
//
//	base64url({"alg":"HS256","typ":"JWT"}) "." base64url(payload) "." base64url(hmac)
//
// where payload is the caller's claims plus "iat" and "exp" in Unix seconds.
// There is no server-side session state: a token is valid while its
// signature matches and the current second is not past "exp".
package session

import (
	"errors"
	"strings"
	"time"

	"classroom/pkg/classerrors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTTL is the lifetime of a freshly issued token.
	DefaultTTL = 8 * time.Hour

	RoleTeacher = "teacher"

	ClaimRole     = "role"
	ClaimIssuedAt = "iat"
	ClaimExpiry   = "exp"
)

// Claims is the decoded token payload. Numbers decode as float64.
type Claims map[string]any

// Role returns the "role" claim, or "" when it is absent or not a string.
func (c Claims) Role() string {
	role, _ := c[ClaimRole].(string)
	return role
}

// ExpiresAt returns the "exp" claim.
func (c Claims) ExpiresAt() (time.Time, bool) {
	return c.unix(ClaimExpiry)
}

// IssuedAt returns the "iat" claim.
func (c Claims) IssuedAt() (time.Time, bool) {
	return c.unix(ClaimIssuedAt)
}

func (c Claims) unix(key string) (time.Time, bool) {
	switch v := c[key].(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	case int:
		return time.Unix(int64(v), 0), true
	}
	return time.Time{}, false
}

// Authenticator mints and checks session tokens with one secret. It is
// immutable after construction and safe for concurrent use.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
	clock  Clock
	cookie CookieOptions
	parser *jwt.Parser
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithTTL sets the token lifetime. It is truncated to whole seconds.
func WithTTL(ttl time.Duration) Option {
	return func(a *Authenticator) { a.ttl = ttl }
}

// WithLeeway tolerates clock skew past "exp".
func WithLeeway(leeway time.Duration) Option {
	return func(a *Authenticator) { a.leeway = leeway }
}

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(a *Authenticator) { a.clock = clock }
}

// WithCookie sets how the session cookie is named and written. A zero
// MaxAge follows the token TTL.
func WithCookie(opts CookieOptions) Option {
	return func(a *Authenticator) { a.cookie = opts }
}

// NewAuthenticator returns an Authenticator for secret. An empty secret is a
// deployment error and yields classerrors.ErrNotConfigured.
func NewAuthenticator(secret []byte, opts ...Option) (*Authenticator, error) {
	if len(secret) == 0 {
		return nil, classerrors.ErrNotConfigured
	}

	a := &Authenticator{
		secret: append([]byte(nil), secret...),
		ttl:    DefaultTTL,
		clock:  RealClock(),
		cookie: CookieOptions{Name: DefaultCookieName, Secure: true},
	}
	for _, opt := range opts {
		opt(a)
	}

	a.ttl = a.ttl.Truncate(time.Second)
	if a.ttl <= 0 {
		return nil, errors.New("session ttl must be at least one second")
	}
	if a.leeway < 0 {
		return nil, errors.New("session leeway must not be negative")
	}
	if a.cookie.Name == "" {
		a.cookie.Name = DefaultCookieName
	}
	if a.cookie.MaxAge <= 0 {
		a.cookie.MaxAge = a.ttl
	}

	// exp is a whole second and stays valid through that second, hence the
	// extra second on top of the configured leeway.
	a.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(time.Second+a.leeway),
		jwt.WithTimeFunc(a.clock.Now),
		jwt.WithStrictDecoding(),
	)
	return a, nil
}

// TTL returns the lifetime of issued tokens.
func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}

// Issue returns a signed token for claims plus "iat" (now) and
// "exp" (now + TTL). Caller-supplied "iat" and "exp" are overwritten.
func (a *Authenticator) Issue(claims Claims) (string, error) {
	now := a.clock.Now().Unix()

	payload := make(jwt.MapClaims, len(claims)+2)
	for k, v := range claims {
		payload[k] = v
	}
	payload[ClaimIssuedAt] = now
	payload[ClaimExpiry] = now + int64(a.ttl/time.Second)

	return jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(a.secret)
}

// Verify checks the signature and expiry of token and returns its claims.
// Every failure returns classerrors.ErrInvalidToken and nothing else.
func (a *Authenticator) Verify(token string) (Claims, error) {
	if !wellFormed(token) {
		return nil, classerrors.ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	parsed, err := a.parser.ParseWithClaims(token, claims, a.key)
	if err != nil || !parsed.Valid {
		return nil, classerrors.ErrInvalidToken
	}
	return Claims(claims), nil
}

func (a *Authenticator) key(*jwt.Token) (interface{}, error) {
	return a.secret, nil
}

func wellFormed(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// Issue signs claims with secret for ttl using the wall clock.
func Issue(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	a, err := NewAuthenticator(secret, WithTTL(ttl))
	if err != nil {
		return "", err
	}
	return a.Issue(claims)
}

// Verify checks token against secret using the wall clock.
func Verify(token string, secret []byte) (Claims, error) {
	a, err := NewAuthenticator(secret)
	if err != nil {
		return nil, classerrors.ErrInvalidToken
	}
	return a.Verify(token)
}
