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

package session

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultCookieName is the cookie that carries the teacher session.
const DefaultCookieName = "tc"

// CookieOptions describes the Set-Cookie attributes of the session cookie.
// Secure must only be false for local plaintext testing.
type CookieOptions struct {
	Name   string
	Domain string
	Secure bool
	MaxAge time.Duration
}

// Format renders a Set-Cookie value:
//
//	name=value; Path=/; HttpOnly; SameSite=Lax; Max-Age=N[; Secure][; Domain=d]
func (o CookieOptions) Format(value string) string {
	return o.format(value, int64(o.MaxAge/time.Second))
}

// Clear renders a Set-Cookie value that drops the cookie in the browser.
func (o CookieOptions) Clear() string {
	return o.format("", 0)
}

func (o CookieOptions) format(value string, maxAge int64) string {
	parts := []string{
		o.Name + "=" + value,
		"Path=/",
		"HttpOnly",
		"SameSite=Lax",
		"Max-Age=" + strconv.FormatInt(maxAge, 10),
	}
	if o.Secure {
		parts = append(parts, "Secure")
	}
	if o.Domain != "" {
		parts = append(parts, "Domain="+o.Domain)
	}
	return strings.Join(parts, "; ")
}

// TokenFromRequest returns the value of the first cookie called name, or ""
// when there is none. Percent-encoded values are decoded.
func TokenFromRequest(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	if v, err := url.PathUnescape(c.Value); err == nil {
		return v
	}
	return c.Value
}

// Cookie returns the Set-Cookie value carrying token.
func (a *Authenticator) Cookie(token string) string {
	return a.cookie.Format(token)
}

// ClearCookie returns the Set-Cookie value that ends the session.
func (a *Authenticator) ClearCookie() string {
	return a.cookie.Clear()
}

// CookieName returns the name of the session cookie.
func (a *Authenticator) CookieName() string {
	return a.cookie.Name
}
