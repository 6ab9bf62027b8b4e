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

package middleware

import (
	"classroom/pkg/session"
	"classroom/pkg/utils/resp"

	"github.com/gin-gonic/gin"
)

// ClaimsKey is where RequireRole leaves the verified claims.
const ClaimsKey = "session.claims"

// RequireRole lets the request through only with a valid session cookie
// for role. A nil authenticator means no secret is configured, which is a
// server fault rather than a client one.
func RequireRole(auth *session.Authenticator, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth == nil {
			resp.ServerError(c, "server not configured")
			c.Abort()
			return
		}

		claims, err := auth.RequireRole(c.Request, role)
		if err != nil {
			resp.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Claims returns the claims stored by RequireRole.
func Claims(c *gin.Context) session.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(session.Claims)
	return claims
}
