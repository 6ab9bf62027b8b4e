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

	"classroom/pkg/classerrors"
)

// RequireRole authorizes r when its session cookie holds a valid token whose
// role claim equals role. A missing cookie, an invalid token and a role
// mismatch all return classerrors.ErrUnauthorized so callers cannot tell
// them apart.
func (a *Authenticator) RequireRole(r *http.Request, role string) (Claims, error) {
	token := TokenFromRequest(r, a.cookie.Name)
	if token == "" {
		return nil, classerrors.ErrUnauthorized
	}

	claims, err := a.Verify(token)
	if err != nil || claims.Role() != role {
		return nil, classerrors.ErrUnauthorized
	}
	return claims, nil
}

// RequireRole checks the default session cookie of r against secret.
func RequireRole(r *http.Request, secret []byte, role string) (Claims, error) {
	a, err := NewAuthenticator(secret)
	if err != nil {
		return nil, err
	}
	return a.RequireRole(r, role)
}
