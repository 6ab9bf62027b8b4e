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

package classerrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when the session secret or the teacher
	// password is missing. It maps to a 5xx, never to a 401.
	ErrNotConfigured = errors.New("server not configured")

	// ErrInvalidToken covers every token verification failure: wrong shape,
	// bad encoding, bad signature, bad JSON and expiry.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthorized is returned when a request carries no usable session
	// for the required role.
	ErrUnauthorized = errors.New("unauthorized")

	ErrInvalidPassword = errors.New("invalid password")
	ErrTooManyAttempts = errors.New("too many login attempts")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)

// UpstreamError is a non-2xx answer from the backing data store. Status and
// Body are handed back to the client as-is.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

// ArgumentError is a request validation failure. Its message is safe to
// return to the client.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string { return e.Msg }

func (e *ArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// Invalid returns an ArgumentError with the given message.
func Invalid(msg string) error {
	return &ArgumentError{Msg: msg}
}
