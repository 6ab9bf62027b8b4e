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

package resp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope of every error answer. Successful answers
// are the bare document so existing page scripts can read them.
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

func write(c *gin.Context, status int, msg string, data interface{}) {
	c.JSON(status, &Response{Code: status, Msg: msg, Data: data})
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func BadRequest(c *gin.Context, msg string) {
	write(c, http.StatusBadRequest, msg, nil)
}

// Unauthorized always answers with the same message so the client cannot
// learn which check failed.
func Unauthorized(c *gin.Context) {
	write(c, http.StatusUnauthorized, "Unauthorized", nil)
}

func Forbidden(c *gin.Context, msg string) {
	write(c, http.StatusForbidden, msg, nil)
}

func NotFound(c *gin.Context, msg string) {
	write(c, http.StatusNotFound, msg, nil)
}

func MethodNotAllowed(c *gin.Context) {
	write(c, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
}

func TooManyRequests(c *gin.Context, msg string) {
	write(c, http.StatusTooManyRequests, msg, nil)
}

func ServerError(c *gin.Context, msg string) {
	write(c, http.StatusInternalServerError, msg, nil)
}

// Upstream relays a failed backing-store answer with its own status.
func Upstream(c *gin.Context, status int, body string) {
	write(c, status, body, nil)
}
