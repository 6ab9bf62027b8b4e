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

package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"classroom/pkg/classerrors"
)

// ID is a row id that decodes from either a JSON number or a numeric
// string, since HTML forms post ids as strings.
type ID int64

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*id = 0
			return nil
		}
		data = []byte(s)
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return classerrors.Invalid("invalid id " + strconv.Quote(string(data)))
	}
	*id = ID(n)
	return nil
}

type LoginRequest struct {
	Password string `json:"password"`
}

type QuestionDto struct {
	Text         string   `json:"text"`
	StandardCode string   `json:"standard_code,omitempty"`
	IEPCodes     []string `json:"iep_codes,omitempty"`
}

// AssignmentCreateRequest is the body of the create assignment call.
// HTMLText is the assignment page, uploaded as-is.
type AssignmentCreateRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Section     string        `json:"section,omitempty"`
	DueDate     string        `json:"due_date,omitempty"`
	ClassIDs    []ID          `json:"class_ids,omitempty"`
	HTMLText    string        `json:"htmlText"`
	Questions   []QuestionDto `json:"questions,omitempty"`
}

func (r *AssignmentCreateRequest) Validate() error {
	if r.Title == "" || r.HTMLText == "" {
		return classerrors.Invalid("title and htmlText are required")
	}
	return nil
}

type AssignmentCreateResponse struct {
	OK           bool   `json:"ok"`
	AssignmentID int64  `json:"assignment_id"`
	PublicURL    string `json:"public_url"`
}

type SubmissionCreateRequest struct {
	AssignmentID ID     `json:"assignment_id"`
	StudentName  string `json:"student_name"`
	Content      string `json:"content,omitempty"`
	ContentURL   string `json:"content_url,omitempty"`
}

func (r *SubmissionCreateRequest) Validate() error {
	if r.AssignmentID == 0 || r.StudentName == "" {
		return classerrors.Invalid("assignment_id and student_name are required")
	}
	return nil
}

// SubmissionQuery is bound from the query string of the submissions list.
type SubmissionQuery struct {
	AssignmentID int64 `form:"assignment_id"`
	ClassID      int64 `form:"class_id"`
}

func (q *SubmissionQuery) Validate() error {
	if q.AssignmentID == 0 {
		return classerrors.Invalid("assignment_id required")
	}
	return nil
}

type AssignmentQuery struct {
	ClassID int64 `form:"class_id"`
}

// OptionalString maps "" to nil.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
