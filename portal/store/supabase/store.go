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

package supabase

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"

	"classroom/portal/model"
	"classroom/portal/store"
)

var _ store.Store = (*Client)(nil)

const (
	assignmentColumns = "id,title,description,section,due_date,active"
	submissionColumns = "id,assignment_id,student_id,student_name,content,content_url,submitted_at"
	studentColumns    = "id,name,class_id"
)

// Insert rows leave the generated columns to the database.
type assignmentRow struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Section     *string `json:"section"`
	DueDate     *string `json:"due_date"`
	Active      bool    `json:"active"`
}

type submissionRow struct {
	AssignmentID int64   `json:"assignment_id"`
	StudentID    *int64  `json:"student_id,omitempty"`
	StudentName  string  `json:"student_name"`
	Content      *string `json:"content"`
	ContentURL   *string `json:"content_url"`
}

func (c *Client) ListActiveAssignments(ctx context.Context) ([]model.Assignment, error) {
	q := url.Values{}
	q.Set("select", assignmentColumns)
	q.Set("active", "is.true")
	q.Set("order", "due_date.asc")

	req, _ := c.jsonRequest("assignments.active", http.MethodGet, restPrefix+"assignments", q, nil)
	var out []model.Assignment
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) ListAssignments(ctx context.Context, classID int64) ([]model.Assignment, error) {
	q := url.Values{}
	q.Set("order", "created_at.desc")
	if classID != 0 {
		q.Set("select", "*,assignment_targets!inner(class_id)")
		q.Set("assignment_targets.class_id", eq(classID))
	} else {
		q.Set("select", "*")
	}

	req, _ := c.jsonRequest("assignments.list", http.MethodGet, restPrefix+"assignments", q, nil)
	var out []model.Assignment
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) CreateAssignment(ctx context.Context, a *model.Assignment) error {
	rows := []assignmentRow{{
		Title:       a.Title,
		Description: a.Description,
		Section:     a.Section,
		DueDate:     a.DueDate,
		Active:      a.Active,
	}}
	req, err := c.jsonRequest("assignments.create", http.MethodPost, restPrefix+"assignments", nil, rows)
	if err != nil {
		return err
	}
	req.prefer = preferRepresentation

	var out []model.Assignment
	if err := c.do(ctx, req, &out); err != nil {
		return err
	}
	if len(out) == 0 {
		return errors.New("assignments.create: no row returned")
	}
	*a = out[0]
	return nil
}

func (c *Client) UpdateAssignmentStorage(ctx context.Context, id int64, storagePath, publicURL string) error {
	q := url.Values{}
	q.Set("id", eq(id))
	patch := map[string]string{"storage_path": storagePath, "public_url": publicURL}

	req, err := c.jsonRequest("assignments.update", http.MethodPatch, restPrefix+"assignments", q, patch)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

func (c *Client) DeleteAssignment(ctx context.Context, id int64) error {
	q := url.Values{}
	q.Set("id", eq(id))
	req, _ := c.jsonRequest("assignments.delete", http.MethodDelete, restPrefix+"assignments", q, nil)
	return c.do(ctx, req, nil)
}

func (c *Client) AddTargets(ctx context.Context, targets []model.AssignmentTarget) error {
	if len(targets) == 0 {
		return nil
	}
	req, err := c.jsonRequest("targets.create", http.MethodPost, restPrefix+"assignment_targets", nil, targets)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

func (c *Client) AddQuestions(ctx context.Context, questions []model.AssignmentQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	req, err := c.jsonRequest("questions.create", http.MethodPost, restPrefix+"assignment_questions", nil, questions)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

// PutObject uploads body with upsert semantics. The object name is sent
// as a single escaped path segment.
func (c *Client) PutObject(ctx context.Context, bucket, name, contentType string, body []byte) error {
	q := url.Values{}
	q.Set("upsert", "true")
	req := &request{
		op:          "storage.put",
		method:      http.MethodPost,
		path:        storagePrefix + url.PathEscape(bucket) + "/" + url.PathEscape(name),
		query:       q,
		body:        bytes.NewReader(body),
		contentType: contentType,
	}
	return c.do(ctx, req, nil)
}

func (c *Client) PublicURL(bucket, name string) string {
	return c.base + storagePrefix + "public/" + bucket + "/" + name
}

func (c *Client) CreateSubmission(ctx context.Context, s *model.Submission) ([]model.Submission, error) {
	rows := []submissionRow{{
		AssignmentID: s.AssignmentID,
		StudentID:    s.StudentID,
		StudentName:  s.StudentName,
		Content:      s.Content,
		ContentURL:   s.ContentURL,
	}}
	req, err := c.jsonRequest("submissions.create", http.MethodPost, restPrefix+"submissions", nil, rows)
	if err != nil {
		return nil, err
	}
	req.prefer = preferRepresentation

	var out []model.Submission
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) ListSubmissions(ctx context.Context, assignmentID int64) ([]model.Submission, error) {
	q := url.Values{}
	q.Set("select", submissionColumns)
	q.Set("order", "submitted_at.desc")
	if assignmentID != 0 {
		q.Set("assignment_id", eq(assignmentID))
	}

	req, _ := c.jsonRequest("submissions.list", http.MethodGet, restPrefix+"submissions", q, nil)
	var out []model.Submission
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) ListStudents(ctx context.Context, classID int64) ([]model.Student, error) {
	q := url.Values{}
	q.Set("select", studentColumns)
	q.Set("class_id", eq(classID))

	req, _ := c.jsonRequest("students.list", http.MethodGet, restPrefix+"students", q, nil)
	var out []model.Student
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
