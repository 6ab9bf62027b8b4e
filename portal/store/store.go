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

// Package store defines the data access the classroom services need.
// Implementations live in the supabase and sqlstore subpackages.
package store

import (
	"context"

	"classroom/portal/model"
)

// DefaultBucket holds the uploaded assignment pages.
const DefaultBucket = "assignments"

// Store is the backing data store. Failures of a remote store are
// returned as *classerrors.UpstreamError so callers can relay them.
type Store interface {
	// ListActiveAssignments returns active assignments by due date, oldest first.
	ListActiveAssignments(ctx context.Context) ([]model.Assignment, error)
	// ListAssignments returns all assignments, newest first. A non-zero
	// classID keeps only those targeted at that class.
	ListAssignments(ctx context.Context, classID int64) ([]model.Assignment, error)
	// CreateAssignment inserts a and fills in its generated columns.
	CreateAssignment(ctx context.Context, a *model.Assignment) error
	UpdateAssignmentStorage(ctx context.Context, id int64, storagePath, publicURL string) error
	DeleteAssignment(ctx context.Context, id int64) error
	AddTargets(ctx context.Context, targets []model.AssignmentTarget) error
	AddQuestions(ctx context.Context, questions []model.AssignmentQuestion) error

	// PutObject writes body at bucket/name, replacing any existing object.
	PutObject(ctx context.Context, bucket, name, contentType string, body []byte) error
	// PublicURL is the address the object is served from.
	PublicURL(bucket, name string) string

	// CreateSubmission inserts s and returns the stored rows.
	CreateSubmission(ctx context.Context, s *model.Submission) ([]model.Submission, error)
	// ListSubmissions returns submissions newest first. A zero
	// assignmentID lists every submission.
	ListSubmissions(ctx context.Context, assignmentID int64) ([]model.Submission, error)
	ListStudents(ctx context.Context, classID int64) ([]model.Student, error)
}
