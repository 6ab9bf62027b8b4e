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

	"classroom/pkg/log"
	"classroom/portal/dto"
	"classroom/portal/model"
	"classroom/portal/store"
)

type SubmissionService interface {
	// Create records a student's answer and returns the stored rows.
	Create(ctx context.Context, req *dto.SubmissionCreateRequest) ([]model.Submission, error)
	// List returns the submissions of one assignment, newest first. With a
	// class it keeps only submissions by students on that class's roster.
	List(ctx context.Context, q *dto.SubmissionQuery) ([]model.Submission, error)
}

var (
	_ SubmissionService = (*submissionServiceImpl)(nil)
)

type submissionServiceImpl struct {
	store  store.Store
	logger *log.Logger
}

func NewSubmissionService(st store.Store) SubmissionService {
	return &submissionServiceImpl{store: st, logger: log.GetLogger("submission-service")}
}

func (s *submissionServiceImpl) Create(ctx context.Context, req *dto.SubmissionCreateRequest) ([]model.Submission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.store.CreateSubmission(ctx, &model.Submission{
		AssignmentID: int64(req.AssignmentID),
		StudentName:  req.StudentName,
		Content:      dto.OptionalString(req.Content),
		ContentURL:   dto.OptionalString(req.ContentURL),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Verbosef("submission for assignment %d from %q", req.AssignmentID, req.StudentName)
	return rows, nil
}

func (s *submissionServiceImpl) List(ctx context.Context, q *dto.SubmissionQuery) ([]model.Submission, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	subs, err := s.store.ListSubmissions(ctx, q.AssignmentID)
	if err != nil {
		return nil, err
	}
	if q.ClassID == 0 {
		return subs, nil
	}

	roster, err := s.store.ListStudents(ctx, q.ClassID)
	if err != nil {
		return nil, err
	}
	enrolled := make(map[int64]struct{}, len(roster))
	for _, st := range roster {
		enrolled[st.ID] = struct{}{}
	}

	filtered := make([]model.Submission, 0, len(subs))
	for _, sub := range subs {
		if sub.StudentID == nil {
			continue
		}
		if _, ok := enrolled[*sub.StudentID]; ok {
			filtered = append(filtered, sub)
		}
	}
	return filtered, nil
}
