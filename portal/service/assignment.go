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
	"errors"
	"fmt"
	"strings"

	"classroom/pkg/classerrors"
	"classroom/pkg/log"
	"classroom/portal/dto"
	"classroom/portal/model"
	"classroom/portal/store"
)

const pageContentType = "text/html; charset=utf-8"

// AssignmentService publishes assignments and reports on them.
type AssignmentService interface {
	// Create stores the assignment, uploads its page and records the
	// page location, class targets and questions.
	Create(ctx context.Context, req *dto.AssignmentCreateRequest) (*dto.AssignmentCreateResponse, error)
	ListActive(ctx context.Context) ([]model.Assignment, error)
	// AdminList lists every assignment. With a class it keeps that class's
	// assignments and counts the roster against their submissions.
	AdminList(ctx context.Context, classID int64) (*AdminList, error)
}

type AdminList struct {
	Assignments []model.Assignment     `json:"assignments"`
	Counts      map[int64]model.Counts `json:"counts"`
}

var (
	_ AssignmentService = (*assignmentServiceImpl)(nil)
)

type assignmentServiceImpl struct {
	store  store.Store
	bucket string
	logger *log.Logger
}

func NewAssignmentService(st store.Store, bucket string) AssignmentService {
	if bucket == "" {
		bucket = store.DefaultBucket
	}
	return &assignmentServiceImpl{
		store:  st,
		bucket: bucket,
		logger: log.GetLogger("assignment-service"),
	}
}

func (s *assignmentServiceImpl) Create(ctx context.Context, req *dto.AssignmentCreateRequest) (*dto.AssignmentCreateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a := &model.Assignment{
		Title:       req.Title,
		Description: dto.OptionalString(req.Description),
		Section:     dto.OptionalString(req.Section),
		DueDate:     dto.OptionalString(req.DueDate),
		Active:      true,
	}
	if err := s.store.CreateAssignment(ctx, a); err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("%d/index.html", a.ID)
	if err := s.store.PutObject(ctx, s.bucket, objectName, pageContentType, []byte(req.HTMLText)); err != nil {
		if derr := s.store.DeleteAssignment(ctx, a.ID); derr != nil {
			s.logger.Errorf("rollback of assignment %d failed: %v", a.ID, derr)
		}
		var upstream *classerrors.UpstreamError
		if errors.As(err, &upstream) {
			return nil, &classerrors.UpstreamError{Status: upstream.Status, Body: "Upload failed: " + upstream.Body}
		}
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	publicURL := s.store.PublicURL(s.bucket, objectName)

	// The page is live at this point; the remaining writes only enrich it.
	if err := s.store.UpdateAssignmentStorage(ctx, a.ID, s.bucket+"/"+objectName, publicURL); err != nil {
		s.logger.Warningf("assignment %d: save storage path: %v", a.ID, err)
	}

	if len(req.ClassIDs) > 0 {
		targets := make([]model.AssignmentTarget, 0, len(req.ClassIDs))
		for _, cid := range req.ClassIDs {
			targets = append(targets, model.AssignmentTarget{AssignmentID: a.ID, ClassID: int64(cid)})
		}
		if err := s.store.AddTargets(ctx, targets); err != nil {
			s.logger.Warningf("assignment %d: add targets: %v", a.ID, err)
		}
	}

	if len(req.Questions) > 0 {
		questions := make([]model.AssignmentQuestion, 0, len(req.Questions))
		for _, q := range req.Questions {
			questions = append(questions, model.AssignmentQuestion{
				AssignmentID: a.ID,
				Text:         q.Text,
				StandardCode: dto.OptionalString(q.StandardCode),
				IEPCodes:     q.IEPCodes,
			})
		}
		if err := s.store.AddQuestions(ctx, questions); err != nil {
			s.logger.Warningf("assignment %d: add questions: %v", a.ID, err)
		}
	}

	s.logger.Infof("assignment %d created at %s", a.ID, publicURL)
	return &dto.AssignmentCreateResponse{OK: true, AssignmentID: a.ID, PublicURL: publicURL}, nil
}

func (s *assignmentServiceImpl) ListActive(ctx context.Context) ([]model.Assignment, error) {
	return s.store.ListActiveAssignments(ctx)
}

func (s *assignmentServiceImpl) AdminList(ctx context.Context, classID int64) (*AdminList, error) {
	assignments, err := s.store.ListAssignments(ctx, classID)
	if err != nil {
		return nil, err
	}
	out := &AdminList{Assignments: assignments, Counts: map[int64]model.Counts{}}
	if classID == 0 {
		return out, nil
	}

	// Counts are best effort: the list is still useful without them.
	subs, err := s.store.ListSubmissions(ctx, 0)
	if err != nil {
		s.logger.Warningf("counts for class %d: list submissions: %v", classID, err)
		return out, nil
	}
	roster, err := s.store.ListStudents(ctx, classID)
	if err != nil {
		s.logger.Warningf("counts for class %d: list students: %v", classID, err)
		return out, nil
	}

	byAssignment := make(map[int64]*submitters)
	for _, sub := range subs {
		who := byAssignment[sub.AssignmentID]
		if who == nil {
			who = newSubmitters()
			byAssignment[sub.AssignmentID] = who
		}
		who.add(sub)
	}

	for _, a := range assignments {
		who := byAssignment[a.ID]
		var c model.Counts
		for _, st := range roster {
			if who != nil && who.has(st) {
				c.Submitted++
			} else {
				c.Missing++
			}
		}
		out.Counts[a.ID] = c
	}
	return out, nil
}

// submitters is who handed in one assignment. Submissions made without a
// student id are matched to the roster by name.
type submitters struct {
	ids   map[int64]struct{}
	names map[string]struct{}
}

func newSubmitters() *submitters {
	return &submitters{ids: map[int64]struct{}{}, names: map[string]struct{}{}}
}

func (w *submitters) add(sub model.Submission) {
	if sub.StudentID != nil {
		w.ids[*sub.StudentID] = struct{}{}
		return
	}
	if name := normalizeName(sub.StudentName); name != "" {
		w.names[name] = struct{}{}
	}
}

func (w *submitters) has(st model.Student) bool {
	if _, ok := w.ids[st.ID]; ok {
		return true
	}
	_, ok := w.names[normalizeName(st.Name)]
	return ok
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
