package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"classroom/pkg/classerrors"
	"classroom/portal/model"
)

// memStore is an in-memory store.Store with switchable failures.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	assignments map[int64]model.Assignment
	targets     []model.AssignmentTarget
	questions   []model.AssignmentQuestion
	objects     map[string][]byte
	submissions []model.Submission
	students    []model.Student

	failPut      error
	failTargets  error
	failStudents error
	failSubs     error
	deleted      []int64
}

func newMemStore() *memStore {
	return &memStore{
		assignments: map[int64]model.Assignment{},
		objects:     map[string][]byte{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) ListActiveAssignments(ctx context.Context) ([]model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Assignment{}
	for _, a := range m.assignments {
		if a.Active {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) ListAssignments(ctx context.Context, classID int64) ([]model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Assignment{}
	for _, a := range m.assignments {
		if classID == 0 || m.targeted(a.ID, classID) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) targeted(id, classID int64) bool {
	for _, t := range m.targets {
		if t.AssignmentID == id && t.ClassID == classID {
			return true
		}
	}
	return false
}

func (m *memStore) CreateAssignment(ctx context.Context, a *model.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.id()
	a.CreatedAt = time.Now()
	m.assignments[a.ID] = *a
	return nil
}

func (m *memStore) UpdateAssignmentStorage(ctx context.Context, id int64, storagePath, publicURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok {
		return classerrors.ErrNotFound
	}
	a.StoragePath, a.PublicURL = &storagePath, &publicURL
	m.assignments[id] = a
	return nil
}

func (m *memStore) DeleteAssignment(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assignments, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memStore) AddTargets(ctx context.Context, targets []model.AssignmentTarget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTargets != nil {
		return m.failTargets
	}
	m.targets = append(m.targets, targets...)
	return nil
}

func (m *memStore) AddQuestions(ctx context.Context, questions []model.AssignmentQuestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = append(m.questions, questions...)
	return nil
}

func (m *memStore) PutObject(ctx context.Context, bucket, name, contentType string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut != nil {
		return m.failPut
	}
	m.objects[bucket+"/"+name] = body
	return nil
}

func (m *memStore) PublicURL(bucket, name string) string {
	return "https://cdn.test/" + bucket + "/" + name
}

func (m *memStore) CreateSubmission(ctx context.Context, s *model.Submission) ([]model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.id()
	s.SubmittedAt = time.Now()
	m.submissions = append(m.submissions, *s)
	return []model.Submission{*s}, nil
}

func (m *memStore) ListSubmissions(ctx context.Context, assignmentID int64) ([]model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSubs != nil {
		return nil, m.failSubs
	}
	out := []model.Submission{}
	for i := len(m.submissions) - 1; i >= 0; i-- {
		if s := m.submissions[i]; assignmentID == 0 || s.AssignmentID == assignmentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ListStudents(ctx context.Context, classID int64) ([]model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStudents != nil {
		return nil, m.failStudents
	}
	out := []model.Student{}
	for _, s := range m.students {
		if s.ClassID == classID {
			out = append(out, s)
		}
	}
	return out, nil
}

var errBoom = errors.New("boom")

func int64p(v int64) *int64 { return &v }
