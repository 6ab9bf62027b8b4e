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

// Package sqlstore implements store.Store with gorm over SQLite or MySQL,
// for deployments without a Supabase project.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"classroom/pkg/classerrors"
	"classroom/pkg/log"
	"classroom/portal/model"
	"classroom/portal/store"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var _ store.Store = (*Store)(nil)

type Config struct {
	Driver string
	DSN    string
	// PublicBaseURL prefixes object URLs. Empty yields site-relative URLs.
	PublicBaseURL string
}

type Store struct {
	db      *gorm.DB
	baseURL string
	logger  *log.Logger
}

// Open connects to the database and migrates every table.
func Open(cfg *Config) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	if cfg.Driver == "sqlite" {
		// a single connection keeps in-memory databases shared
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	s := &Store{
		db:      db,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:  log.GetLogger("sqlstore"),
	}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	s.logger.Infof("%s database ready", cfg.Driver)
	return s, nil
}

func (s *Store) migrate() error {
	err := s.db.AutoMigrate(
		&model.Assignment{},
		&model.AssignmentTarget{},
		&model.AssignmentQuestion{},
		&model.Submission{},
		&model.Student{},
		&model.Object{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// DB exposes the connection, mostly for seeding.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) ListActiveAssignments(ctx context.Context) ([]model.Assignment, error) {
	out := []model.Assignment{}
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("due_date IS NULL, due_date ASC").
		Find(&out).Error
	return out, err
}

func (s *Store) ListAssignments(ctx context.Context, classID int64) ([]model.Assignment, error) {
	out := []model.Assignment{}
	q := s.db.WithContext(ctx).Model(&model.Assignment{})
	if classID != 0 {
		q = q.Where("id IN (?)", s.db.Model(&model.AssignmentTarget{}).
			Select("assignment_id").
			Where("class_id = ?", classID))
	}
	// ids are allocated in insert order, so they sort like created_at
	// without depending on how the driver stores timestamps
	err := q.Order("id DESC").Find(&out).Error
	return out, err
}

func (s *Store) CreateAssignment(ctx context.Context, a *model.Assignment) error {
	a.ID = 0
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *Store) UpdateAssignmentStorage(ctx context.Context, id int64, storagePath, publicURL string) error {
	res := s.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("id = ?", id).
		Updates(map[string]any{"storage_path": storagePath, "public_url": publicURL})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return classerrors.ErrNotFound
	}
	return nil
}

// DeleteAssignment removes the assignment and the rows that hang off it.
func (s *Store) DeleteAssignment(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&model.AssignmentTarget{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assignment_id = ?", id).Delete(&model.AssignmentQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Assignment{}, id).Error
	})
}

func (s *Store) AddTargets(ctx context.Context, targets []model.AssignmentTarget) error {
	if len(targets) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&targets).Error
}

func (s *Store) AddQuestions(ctx context.Context, questions []model.AssignmentQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&questions).Error
}

func (s *Store) PutObject(ctx context.Context, bucket, name, contentType string, body []byte) error {
	obj := &model.Object{Bucket: bucket, Name: name, ContentType: contentType, Body: body}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "bucket"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_type", "body", "updated_at"}),
	}).Create(obj).Error
}

// GetObject returns classerrors.ErrNotFound when no such object exists.
func (s *Store) GetObject(ctx context.Context, bucket, name string) (*model.Object, error) {
	var obj model.Object
	err := s.db.WithContext(ctx).Where("bucket = ? AND name = ?", bucket, name).First(&obj).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, classerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

// PublicURL points at the object route of this server.
func (s *Store) PublicURL(bucket, name string) string {
	return s.baseURL + "/objects/" + bucket + "/" + name
}

func (s *Store) CreateSubmission(ctx context.Context, sub *model.Submission) ([]model.Submission, error) {
	sub.ID = 0
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return []model.Submission{*sub}, nil
}

func (s *Store) ListSubmissions(ctx context.Context, assignmentID int64) ([]model.Submission, error) {
	out := []model.Submission{}
	q := s.db.WithContext(ctx)
	if assignmentID != 0 {
		q = q.Where("assignment_id = ?", assignmentID)
	}
	err := q.Order("id DESC").Find(&out).Error
	return out, err
}

func (s *Store) ListStudents(ctx context.Context, classID int64) ([]model.Student, error) {
	out := []model.Student{}
	err := s.db.WithContext(ctx).Where("class_id = ?", classID).Order("id ASC").Find(&out).Error
	return out, err
}

// AddStudents seeds the roster. Rosters are managed outside the web API.
func (s *Store) AddStudents(ctx context.Context, students []model.Student) error {
	if len(students) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&students).Error
}
