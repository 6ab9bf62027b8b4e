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

package model

import "time"

// Assignment is one published piece of work. Optional columns are
// pointers so that they round-trip as JSON null.
type Assignment struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description *string   `gorm:"column:description" json:"description"`
	Section     *string   `gorm:"column:section" json:"section"`
	DueDate     *string   `gorm:"column:due_date;size:32;index" json:"due_date"`
	Active      bool      `gorm:"column:active;index" json:"active"`
	StoragePath *string   `gorm:"column:storage_path" json:"storage_path,omitempty"`
	PublicURL   *string   `gorm:"column:public_url" json:"public_url,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// AssignmentTarget assigns an assignment to a class.
type AssignmentTarget struct {
	AssignmentID int64 `gorm:"column:assignment_id;primaryKey;autoIncrement:false" json:"assignment_id"`
	ClassID      int64 `gorm:"column:class_id;primaryKey;autoIncrement:false" json:"class_id"`
}

func (AssignmentTarget) TableName() string {
	return "assignment_targets"
}

type AssignmentQuestion struct {
	ID           int64    `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	AssignmentID int64    `gorm:"column:assignment_id;index" json:"assignment_id"`
	Text         string   `gorm:"column:text" json:"text"`
	StandardCode *string  `gorm:"column:standard_code" json:"standard_code"`
	IEPCodes     []string `gorm:"column:iep_codes;serializer:json" json:"iep_codes"`
}

func (AssignmentQuestion) TableName() string {
	return "assignment_questions"
}

// Submission is a student's answer to an assignment. StudentID is unset
// for anonymous submissions made from the public site.
type Submission struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AssignmentID int64     `gorm:"column:assignment_id;index" json:"assignment_id"`
	StudentID    *int64    `gorm:"column:student_id;index" json:"student_id"`
	StudentName  string    `gorm:"column:student_name" json:"student_name"`
	Content      *string   `gorm:"column:content" json:"content"`
	ContentURL   *string   `gorm:"column:content_url" json:"content_url"`
	SubmittedAt  time.Time `gorm:"column:submitted_at;autoCreateTime" json:"submitted_at"`
}

func (Submission) TableName() string {
	return "submissions"
}

type Student struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"column:name" json:"name"`
	ClassID int64  `gorm:"column:class_id;index" json:"class_id"`
}

func (Student) TableName() string {
	return "students"
}

// Object is a stored file of the SQL backend, addressed by bucket and name.
type Object struct {
	Bucket      string    `gorm:"column:bucket;primaryKey;size:191"`
	Name        string    `gorm:"column:name;primaryKey;size:512"`
	ContentType string    `gorm:"column:content_type"`
	Body        []byte    `gorm:"column:body"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Object) TableName() string {
	return "objects"
}

// Counts is the roster summary of one assignment for one class.
type Counts struct {
	Submitted int `json:"submitted"`
	Missing   int `json:"missing"`
}
