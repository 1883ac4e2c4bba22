package models

import (
	"time"

	"github.com/google/uuid"
)

// Subject represents a course with an optional teacher and a student roster.
type Subject struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string     `json:"name" gorm:"not null"`
	Code        string     `json:"code" gorm:"uniqueIndex;not null"`
	Description string     `json:"description"`
	TeacherID   *uuid.UUID `json:"teacher_id,omitempty" gorm:"type:uuid"`
	CoverImage  string     `json:"cover_image"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Teacher  *User            `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Students []SubjectStudent `json:"students,omitempty" gorm:"foreignKey:SubjectID"`
}

// SubjectStudent is one enrollment row. The composite unique index keeps a
// student from appearing twice on the same roster.
type SubjectStudent struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SubjectID  uuid.UUID `json:"subject_id" gorm:"type:uuid;not null;uniqueIndex:idx_subject_student"`
	StudentID  uuid.UUID `json:"student_id" gorm:"type:uuid;not null;uniqueIndex:idx_subject_student"`
	EnrolledAt time.Time `json:"enrolled_at"`

	Student User `json:"student" gorm:"foreignKey:StudentID"`
}
