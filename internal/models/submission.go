package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus defines the stored submission states. "No submission yet"
// is the absence of a row, not a status.
type SubmissionStatus string

const (
	SubmissionStatusDraft     SubmissionStatus = "draft"
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusGraded    SubmissionStatus = "graded"
)

// Submission represents a student's attempt at a project. At most one row
// exists per (project, student) pair. IsLate is fixed at the moment the work
// transitions to submitted; a draft re-save or grading never changes it.
type Submission struct {
	ID           uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID    uuid.UUID        `json:"project_id" gorm:"type:uuid;not null;uniqueIndex:idx_project_student"`
	StudentID    uuid.UUID        `json:"student_id" gorm:"type:uuid;not null;uniqueIndex:idx_project_student"`
	FileURL      string           `json:"file_url"`
	TextResponse string           `json:"text_response"`
	SubmittedAt  *time.Time       `json:"submitted_at,omitempty"` // nil while draft
	IsLate       bool             `json:"is_late"`
	Grade        *int             `json:"grade,omitempty"` // nil until graded
	Feedback     string           `json:"feedback"`
	Status       SubmissionStatus `json:"status" gorm:"type:varchar(10);not null;default:'draft'"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Student *User    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}
