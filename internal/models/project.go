package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProjectStatus defines the admin review states. Students only ever see
// approved projects.
type ProjectStatus string

const (
	ProjectStatusPending  ProjectStatus = "pending"
	ProjectStatusApproved ProjectStatus = "approved"
	ProjectStatusRejected ProjectStatus = "rejected"
)

// Project represents a teacher-authored assignment. It starts pending and
// needs an admin decision before any student can see it.
type Project struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	SubjectID   uuid.UUID      `json:"subject_id" gorm:"type:uuid;not null"`
	Deadline    time.Time      `json:"deadline" gorm:"not null"`
	MaxScore    int            `json:"max_score" gorm:"default:100"`
	Attachments datatypes.JSON `json:"attachments"` // JSON array of opaque file references
	CreatedBy   uuid.UUID      `json:"created_by" gorm:"type:uuid;not null"`
	Status      ProjectStatus  `json:"status" gorm:"type:varchar(10);not null;default:'pending'"`
	AdminNote   string         `json:"admin_note"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Creator *User    `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
}
