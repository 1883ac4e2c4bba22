package models

import (
	"time"

	"github.com/google/uuid"
)

// AnnouncementScope defines who an announcement reaches.
type AnnouncementScope string

const (
	AnnouncementScopeGlobal  AnnouncementScope = "global"
	AnnouncementScopeSubject AnnouncementScope = "subject"
)

// Announcement is a teacher-authored notice, either global or scoped to one
// subject's roster.
type Announcement struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Title     string            `json:"title" gorm:"not null"`
	Content   string            `json:"content" gorm:"not null"`
	AuthorID  uuid.UUID         `json:"author_id" gorm:"type:uuid;not null"`
	Scope     AnnouncementScope `json:"scope" gorm:"type:varchar(10);not null;default:'subject'"`
	SubjectID *uuid.UUID        `json:"subject_id,omitempty" gorm:"type:uuid"`
	IsPinned  bool              `json:"is_pinned" gorm:"default:false"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	Author  *User    `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
}
