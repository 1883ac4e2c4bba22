package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind enumerates every trigger that fans out a notification.
type NotificationKind string

const (
	NotificationProjectApproved    NotificationKind = "project_approved"
	NotificationProjectRejected    NotificationKind = "project_rejected"
	NotificationProjectPublished   NotificationKind = "project_published"
	NotificationSubmissionReceived NotificationKind = "submission_received"
	NotificationSubmissionGraded   NotificationKind = "submission_graded"
	NotificationDeadlineWarning    NotificationKind = "deadline_warning"
	NotificationAnnouncementPosted NotificationKind = "announcement_posted"
)

// Notification is an in-app message created as a side effect of a lifecycle
// transition. It is never edited; the recipient may mark it read or delete it.
type Notification struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID        `json:"recipient_id" gorm:"type:uuid;not null;index:idx_recipient_read"`
	Kind        NotificationKind `json:"kind" gorm:"type:varchar(30);not null"`
	Title       string           `json:"title" gorm:"not null"`
	Message     string           `json:"message" gorm:"not null"`
	Link        string           `json:"link" gorm:"not null"`
	IsRead      bool             `json:"is_read" gorm:"default:false;index:idx_recipient_read"`
	CreatedAt   time.Time        `json:"created_at"`

	Recipient *User `json:"recipient,omitempty" gorm:"foreignKey:RecipientID"`
}
