package services

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"classhub/internal/apperrors"
	"classhub/internal/models"
	"classhub/internal/repository"
)

// defaultListLimit caps the notification bell dropdown.
const defaultListLimit = 30

type NotificationService interface {
	// Dispatch. Both calls are best-effort: a persistence failure is logged
	// and swallowed so the triggering lifecycle operation never fails or
	// rolls back because of its notifications.
	NotifyOne(recipientID uuid.UUID, kind models.NotificationKind, title, message, link string)
	NotifyMany(recipientIDs []uuid.UUID, kind models.NotificationKind, title, message, link string)

	// Sink, consumed by the recipient.
	ListForRecipient(recipientID uuid.UUID, limit int, unreadOnly bool) ([]*models.Notification, error)
	UnreadCount(recipientID uuid.UUID) (int64, error)
	MarkRead(id, recipientID uuid.UUID) error
	MarkAllRead(recipientID uuid.UUID) error
	Delete(id, recipientID uuid.UUID) error

	// Maintenance, invoked by an external scheduler.
	SendDeadlineWarnings(now time.Time) error
	CleanupOld(olderThan time.Time) error
}

type notificationService struct {
	notifications repository.NotificationRepository
	projects      repository.ProjectRepository
	subjects      repository.SubjectRepository
	submissions   repository.SubmissionRepository
}

func NewNotificationService(
	notifications repository.NotificationRepository,
	projects repository.ProjectRepository,
	subjects repository.SubjectRepository,
	submissions repository.SubmissionRepository,
) NotificationService {
	return &notificationService{
		notifications: notifications,
		projects:      projects,
		subjects:      subjects,
		submissions:   submissions,
	}
}

func (s *notificationService) NotifyOne(recipientID uuid.UUID, kind models.NotificationKind, title, message, link string) {
	n := &models.Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Kind:        kind,
		Title:       title,
		Message:     message,
		Link:        link,
		CreatedAt:   time.Now(),
	}
	if err := s.notifications.Create(n); err != nil {
		log.Printf("notification %s for %s dropped: %v", kind, recipientID, err)
	}
}

func (s *notificationService) NotifyMany(recipientIDs []uuid.UUID, kind models.NotificationKind, title, message, link string) {
	if len(recipientIDs) == 0 {
		return
	}
	now := time.Now()
	batch := make([]*models.Notification, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		batch = append(batch, &models.Notification{
			ID:          uuid.New(),
			RecipientID: id,
			Kind:        kind,
			Title:       title,
			Message:     message,
			Link:        link,
			CreatedAt:   now,
		})
	}
	// One batch write; partial failure is acceptable and not retried.
	if err := s.notifications.CreateBatch(batch); err != nil {
		log.Printf("bulk notification %s for %d recipients dropped: %v", kind, len(recipientIDs), err)
	}
}

func (s *notificationService) ListForRecipient(recipientID uuid.UUID, limit int, unreadOnly bool) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	notifications, err := s.notifications.ListByRecipient(recipientID, limit, unreadOnly)
	if err != nil {
		return nil, apperrors.NewStorage("list notifications", err)
	}
	return notifications, nil
}

func (s *notificationService) UnreadCount(recipientID uuid.UUID) (int64, error) {
	count, err := s.notifications.CountUnread(recipientID)
	if err != nil {
		return 0, apperrors.NewStorage("count unread notifications", err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(id, recipientID uuid.UUID) error {
	if err := s.notifications.MarkRead(id, recipientID); err != nil {
		return apperrors.NewStorage("mark notification read", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(recipientID uuid.UUID) error {
	if err := s.notifications.MarkAllRead(recipientID); err != nil {
		return apperrors.NewStorage("mark all notifications read", err)
	}
	return nil
}

func (s *notificationService) Delete(id, recipientID uuid.UUID) error {
	if err := s.notifications.DeleteForRecipient(id, recipientID); err != nil {
		return apperrors.NewStorage("delete notification", err)
	}
	return nil
}

// SendDeadlineWarnings warns every enrolled student who has not yet submitted
// work for an approved project due within the warning window. Periodicity is
// owned by whoever invokes it; one call is one sweep.
func (s *notificationService) SendDeadlineWarnings(now time.Time) error {
	// DaysLeft rounds up, so a deadline less than a day past still counts as
	// day zero.
	from := now.Add(-24 * time.Hour)
	to := now.Add((warningWindowDays + 1) * 24 * time.Hour)
	projects, err := s.projects.ListApprovedDueBetween(from, to)
	if err != nil {
		return apperrors.NewStorage("list projects due soon", err)
	}

	for _, project := range projects {
		if !InWarningWindow(now, project.Deadline) {
			continue
		}

		studentIDs, err := s.subjects.ListStudentIDs(project.SubjectID)
		if err != nil {
			return apperrors.NewStorage("list enrolled students", err)
		}
		submissions, err := s.submissions.ListByProject(project.ID)
		if err != nil {
			return apperrors.NewStorage("list submissions", err)
		}

		submitted := make(map[uuid.UUID]bool, len(submissions))
		for _, sub := range submissions {
			if sub.Status != models.SubmissionStatusDraft {
				submitted[sub.StudentID] = true
			}
		}

		pending := make([]uuid.UUID, 0, len(studentIDs))
		for _, id := range studentIDs {
			if !submitted[id] {
				pending = append(pending, id)
			}
		}
		if len(pending) == 0 {
			continue
		}

		days := DaysLeft(now, project.Deadline)
		s.NotifyMany(pending, models.NotificationDeadlineWarning,
			"Deadline Approaching",
			fmt.Sprintf("%q is due in %d day(s). You have not submitted yet.", project.Title, days),
			"/student/projects")
	}
	return nil
}

func (s *notificationService) CleanupOld(olderThan time.Time) error {
	if err := s.notifications.CleanupOld(olderThan); err != nil {
		return apperrors.NewStorage("cleanup notifications", err)
	}
	return nil
}
