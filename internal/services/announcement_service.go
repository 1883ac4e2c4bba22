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

type CreateAnnouncementInput struct {
	Title     string `validate:"required"`
	Content   string `validate:"required"`
	SubjectID *uuid.UUID
	IsPinned  bool
}

type AnnouncementService interface {
	Create(input CreateAnnouncementInput, authorID uuid.UUID) (*models.Announcement, error)
	ListByAuthor(authorID uuid.UUID) ([]*models.Announcement, error)
	ListForStudent(studentID uuid.UUID) ([]*models.Announcement, error)
	Delete(announcementID, authorID uuid.UUID) error
}

type announcementService struct {
	announcements repository.AnnouncementRepository
	subjects      repository.SubjectRepository
	users         repository.UserRepository
	notifier      NotificationService
}

func NewAnnouncementService(
	announcements repository.AnnouncementRepository,
	subjects repository.SubjectRepository,
	users repository.UserRepository,
	notifier NotificationService,
) AnnouncementService {
	return &announcementService{
		announcements: announcements,
		subjects:      subjects,
		users:         users,
		notifier:      notifier,
	}
}

// Create posts an announcement. With a subject it reaches that roster only;
// without one it is global and reaches every active student.
func (s *announcementService) Create(input CreateAnnouncementInput, authorID uuid.UUID) (*models.Announcement, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	scope := models.AnnouncementScopeGlobal
	if input.SubjectID != nil {
		if _, err := s.subjects.GetByID(*input.SubjectID); err != nil {
			return nil, fetchErr(err, "load subject", "subject")
		}
		scope = models.AnnouncementScopeSubject
	}

	announcement := &models.Announcement{
		ID:        uuid.New(),
		Title:     input.Title,
		Content:   input.Content,
		AuthorID:  authorID,
		Scope:     scope,
		SubjectID: input.SubjectID,
		IsPinned:  input.IsPinned,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.announcements.Create(announcement); err != nil {
		return nil, apperrors.NewStorage("create announcement", err)
	}

	s.notifyPosted(announcement)
	return announcement, nil
}

func (s *announcementService) notifyPosted(announcement *models.Announcement) {
	var recipientIDs []uuid.UUID
	var err error
	if announcement.Scope == models.AnnouncementScopeSubject {
		recipientIDs, err = s.subjects.ListStudentIDs(*announcement.SubjectID)
	} else {
		var students []*models.User
		students, err = s.users.ListActiveByRole(models.RoleStudent)
		for _, student := range students {
			recipientIDs = append(recipientIDs, student.ID)
		}
	}
	if err != nil {
		log.Printf("announcement fanout for %s dropped: %v", announcement.ID, err)
		return
	}
	s.notifier.NotifyMany(recipientIDs, models.NotificationAnnouncementPosted,
		"New Announcement",
		fmt.Sprintf("%s: %s", announcement.Title, announcement.Content),
		"/student/announcements")
}

func (s *announcementService) ListByAuthor(authorID uuid.UUID) ([]*models.Announcement, error) {
	announcements, err := s.announcements.ListByAuthor(authorID)
	if err != nil {
		return nil, apperrors.NewStorage("list announcements", err)
	}
	return announcements, nil
}

func (s *announcementService) ListForStudent(studentID uuid.UUID) ([]*models.Announcement, error) {
	announcements, err := s.announcements.ListForStudent(studentID)
	if err != nil {
		return nil, apperrors.NewStorage("list announcements", err)
	}
	return announcements, nil
}

// Delete removes an announcement the requester authored.
func (s *announcementService) Delete(announcementID, authorID uuid.UUID) error {
	announcement, err := s.announcements.GetByID(announcementID)
	if err != nil {
		return fetchErr(err, "load announcement", "announcement")
	}
	if announcement.AuthorID != authorID {
		return apperrors.NewPermission("announcement does not belong to requester")
	}
	if err := s.announcements.Delete(announcementID); err != nil {
		return apperrors.NewStorage("delete announcement", err)
	}
	return nil
}
