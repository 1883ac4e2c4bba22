package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"classhub/internal/apperrors"
	"classhub/internal/models"
	"classhub/internal/repository"
)

type CreateSubmissionInput struct {
	ProjectID    uuid.UUID `validate:"required"`
	FileURL      string
	TextResponse string
	IsDraft      bool
}

// UpdateSubmissionInput carries partial updates; nil fields keep current
// values. IsDraft decides the resulting status on every save.
type UpdateSubmissionInput struct {
	FileURL      *string
	TextResponse *string
	IsDraft      bool
}

type SubmissionService interface {
	Create(input CreateSubmissionInput, studentID uuid.UUID) (*models.Submission, error)
	Update(submissionID uuid.UUID, input UpdateSubmissionInput, requesterID uuid.UUID) (*models.Submission, error)
	Delete(submissionID, requesterID uuid.UUID) error
	Grade(submissionID uuid.UUID, grade int, feedback string, graderID uuid.UUID) (*models.Submission, error)
	Get(submissionID uuid.UUID) (*models.Submission, error)
	ListByStudent(studentID uuid.UUID) ([]*models.Submission, error)
	ListByProject(projectID uuid.UUID) ([]*models.Submission, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	projects    repository.ProjectRepository
	notifier    NotificationService
}

func NewSubmissionService(
	submissions repository.SubmissionRepository,
	projects repository.ProjectRepository,
	notifier NotificationService,
) SubmissionService {
	return &submissionService{
		submissions: submissions,
		projects:    projects,
		notifier:    notifier,
	}
}

// Create stores the student's first and only submission row for a project.
// A second create for the same (project, student) pair fails loudly instead
// of racing: the caller refetches and switches to Update.
func (s *submissionService) Create(input CreateSubmissionInput, studentID uuid.UUID) (*models.Submission, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	_, err := s.submissions.GetByProjectAndStudent(input.ProjectID, studentID)
	if err == nil {
		return nil, apperrors.NewConflict("a submission for this project already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewStorage("check existing submission", err)
	}

	project, err := s.projects.GetByID(input.ProjectID)
	if err != nil {
		return nil, fetchErr(err, "load project", "project")
	}

	now := time.Now()
	submission := &models.Submission{
		ID:           uuid.New(),
		ProjectID:    input.ProjectID,
		StudentID:    studentID,
		FileURL:      input.FileURL,
		TextResponse: input.TextResponse,
		Status:       models.SubmissionStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !input.IsDraft {
		submission.Status = models.SubmissionStatusSubmitted
		submission.SubmittedAt = &now
		// Lateness is decided once, at the moment of submission. Editing the
		// project deadline later never rewrites history.
		submission.IsLate = IsLate(now, project.Deadline)
	}

	if err := s.submissions.Create(submission); err != nil {
		return nil, apperrors.NewStorage("create submission", err)
	}

	if submission.Status == models.SubmissionStatusSubmitted {
		s.notifyReceived(project, studentID)
	}
	return submission, nil
}

// Update edits an owned submission: save a draft, submit a draft, or rework
// a submitted attempt before it is graded. A draft save never touches the
// late flag or the submitted timestamp.
func (s *submissionService) Update(submissionID uuid.UUID, input UpdateSubmissionInput, requesterID uuid.UUID) (*models.Submission, error) {
	submission, err := s.submissions.GetByID(submissionID)
	if err != nil {
		return nil, fetchErr(err, "load submission", "submission")
	}
	if submission.StudentID != requesterID {
		return nil, apperrors.NewPermission("submission does not belong to requester")
	}
	if submission.Status == models.SubmissionStatusGraded {
		return nil, apperrors.NewConflict("submission is already graded")
	}

	if input.FileURL != nil {
		submission.FileURL = *input.FileURL
	}
	if input.TextResponse != nil {
		submission.TextResponse = *input.TextResponse
	}

	wasDraft := submission.Status == models.SubmissionStatusDraft
	now := time.Now()
	var submittedFrom *models.Project // set when this save transitions draft → submitted
	if input.IsDraft {
		submission.Status = models.SubmissionStatusDraft
	} else {
		project, err := s.projects.GetByID(submission.ProjectID)
		if err != nil {
			return nil, fetchErr(err, "load project", "project")
		}
		submission.Status = models.SubmissionStatusSubmitted
		submission.SubmittedAt = &now
		submission.IsLate = IsLate(now, project.Deadline)
		if wasDraft {
			submittedFrom = project
		}
	}
	submission.UpdatedAt = now

	if err := s.submissions.Update(submission); err != nil {
		return nil, apperrors.NewStorage("update submission", err)
	}
	if submittedFrom != nil {
		s.notifyReceived(submittedFrom, submission.StudentID)
	}
	return submission, nil
}

// Delete removes an ungraded submission owned by the requester. Graded work
// is immutable history.
func (s *submissionService) Delete(submissionID, requesterID uuid.UUID) error {
	submission, err := s.submissions.GetByID(submissionID)
	if err != nil {
		return fetchErr(err, "load submission", "submission")
	}
	if submission.StudentID != requesterID {
		return apperrors.NewPermission("submission does not belong to requester")
	}
	if submission.Status == models.SubmissionStatusGraded {
		return apperrors.NewConflict("cannot delete a graded submission")
	}
	if err := s.submissions.Delete(submissionID); err != nil {
		return apperrors.NewStorage("delete submission", err)
	}
	return nil
}

// Grade closes out a submission with a score and feedback, whatever its
// current status. Grading a draft is allowed: a teacher can see the work in
// progress and decide it is enough. The late flag is never touched here.
func (s *submissionService) Grade(submissionID uuid.UUID, grade int, feedback string, graderID uuid.UUID) (*models.Submission, error) {
	if grade < 0 {
		return nil, apperrors.NewValidation("grade must not be negative")
	}

	submission, err := s.submissions.GetByID(submissionID)
	if err != nil {
		return nil, fetchErr(err, "load submission", "submission")
	}

	submission.Grade = &grade
	submission.Feedback = feedback
	submission.Status = models.SubmissionStatusGraded
	submission.UpdatedAt = time.Now()
	if err := s.submissions.Update(submission); err != nil {
		return nil, apperrors.NewStorage("update submission", err)
	}

	title := "your project"
	if project, err := s.projects.GetByID(submission.ProjectID); err == nil {
		title = fmt.Sprintf("%q", project.Title)
	}
	s.notifier.NotifyOne(submission.StudentID, models.NotificationSubmissionGraded,
		"Submission Graded",
		fmt.Sprintf("Your submission for %s was graded: %d.", title, grade),
		"/student/projects")
	return submission, nil
}

func (s *submissionService) Get(submissionID uuid.UUID) (*models.Submission, error) {
	submission, err := s.submissions.GetByID(submissionID)
	if err != nil {
		return nil, fetchErr(err, "load submission", "submission")
	}
	return submission, nil
}

func (s *submissionService) ListByStudent(studentID uuid.UUID) ([]*models.Submission, error) {
	submissions, err := s.submissions.ListByStudent(studentID)
	if err != nil {
		return nil, apperrors.NewStorage("list submissions", err)
	}
	return submissions, nil
}

func (s *submissionService) ListByProject(projectID uuid.UUID) ([]*models.Submission, error) {
	submissions, err := s.submissions.ListByProject(projectID)
	if err != nil {
		return nil, apperrors.NewStorage("list submissions", err)
	}
	return submissions, nil
}

func (s *submissionService) notifyReceived(project *models.Project, studentID uuid.UUID) {
	s.notifier.NotifyOne(project.CreatedBy, models.NotificationSubmissionReceived,
		"New Submission",
		fmt.Sprintf("A submission was received for %q.", project.Title),
		"/teacher/students")
}
