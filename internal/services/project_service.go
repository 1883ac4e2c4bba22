package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"classhub/internal/apperrors"
	"classhub/internal/models"
	"classhub/internal/repository"
)

type CreateProjectInput struct {
	Title       string    `validate:"required"`
	Description string    `validate:"-"`
	SubjectID   uuid.UUID `validate:"required"`
	Deadline    time.Time `validate:"required"`
	MaxScore    int       `validate:"gte=0"`
	Attachments []string  `validate:"-"`
}

// EditProjectInput carries partial updates; nil fields keep current values.
type EditProjectInput struct {
	Title       *string
	Description *string
	Deadline    *time.Time
	MaxScore    *int
	Attachments []string
}

// ProjectStats is a teacher-dashboard view of one project with its
// submission counts attached.
type ProjectStats struct {
	*models.Project
	TotalStudents   int  `json:"total_students"`
	Submitted       int  `json:"submitted"`
	Graded          int  `json:"graded"`
	Unsubmitted     int  `json:"unsubmitted"`
	DaysLeft        int  `json:"days_left"`
	WarnUnsubmitted bool `json:"warn_unsubmitted"`
}

type ProjectService interface {
	Create(input CreateProjectInput, creatorID uuid.UUID) (*models.Project, error)
	Edit(projectID uuid.UUID, input EditProjectInput, requesterID uuid.UUID) (*models.Project, error)
	Decide(projectID uuid.UUID, outcome models.ProjectStatus, note string, adminID uuid.UUID) (*models.Project, error)
	Delete(projectID uuid.UUID) error
	Get(projectID uuid.UUID) (*models.Project, error)
	List() ([]*models.Project, error)
	ListByCreator(teacherID uuid.UUID) ([]*ProjectStats, error)
	ListApprovedBySubject(subjectID uuid.UUID) ([]*models.Project, error)
}

type projectService struct {
	projects    repository.ProjectRepository
	subjects    repository.SubjectRepository
	submissions repository.SubmissionRepository
	notifier    NotificationService
}

func NewProjectService(
	projects repository.ProjectRepository,
	subjects repository.SubjectRepository,
	submissions repository.SubmissionRepository,
	notifier NotificationService,
) ProjectService {
	return &projectService{
		projects:    projects,
		subjects:    subjects,
		submissions: submissions,
		notifier:    notifier,
	}
}

// Create stores a new project in pending status. Nothing is visible to
// students until an admin approves it.
func (s *projectService) Create(input CreateProjectInput, creatorID uuid.UUID) (*models.Project, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, err := s.subjects.GetByID(input.SubjectID); err != nil {
		return nil, fetchErr(err, "load subject", "subject")
	}

	maxScore := input.MaxScore
	if maxScore == 0 {
		maxScore = 100
	}
	attachments, err := marshalAttachments(input.Attachments)
	if err != nil {
		return nil, apperrors.NewValidation("invalid attachments: %v", err)
	}

	project := &models.Project{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		SubjectID:   input.SubjectID,
		Deadline:    input.Deadline,
		MaxScore:    maxScore,
		Attachments: attachments,
		CreatedBy:   creatorID,
		Status:      models.ProjectStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.projects.Create(project); err != nil {
		return nil, apperrors.NewStorage("create project", err)
	}
	return project, nil
}

// Edit updates a pending or rejected project owned by the requester. Every
// edit re-enters admin review: status is forced back to pending and the
// admin note is cleared, even if the project was already pending.
func (s *projectService) Edit(projectID uuid.UUID, input EditProjectInput, requesterID uuid.UUID) (*models.Project, error) {
	project, err := s.projects.GetByID(projectID)
	if err != nil {
		return nil, fetchErr(err, "load project", "project")
	}
	if project.CreatedBy != requesterID {
		return nil, apperrors.NewPermission("project does not belong to requester")
	}
	if project.Status == models.ProjectStatusApproved {
		return nil, apperrors.NewConflict("approved project cannot be edited; it must be rejected first")
	}

	if input.Title != nil {
		project.Title = *input.Title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Deadline != nil {
		project.Deadline = *input.Deadline
	}
	if input.MaxScore != nil {
		project.MaxScore = *input.MaxScore
	}
	if input.Attachments != nil {
		attachments, err := marshalAttachments(input.Attachments)
		if err != nil {
			return nil, apperrors.NewValidation("invalid attachments: %v", err)
		}
		project.Attachments = attachments
	}
	project.Status = models.ProjectStatusPending
	project.AdminNote = ""
	project.UpdatedAt = time.Now()

	if err := s.projects.Update(project); err != nil {
		return nil, apperrors.NewStorage("update project", err)
	}
	return project, nil
}

// Decide records the admin outcome and note in one write, then fans out
// notifications. Dispatch happens strictly after the status is persisted.
func (s *projectService) Decide(projectID uuid.UUID, outcome models.ProjectStatus, note string, adminID uuid.UUID) (*models.Project, error) {
	if outcome != models.ProjectStatusApproved && outcome != models.ProjectStatusRejected {
		return nil, apperrors.NewValidation("outcome must be approved or rejected")
	}

	project, err := s.projects.GetByID(projectID)
	if err != nil {
		return nil, fetchErr(err, "load project", "project")
	}
	project.Status = outcome
	project.AdminNote = note
	project.UpdatedAt = time.Now()
	if err := s.projects.Update(project); err != nil {
		return nil, apperrors.NewStorage("update project", err)
	}

	switch outcome {
	case models.ProjectStatusApproved:
		s.notifier.NotifyOne(project.CreatedBy, models.NotificationProjectApproved,
			"Project Approved",
			fmt.Sprintf("Your project %q has been approved.", project.Title),
			"/teacher/projects")
		s.notifyPublished(project)
	case models.ProjectStatusRejected:
		message := fmt.Sprintf("Your project %q was rejected.", project.Title)
		if note != "" {
			message += " Note: " + note
		}
		s.notifier.NotifyOne(project.CreatedBy, models.NotificationProjectRejected,
			"Project Rejected", message, "/teacher/projects")
	}
	return project, nil
}

// notifyPublished tells every enrolled student the project is now visible.
// Best-effort like all dispatch: a roster read failure only costs the fanout.
func (s *projectService) notifyPublished(project *models.Project) {
	studentIDs, err := s.subjects.ListStudentIDs(project.SubjectID)
	if err != nil {
		log.Printf("published fanout for project %s dropped: %v", project.ID, err)
		return
	}
	s.notifier.NotifyMany(studentIDs, models.NotificationProjectPublished,
		"New Project Available",
		fmt.Sprintf("A new project %q has been published for your subject.", project.Title),
		"/student/projects")
}

// Delete removes a project unconditionally, whatever its status.
func (s *projectService) Delete(projectID uuid.UUID) error {
	if _, err := s.projects.GetByID(projectID); err != nil {
		return fetchErr(err, "load project", "project")
	}
	if err := s.projects.Delete(projectID); err != nil {
		return apperrors.NewStorage("delete project", err)
	}
	return nil
}

func (s *projectService) Get(projectID uuid.UUID) (*models.Project, error) {
	project, err := s.projects.GetByID(projectID)
	if err != nil {
		return nil, fetchErr(err, "load project", "project")
	}
	return project, nil
}

func (s *projectService) List() ([]*models.Project, error) {
	projects, err := s.projects.List()
	if err != nil {
		return nil, apperrors.NewStorage("list projects", err)
	}
	return projects, nil
}

// ListByCreator returns the teacher's projects with submission stats and the
// unsubmitted-work warning flag used by the dashboard.
func (s *projectService) ListByCreator(teacherID uuid.UUID) ([]*ProjectStats, error) {
	projects, err := s.projects.ListByCreator(teacherID)
	if err != nil {
		return nil, apperrors.NewStorage("list projects", err)
	}

	now := time.Now()
	stats := make([]*ProjectStats, 0, len(projects))
	for _, project := range projects {
		studentIDs, err := s.subjects.ListStudentIDs(project.SubjectID)
		if err != nil {
			return nil, apperrors.NewStorage("list enrolled students", err)
		}
		submissions, err := s.submissions.ListByProject(project.ID)
		if err != nil {
			return nil, apperrors.NewStorage("list submissions", err)
		}

		submitted, graded := 0, 0
		for _, sub := range submissions {
			if sub.Status != models.SubmissionStatusDraft {
				submitted++
			}
			if sub.Status == models.SubmissionStatusGraded {
				graded++
			}
		}
		days := DaysLeft(now, project.Deadline)
		unsubmitted := len(studentIDs) - submitted

		stats = append(stats, &ProjectStats{
			Project:         project,
			TotalStudents:   len(studentIDs),
			Submitted:       submitted,
			Graded:          graded,
			Unsubmitted:     unsubmitted,
			DaysLeft:        days,
			WarnUnsubmitted: InWarningWindow(now, project.Deadline) && unsubmitted > 0,
		})
	}
	return stats, nil
}

// ListApprovedBySubject is the only student-facing listing: pending and
// rejected projects never leave this filter.
func (s *projectService) ListApprovedBySubject(subjectID uuid.UUID) ([]*models.Project, error) {
	projects, err := s.projects.ListApprovedBySubject(subjectID)
	if err != nil {
		return nil, apperrors.NewStorage("list approved projects", err)
	}
	return projects, nil
}

func marshalAttachments(refs []string) (datatypes.JSON, error) {
	if len(refs) == 0 {
		return datatypes.JSON([]byte("[]")), nil
	}
	raw, err := json.Marshal(refs)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
