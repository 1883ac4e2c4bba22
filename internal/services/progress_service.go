package services

import (
	"math"

	"github.com/google/uuid"

	"classhub/internal/apperrors"
	"classhub/internal/models"
	"classhub/internal/repository"
)

// StudentProgress is one student's rollup over a subject's approved projects.
// AvgGrade is nil when nothing is graded yet; zero graded work is not the
// same as failing everything.
type StudentProgress struct {
	StudentID     uuid.UUID `json:"student_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Submitted     int       `json:"submitted"`
	Graded        int       `json:"graded"`
	TotalProjects int       `json:"total_projects"`
	ProgressPct   int       `json:"progress_pct"`
	AvgGrade      *int      `json:"avg_grade,omitempty"`
}

// SubjectProgressGroup groups the rollups of every enrolled student.
type SubjectProgressGroup struct {
	Subject       *models.Subject    `json:"subject"`
	TotalProjects int                `json:"total_projects"`
	Students      []*StudentProgress `json:"students"`
}

// ProjectWithSubmission pairs an approved project with the student's own
// submission, nil when the student has not started.
type ProjectWithSubmission struct {
	*models.Project
	Submission *models.Submission `json:"submission,omitempty"`
}

// StudentSubjectView is one enrolled subject with its visible projects.
type StudentSubjectView struct {
	Subject  *models.Subject          `json:"subject"`
	Projects []*ProjectWithSubmission `json:"projects"`
}

type ProgressService interface {
	SubjectProgress(subjectID uuid.UUID) (*SubjectProgressGroup, error)
	TeacherOverview(teacherID uuid.UUID) ([]*SubjectProgressGroup, error)
	StudentSubjects(studentID uuid.UUID) ([]*StudentSubjectView, error)
}

type progressService struct {
	subjects    repository.SubjectRepository
	projects    repository.ProjectRepository
	submissions repository.SubmissionRepository
}

func NewProgressService(
	subjects repository.SubjectRepository,
	projects repository.ProjectRepository,
	submissions repository.SubmissionRepository,
) ProgressService {
	return &progressService{
		subjects:    subjects,
		projects:    projects,
		submissions: submissions,
	}
}

// SubjectProgress computes every enrolled student's rollup for one subject.
// Only approved projects count; pending and rejected work does not exist
// from the student's point of view.
func (s *progressService) SubjectProgress(subjectID uuid.UUID) (*SubjectProgressGroup, error) {
	subject, err := s.subjects.GetByID(subjectID)
	if err != nil {
		return nil, fetchErr(err, "load subject", "subject")
	}
	return s.buildGroup(subject)
}

// TeacherOverview is SubjectProgress across every subject the teacher
// teaches, for the students dashboard.
func (s *progressService) TeacherOverview(teacherID uuid.UUID) ([]*SubjectProgressGroup, error) {
	subjects, err := s.subjects.ListByTeacher(teacherID)
	if err != nil {
		return nil, apperrors.NewStorage("list subjects", err)
	}

	groups := make([]*SubjectProgressGroup, 0, len(subjects))
	for _, subject := range subjects {
		group, err := s.buildGroup(subject)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (s *progressService) buildGroup(subject *models.Subject) (*SubjectProgressGroup, error) {
	approved, err := s.projects.ListApprovedBySubject(subject.ID)
	if err != nil {
		return nil, apperrors.NewStorage("list approved projects", err)
	}
	projectIDs := make([]uuid.UUID, 0, len(approved))
	for _, p := range approved {
		projectIDs = append(projectIDs, p.ID)
	}

	members, err := s.subjects.ListMembers(subject.ID)
	if err != nil {
		return nil, apperrors.NewStorage("list members", err)
	}

	total := len(approved)
	students := make([]*StudentProgress, 0, len(members))
	for _, member := range members {
		submissions, err := s.submissions.ListByStudentInProjects(member.StudentID, projectIDs)
		if err != nil {
			return nil, apperrors.NewStorage("list submissions", err)
		}

		submitted, graded, gradeSum := 0, 0, 0
		for _, sub := range submissions {
			if sub.Status != models.SubmissionStatusDraft {
				submitted++
			}
			if sub.Status == models.SubmissionStatusGraded && sub.Grade != nil {
				graded++
				gradeSum += *sub.Grade
			}
		}

		progress := &StudentProgress{
			StudentID:     member.StudentID,
			Name:          member.Student.Name,
			Email:         member.Student.Email,
			Submitted:     submitted,
			Graded:        graded,
			TotalProjects: total,
		}
		if total > 0 {
			progress.ProgressPct = int(math.Round(float64(submitted) / float64(total) * 100))
		}
		if graded > 0 {
			avg := int(math.Round(float64(gradeSum) / float64(graded)))
			progress.AvgGrade = &avg
		}
		students = append(students, progress)
	}

	return &SubjectProgressGroup{
		Subject:       subject,
		TotalProjects: total,
		Students:      students,
	}, nil
}

// StudentSubjects composes the student's enrolled subjects with their
// approved projects and the student's own submission on each. Joins are
// explicit reads against the ports, not stored references.
func (s *progressService) StudentSubjects(studentID uuid.UUID) ([]*StudentSubjectView, error) {
	subjects, err := s.subjects.ListByStudent(studentID)
	if err != nil {
		return nil, apperrors.NewStorage("list subjects", err)
	}

	views := make([]*StudentSubjectView, 0, len(subjects))
	for _, subject := range subjects {
		approved, err := s.projects.ListApprovedBySubject(subject.ID)
		if err != nil {
			return nil, apperrors.NewStorage("list approved projects", err)
		}
		projectIDs := make([]uuid.UUID, 0, len(approved))
		for _, p := range approved {
			projectIDs = append(projectIDs, p.ID)
		}
		submissions, err := s.submissions.ListByStudentInProjects(studentID, projectIDs)
		if err != nil {
			return nil, apperrors.NewStorage("list submissions", err)
		}
		byProject := make(map[uuid.UUID]*models.Submission, len(submissions))
		for _, sub := range submissions {
			byProject[sub.ProjectID] = sub
		}

		projects := make([]*ProjectWithSubmission, 0, len(approved))
		for _, p := range approved {
			projects = append(projects, &ProjectWithSubmission{
				Project:    p,
				Submission: byProject[p.ID],
			})
		}
		views = append(views, &StudentSubjectView{Subject: subject, Projects: projects})
	}
	return views, nil
}
