package services

import (
	"sync"

	"github.com/google/uuid"

	"classhub/internal/apperrors"
	"classhub/internal/models"
	"classhub/internal/repository"
)

type EnrollmentService interface {
	// ToggleMembership flips the student's enrollment on a subject and
	// returns the resulting state (true = now enrolled). Toggles on the same
	// subject are serialized; different subjects proceed independently.
	ToggleMembership(subjectID, studentID uuid.UUID) (bool, error)
	IsMember(subjectID, studentID uuid.UUID) (bool, error)
	ListMembers(subjectID uuid.UUID) ([]*models.User, error)
}

type enrollmentService struct {
	subjects repository.SubjectRepository
	users    repository.UserRepository

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewEnrollmentService(subjects repository.SubjectRepository, users repository.UserRepository) EnrollmentService {
	return &enrollmentService{
		subjects: subjects,
		users:    users,
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// lockFor hands out one mutex per subject so racing toggles queue instead of
// both reading the same "before" roster.
func (s *enrollmentService) lockFor(subjectID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[subjectID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[subjectID] = l
	}
	return l
}

func (s *enrollmentService) ToggleMembership(subjectID, studentID uuid.UUID) (bool, error) {
	if _, err := s.subjects.GetByID(subjectID); err != nil {
		return false, fetchErr(err, "load subject", "subject")
	}
	student, err := s.users.GetByID(studentID)
	if err != nil {
		return false, fetchErr(err, "load user", "student")
	}
	if student.Role != models.RoleStudent {
		return false, apperrors.NewValidation("only students can be enrolled")
	}

	l := s.lockFor(subjectID)
	l.Lock()
	defer l.Unlock()

	enrolled, err := s.subjects.AtomicToggleMember(subjectID, studentID)
	if err != nil {
		return false, apperrors.NewStorage("toggle membership", err)
	}
	return enrolled, nil
}

func (s *enrollmentService) IsMember(subjectID, studentID uuid.UUID) (bool, error) {
	member, err := s.subjects.IsMember(subjectID, studentID)
	if err != nil {
		return false, apperrors.NewStorage("check membership", err)
	}
	return member, nil
}

// ListMembers returns the roster as users. Always a slice, never nil.
func (s *enrollmentService) ListMembers(subjectID uuid.UUID) ([]*models.User, error) {
	members, err := s.subjects.ListMembers(subjectID)
	if err != nil {
		return nil, apperrors.NewStorage("list members", err)
	}
	users := make([]*models.User, 0, len(members))
	for _, m := range members {
		u := m.Student
		users = append(users, &u)
	}
	return users, nil
}
