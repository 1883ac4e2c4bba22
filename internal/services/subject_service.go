package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"classhub/internal/apperrors"
	"classhub/internal/models"
	"classhub/internal/repository"
)

type CreateSubjectInput struct {
	Name        string `validate:"required"`
	Code        string `validate:"required"`
	Description string
	TeacherID   *uuid.UUID
}

// UpdateSubjectInput carries partial updates; nil fields keep current
// values. Setting TeacherID to the nil UUID unassigns the teacher.
type UpdateSubjectInput struct {
	Name        *string
	Description *string
	TeacherID   *uuid.UUID
	CoverImage  *string
}

type SubjectService interface {
	Create(input CreateSubjectInput) (*models.Subject, error)
	Update(subjectID uuid.UUID, input UpdateSubjectInput) (*models.Subject, error)
	Get(subjectID uuid.UUID) (*models.Subject, error)
	List() ([]*models.Subject, error)
	ListByTeacher(teacherID uuid.UUID) ([]*models.Subject, error)
	Delete(subjectID uuid.UUID) error
}

type subjectService struct {
	subjects repository.SubjectRepository
	users    repository.UserRepository
}

func NewSubjectService(subjects repository.SubjectRepository, users repository.UserRepository) SubjectService {
	return &subjectService{subjects: subjects, users: users}
}

// Create adds a subject. Codes are unique and stored uppercased.
func (s *subjectService) Create(input CreateSubjectInput) (*models.Subject, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(input.Code))

	_, err := s.subjects.GetByCode(code)
	if err == nil {
		return nil, apperrors.NewConflict("a subject with code %s already exists", code)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewStorage("check existing subject", err)
	}

	if input.TeacherID != nil {
		if err := s.checkTeacher(*input.TeacherID); err != nil {
			return nil, err
		}
	}

	subject := &models.Subject{
		ID:          uuid.New(),
		Name:        input.Name,
		Code:        code,
		Description: input.Description,
		TeacherID:   input.TeacherID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.subjects.Create(subject); err != nil {
		return nil, apperrors.NewStorage("create subject", err)
	}
	return subject, nil
}

func (s *subjectService) Update(subjectID uuid.UUID, input UpdateSubjectInput) (*models.Subject, error) {
	subject, err := s.subjects.GetByID(subjectID)
	if err != nil {
		return nil, fetchErr(err, "load subject", "subject")
	}

	if input.Name != nil {
		subject.Name = *input.Name
	}
	if input.Description != nil {
		subject.Description = *input.Description
	}
	if input.CoverImage != nil {
		subject.CoverImage = *input.CoverImage
	}
	if input.TeacherID != nil {
		if *input.TeacherID == uuid.Nil {
			subject.TeacherID = nil
		} else {
			if err := s.checkTeacher(*input.TeacherID); err != nil {
				return nil, err
			}
			subject.TeacherID = input.TeacherID
		}
	}
	subject.UpdatedAt = time.Now()

	if err := s.subjects.Update(subject); err != nil {
		return nil, apperrors.NewStorage("update subject", err)
	}
	return subject, nil
}

func (s *subjectService) checkTeacher(teacherID uuid.UUID) error {
	teacher, err := s.users.GetByID(teacherID)
	if err != nil {
		return fetchErr(err, "load user", "teacher")
	}
	if teacher.Role != models.RoleTeacher {
		return apperrors.NewValidation("assigned user is not a teacher")
	}
	return nil
}

func (s *subjectService) Get(subjectID uuid.UUID) (*models.Subject, error) {
	subject, err := s.subjects.GetByID(subjectID)
	if err != nil {
		return nil, fetchErr(err, "load subject", "subject")
	}
	return subject, nil
}

func (s *subjectService) List() ([]*models.Subject, error) {
	subjects, err := s.subjects.List()
	if err != nil {
		return nil, apperrors.NewStorage("list subjects", err)
	}
	return subjects, nil
}

func (s *subjectService) ListByTeacher(teacherID uuid.UUID) ([]*models.Subject, error) {
	subjects, err := s.subjects.ListByTeacher(teacherID)
	if err != nil {
		return nil, apperrors.NewStorage("list subjects", err)
	}
	return subjects, nil
}

func (s *subjectService) Delete(subjectID uuid.UUID) error {
	if _, err := s.subjects.GetByID(subjectID); err != nil {
		return fetchErr(err, "load subject", "subject")
	}
	if err := s.subjects.Delete(subjectID); err != nil {
		return apperrors.NewStorage("delete subject", err)
	}
	return nil
}
