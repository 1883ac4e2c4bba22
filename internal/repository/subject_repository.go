package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"classhub/internal/models"
)

type SubjectRepository interface {
	Create(subject *models.Subject) error
	GetByID(id uuid.UUID) (*models.Subject, error)
	GetByCode(code string) (*models.Subject, error)
	List() ([]*models.Subject, error)
	ListByTeacher(teacherID uuid.UUID) ([]*models.Subject, error)
	ListByStudent(studentID uuid.UUID) ([]*models.Subject, error)
	Update(subject *models.Subject) error
	Delete(id uuid.UUID) error

	// Membership. The toggle runs inside one transaction so two racing
	// requests cannot both read the same "before" roster.
	AtomicToggleMember(subjectID, studentID uuid.UUID) (bool, error)
	IsMember(subjectID, studentID uuid.UUID) (bool, error)
	ListMembers(subjectID uuid.UUID) ([]*models.SubjectStudent, error)
	ListStudentIDs(subjectID uuid.UUID) ([]uuid.UUID, error)
}

type subjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) Create(subject *models.Subject) error {
	if subject.ID == uuid.Nil {
		subject.ID = uuid.New()
	}
	return r.db.Create(subject).Error
}

func (r *subjectRepository) GetByID(id uuid.UUID) (*models.Subject, error) {
	var subject models.Subject
	err := r.db.Preload("Teacher").First(&subject, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) GetByCode(code string) (*models.Subject, error) {
	var subject models.Subject
	err := r.db.First(&subject, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) List() ([]*models.Subject, error) {
	var subjects []*models.Subject
	err := r.db.Preload("Teacher").Order("created_at DESC").Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepository) ListByTeacher(teacherID uuid.UUID) ([]*models.Subject, error) {
	var subjects []*models.Subject
	err := r.db.Where("teacher_id = ?", teacherID).Order("created_at DESC").Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepository) ListByStudent(studentID uuid.UUID) ([]*models.Subject, error) {
	var subjects []*models.Subject
	err := r.db.Preload("Teacher").
		Joins("JOIN subject_students ON subject_students.subject_id = subjects.id").
		Where("subject_students.student_id = ?", studentID).
		Order("subjects.created_at DESC").
		Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepository) Update(subject *models.Subject) error { return r.db.Save(subject).Error }

func (r *subjectRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Subject{}, "id = ?", id).Error
}

func (r *subjectRepository) AtomicToggleMember(subjectID, studentID uuid.UUID) (bool, error) {
	enrolled := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.SubjectStudent{}).
			Where("subject_id = ? AND student_id = ?", subjectID, studentID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return tx.Where("subject_id = ? AND student_id = ?", subjectID, studentID).
				Delete(&models.SubjectStudent{}).Error
		}
		enrolled = true
		return tx.Create(&models.SubjectStudent{
			ID:         uuid.New(),
			SubjectID:  subjectID,
			StudentID:  studentID,
			EnrolledAt: time.Now(),
		}).Error
	})
	if err != nil {
		return false, err
	}
	return enrolled, nil
}

func (r *subjectRepository) IsMember(subjectID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.SubjectStudent{}).
		Where("subject_id = ? AND student_id = ?", subjectID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *subjectRepository) ListMembers(subjectID uuid.UUID) ([]*models.SubjectStudent, error) {
	// Always a slice, never nil: a subject without enrollments reads as an
	// empty roster everywhere downstream.
	members := make([]*models.SubjectStudent, 0)
	err := r.db.Preload("Student").Where("subject_id = ?", subjectID).Find(&members).Error
	return members, err
}

func (r *subjectRepository) ListStudentIDs(subjectID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	err := r.db.Model(&models.SubjectStudent{}).
		Where("subject_id = ?", subjectID).
		Pluck("student_id", &ids).Error
	return ids, err
}
