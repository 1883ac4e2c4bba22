package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classhub/internal/models"
)

type SubmissionRepository interface {
	Create(submission *models.Submission) error
	GetByID(id uuid.UUID) (*models.Submission, error)
	GetByProjectAndStudent(projectID, studentID uuid.UUID) (*models.Submission, error)
	ListByStudent(studentID uuid.UUID) ([]*models.Submission, error)
	ListByProject(projectID uuid.UUID) ([]*models.Submission, error)
	ListByStudentInProjects(studentID uuid.UUID, projectIDs []uuid.UUID) ([]*models.Submission, error)
	Update(submission *models.Submission) error
	Delete(id uuid.UUID) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(submission *models.Submission) error {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	return r.db.Create(submission).Error
}

func (r *submissionRepository) GetByID(id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.First(&submission, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) GetByProjectAndStudent(projectID, studentID uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.First(&submission, "project_id = ? AND student_id = ?", projectID, studentID).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) ListByStudent(studentID uuid.UUID) ([]*models.Submission, error) {
	submissions := make([]*models.Submission, 0)
	err := r.db.Preload("Project").
		Where("student_id = ?", studentID).
		Order("updated_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) ListByProject(projectID uuid.UUID) ([]*models.Submission, error) {
	submissions := make([]*models.Submission, 0)
	err := r.db.Where("project_id = ?", projectID).Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) ListByStudentInProjects(studentID uuid.UUID, projectIDs []uuid.UUID) ([]*models.Submission, error) {
	submissions := make([]*models.Submission, 0)
	if len(projectIDs) == 0 {
		return submissions, nil
	}
	err := r.db.Where("student_id = ? AND project_id IN ?", studentID, projectIDs).
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) Update(submission *models.Submission) error {
	return r.db.Save(submission).Error
}

func (r *submissionRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Submission{}, "id = ?", id).Error
}
