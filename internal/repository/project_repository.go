package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"classhub/internal/models"
)

type ProjectRepository interface {
	Create(project *models.Project) error
	GetByID(id uuid.UUID) (*models.Project, error)
	List() ([]*models.Project, error)
	ListByCreator(teacherID uuid.UUID) ([]*models.Project, error)
	ListApprovedBySubject(subjectID uuid.UUID) ([]*models.Project, error)
	ListApprovedDueBetween(from, to time.Time) ([]*models.Project, error)
	Update(project *models.Project) error
	Delete(id uuid.UUID) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	return r.db.Create(project).Error
}

func (r *projectRepository) GetByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Subject").First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List() ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Preload("Subject").Preload("Creator").
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) ListByCreator(teacherID uuid.UUID) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Preload("Subject").
		Where("created_by = ?", teacherID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) ListApprovedBySubject(subjectID uuid.UUID) ([]*models.Project, error) {
	projects := make([]*models.Project, 0)
	err := r.db.Where("subject_id = ? AND status = ?", subjectID, models.ProjectStatusApproved).
		Order("deadline ASC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) ListApprovedDueBetween(from, to time.Time) ([]*models.Project, error) {
	projects := make([]*models.Project, 0)
	err := r.db.Where("status = ? AND deadline > ? AND deadline <= ?",
		models.ProjectStatusApproved, from, to).
		Order("deadline ASC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Update(project *models.Project) error { return r.db.Save(project).Error }

func (r *projectRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Project{}, "id = ?", id).Error
}
