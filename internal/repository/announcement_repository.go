package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classhub/internal/models"
)

type AnnouncementRepository interface {
	Create(announcement *models.Announcement) error
	GetByID(id uuid.UUID) (*models.Announcement, error)
	ListByAuthor(authorID uuid.UUID) ([]*models.Announcement, error)
	ListForStudent(studentID uuid.UUID) ([]*models.Announcement, error)
	Delete(id uuid.UUID) error
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(announcement *models.Announcement) error {
	if announcement.ID == uuid.Nil {
		announcement.ID = uuid.New()
	}
	return r.db.Create(announcement).Error
}

func (r *announcementRepository) GetByID(id uuid.UUID) (*models.Announcement, error) {
	var announcement models.Announcement
	err := r.db.Preload("Subject").First(&announcement, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (r *announcementRepository) ListByAuthor(authorID uuid.UUID) ([]*models.Announcement, error) {
	announcements := make([]*models.Announcement, 0)
	err := r.db.Preload("Subject").
		Where("author_id = ?", authorID).
		Order("is_pinned DESC, created_at DESC").
		Find(&announcements).Error
	return announcements, err
}

func (r *announcementRepository) ListForStudent(studentID uuid.UUID) ([]*models.Announcement, error) {
	// Global announcements plus those scoped to a subject the student is
	// enrolled in, pinned first.
	announcements := make([]*models.Announcement, 0)
	err := r.db.Preload("Subject").
		Where("scope = ?", models.AnnouncementScopeGlobal).
		Or("subject_id IN (?)",
			r.db.Model(&models.SubjectStudent{}).Select("subject_id").Where("student_id = ?", studentID)).
		Order("is_pinned DESC, created_at DESC").
		Find(&announcements).Error
	return announcements, err
}

func (r *announcementRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Announcement{}, "id = ?", id).Error
}
