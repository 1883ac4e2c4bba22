package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"classhub/internal/models"
)

type NotificationRepository interface {
	Create(notification *models.Notification) error
	CreateBatch(notifications []*models.Notification) error
	ListByRecipient(recipientID uuid.UUID, limit int, unreadOnly bool) ([]*models.Notification, error)
	CountUnread(recipientID uuid.UUID) (int64, error)
	MarkRead(id, recipientID uuid.UUID) error
	MarkAllRead(recipientID uuid.UUID) error
	DeleteForRecipient(id, recipientID uuid.UUID) error
	CleanupOld(olderThan time.Time) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *models.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	return r.db.Create(notification).Error
}

func (r *notificationRepository) CreateBatch(notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	for _, n := range notifications {
		if n.ID == uuid.Nil {
			n.ID = uuid.New()
		}
	}
	return r.db.Create(&notifications).Error
}

func (r *notificationRepository) ListByRecipient(recipientID uuid.UUID, limit int, unreadOnly bool) ([]*models.Notification, error) {
	notifications := make([]*models.Notification, 0)
	q := r.db.Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	err := q.Order("created_at DESC").Limit(limit).Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) CountUnread(recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkRead(id, recipientID uuid.UUID) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllRead(recipientID uuid.UUID) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}

func (r *notificationRepository) DeleteForRecipient(id, recipientID uuid.UUID) error {
	return r.db.Where("id = ? AND recipient_id = ?", id, recipientID).
		Delete(&models.Notification{}).Error
}

func (r *notificationRepository) CleanupOld(olderThan time.Time) error {
	return r.db.Where("created_at < ? AND is_read = ?", olderThan, true).
		Delete(&models.Notification{}).Error
}
