package postgres

import (
	"time"

	"gorm.io/gorm"

	notifdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/notification"
	"github.com/frahmantamala/skill-matrix/internal/notification"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *notifdm.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) GetByID(id string) (*notifdm.Notification, error) {
	var n notifdm.Notification
	if err := r.db.Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) ListByUser(userID string, q notification.ListQuery) ([]*notifdm.Notification, int64, error) {
	query := r.db.Model(&notifdm.Notification{}).Where("user_id = ?", userID)

	if q.Type != "" {
		query = query.Where("type = ?", q.Type)
	}
	if q.Priority != "" {
		query = query.Where("priority = ?", q.Priority)
	}
	if q.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*notifdm.Notification
	err := query.
		Order("created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *NotificationRepository) MarkRead(id string) error {
	return r.db.Model(&notifdm.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllRead(userID string) error {
	return r.db.Model(&notifdm.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *NotificationRepository) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&notifdm.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// DeleteOlderThan removes read notifications created before the cutoff.
// Unread rows are kept no matter how old they are.
func (r *NotificationRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.
		Where("created_at < ? AND is_read = ?", cutoff, true).
		Delete(&notifdm.Notification{})
	return result.RowsAffected, result.Error
}
