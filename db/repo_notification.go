package db

import (
	"context"

	"github.com/RichKitibwa/BloodLink/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Repo) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.NotificationType == "" {
		n.NotificationType = models.NotifyInfo
	}
	return r.DB.WithContext(ctx).Create(n).Error
}

// ListNotifications returns the hospital's notifications plus
// broadcasts, newest first.
func (r *Repo) ListNotifications(ctx context.Context, hospitalID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	tx := r.DB.WithContext(ctx).
		Where("recipient_hospital_id = ? OR recipient_hospital_id IS NULL", hospitalID)
	if unreadOnly {
		tx = tx.Where("is_read = FALSE")
	}
	var ns []models.Notification
	err := tx.Order("created_at DESC").Limit(limit).Find(&ns).Error
	return ns, err
}

func (r *Repo) MarkNotificationRead(ctx context.Context, hospitalID, id string) error {
	res := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND (recipient_hospital_id = ? OR recipient_hospital_id IS NULL)", id, hospitalID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": r.DB.NowFunc(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "notification")
	}
	return nil
}
