package repository

import (
	"corpquiz_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(notification *model.Notification) error {
	return r.DB.Create(notification).Error
}

func (r *NotificationRepository) FindByID(id uint) (*model.Notification, error) {
	var notification model.Notification
	err := r.DB.First(&notification, id).Error
	return &notification, err
}

// ListUnread 只返回未读通知
func (r *NotificationRepository) ListUnread(userID uint) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.DB.Where("user_id = ? AND status = ?", userID, model.NotificationUnread).
		Order("timestamp desc").Find(&notifications).Error
	return notifications, err
}

// MarkRead 单向翻转 UNREAD -> READ，重复调用不生效
func (r *NotificationRepository) MarkRead(id, userID uint) (bool, error) {
	res := r.DB.Model(&model.Notification{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, model.NotificationUnread).
		Update("status", model.NotificationRead)
	return res.RowsAffected > 0, res.Error
}

func (r *NotificationRepository) Delete(id, userID uint) (bool, error) {
	res := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Notification{})
	return res.RowsAffected > 0, res.Error
}
