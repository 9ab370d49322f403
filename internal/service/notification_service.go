package service

import (
	"fmt"
	"time"

	"corpquiz_backend/internal/model"
	"corpquiz_backend/internal/repository"
	"corpquiz_backend/internal/util"
	"corpquiz_backend/pkg/logger"

	"go.uber.org/zap"
)

type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
	ActionRepo       *repository.ActionRepository
}

func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	actionRepo *repository.ActionRepository,
) *NotificationService {
	return &NotificationService{
		NotificationRepo: notificationRepo,
		ActionRepo:       actionRepo,
	}
}

// NotifyQuizCreated 给公司全体成员各插入一条未读通知。
// 单个成员写入失败只记日志并跳过，不影响其余成员。
func (s *NotificationService) NotifyQuizCreated(companyID, quizID uint) error {
	memberIDs, err := s.ActionRepo.MemberIDs(companyID)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("New quiz for company %d has been created", companyID)
	for _, userID := range memberIDs {
		notification := &model.Notification{
			UserID:    userID,
			QuizID:    quizID,
			Text:      text,
			Status:    model.NotificationUnread,
			Timestamp: time.Now(),
		}
		if err := s.NotificationRepo.Create(notification); err != nil {
			logger.Log.Warn("Failed to create quiz notification",
				zap.Uint("userId", userID),
				zap.Uint("quizId", quizID),
				zap.Error(err))
		}
	}
	return nil
}

// GetUnread 只返回未读通知，已读的不再出现
func (s *NotificationService) GetUnread(userID uint) ([]model.Notification, error) {
	return s.NotificationRepo.ListUnread(userID)
}

// MarkRead 单向 UNREAD -> READ，已读或不属于该用户时报 ErrNotFound
func (s *NotificationService) MarkRead(id, userID uint) error {
	ok, err := s.NotificationRepo.MarkRead(id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotFound
	}
	return nil
}

func (s *NotificationService) DeleteNotification(id, userID uint) (DeleteResult, error) {
	ok, err := s.NotificationRepo.Delete(id, userID)
	if err != nil {
		return DeleteResult{}, err
	}
	if !ok {
		return DeleteResult{Message: "Notification not found", ID: -1}, nil
	}
	return DeleteResult{Message: "Notification deleted", ID: int64(id)}, nil
}
