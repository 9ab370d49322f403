package service

import (
	"fmt"
	"time"

	"corpquiz_backend/internal/model"
	"corpquiz_backend/internal/repository"
	"corpquiz_backend/pkg/logger"

	"go.uber.org/zap"
)

// ReminderService 定时提醒：按测验的作答周期找出逾期未作答的成员，
// 给每人写一条未读通知
type ReminderService struct {
	QuizRepo         *repository.QuizRepository
	ResultRepo       *repository.QuizResultRepository
	ActionRepo       *repository.ActionRepository
	NotificationRepo *repository.NotificationRepository
}

func NewReminderService(
	quizRepo *repository.QuizRepository,
	resultRepo *repository.QuizResultRepository,
	actionRepo *repository.ActionRepository,
	notificationRepo *repository.NotificationRepository,
) *ReminderService {
	return &ReminderService{
		QuizRepo:         quizRepo,
		ResultRepo:       resultRepo,
		ActionRepo:       actionRepo,
		NotificationRepo: notificationRepo,
	}
}

// RunMissedQuizReminders 遍历全部测验，最近 frequency 天内没有作答记录的
// 成员各收到一条提醒。返回写入的提醒条数。
func (s *ReminderService) RunMissedQuizReminders() (int, error) {
	quizzes, err := s.QuizRepo.ListAll()
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, quiz := range quizzes {
		if quiz.Frequency <= 0 {
			continue
		}
		since := time.Now().AddDate(0, 0, -quiz.Frequency)
		done, err := s.ResultRepo.CompletedSince(quiz.ID, since)
		if err != nil {
			logger.Log.Warn("Failed to load quiz completions",
				zap.Uint("quizId", quiz.ID), zap.Error(err))
			continue
		}

		memberIDs, err := s.ActionRepo.MemberIDs(quiz.CompanyID)
		if err != nil {
			logger.Log.Warn("Failed to load company members",
				zap.Uint("companyId", quiz.CompanyID), zap.Error(err))
			continue
		}

		text := fmt.Sprintf("You have not completed quiz %q in the last %d days", quiz.Title, quiz.Frequency)
		for _, userID := range memberIDs {
			if done[userID] {
				continue
			}
			notification := &model.Notification{
				UserID:    userID,
				QuizID:    quiz.ID,
				Text:      text,
				Status:    model.NotificationUnread,
				Timestamp: time.Now(),
			}
			if err := s.NotificationRepo.Create(notification); err != nil {
				logger.Log.Warn("Failed to create reminder notification",
					zap.Uint("userId", userID),
					zap.Uint("quizId", quiz.ID),
					zap.Error(err))
				continue
			}
			sent++
		}
	}
	return sent, nil
}
