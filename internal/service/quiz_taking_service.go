package service

import (
	"context"
	"errors"
	"time"

	"corpquiz_backend/internal/model"
	"corpquiz_backend/internal/repository"
	"corpquiz_backend/internal/util"
	"corpquiz_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuizTakingService 答题与评分。评分按题数加权：
// 平均分 = SUM(correct_answers) / SUM(questions) * 5
type QuizTakingService struct {
	QuizRepo   *repository.QuizRepository
	ResultRepo *repository.QuizResultRepository
	CacheRepo  *repository.QuizCacheRepository
}

func NewQuizTakingService(
	quizRepo *repository.QuizRepository,
	resultRepo *repository.QuizResultRepository,
	cacheRepo *repository.QuizCacheRepository,
) *QuizTakingService {
	return &QuizTakingService{
		QuizRepo:   quizRepo,
		ResultRepo: resultRepo,
		CacheRepo:  cacheRepo,
	}
}

// TakeQuizResult 一次答题的评分结果和刷新后的两个平均分
type TakeQuizResult struct {
	CorrectAnswers int     `json:"correctAnswers"`
	TotalQuestions int     `json:"totalQuestions"`
	CompanyRating  float64 `json:"companyRating"`
	SystemRating   float64 `json:"systemRating"`
}

// Rating 把累计正确数/总题数换算成 0~5 的评分，无作答记录时为 0
func Rating(correct, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 5
}

// TakeQuiz 按选项 ID 评分，只统计提交的答案：每组 题目-选项 记一题，
// 命中该题任一正确选项记 1 分，选项不属于该题记 0 分，不报错；
// 未提交的题不计入分母。
// 结果追加进 QuizResult 日志，另写一份 48 小时的 Redis 快照；
// 快照写失败只记日志，不影响答题结果。
func (s *QuizTakingService) TakeQuiz(ctx context.Context, quizID, userID uint, answers map[uint]uint) (*TakeQuizResult, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	correctByQuestion, err := s.QuizRepo.CorrectOptionIDs(quizID)
	if err != nil {
		return nil, err
	}

	correct := 0
	for questionID, chosen := range answers {
		for _, optionID := range correctByQuestion[questionID] {
			if chosen == optionID {
				correct++
				break
			}
		}
	}
	total := len(answers)

	now := time.Now()
	result := &model.QuizResult{
		CompanyID:      quiz.CompanyID,
		UserID:         userID,
		QuizID:         quizID,
		CorrectAnswers: correct,
		Questions:      total,
		Timestamp:      now,
	}
	if err := s.ResultRepo.Create(result); err != nil {
		return nil, err
	}

	snapshot := repository.QuizSubmissionSnapshot{
		AttemptID:      uuid.NewString(),
		CompanyID:      quiz.CompanyID,
		UserID:         userID,
		QuizID:         quizID,
		CorrectAnswers: correct,
		Questions:      total,
		Timestamp:      now,
	}
	if err := s.CacheRepo.SaveSubmission(ctx, snapshot); err != nil {
		logger.Log.Warn("Failed to cache quiz submission",
			zap.Uint("quizId", quizID),
			zap.Uint("userId", userID),
			zap.Error(err))
	}

	companySums, err := s.ResultRepo.SumsForUserInCompany(userID, quiz.CompanyID)
	if err != nil {
		return nil, err
	}
	systemSums, err := s.ResultRepo.SumsForUser(userID)
	if err != nil {
		return nil, err
	}

	return &TakeQuizResult{
		CorrectAnswers: correct,
		TotalQuestions: total,
		CompanyRating:  Rating(companySums.Correct, companySums.Total),
		SystemRating:   Rating(systemSums.Correct, systemSums.Total),
	}, nil
}
