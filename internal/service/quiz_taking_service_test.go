package service

import (
	"context"
	"testing"

	"corpquiz_backend/internal/model"
	"corpquiz_backend/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 指向不可达地址：快照写入必然失败，答题仍需成功
func newUnreachableCache() *repository.QuizCacheRepository {
	return repository.NewQuizCacheRepository(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))
}

func newTakingService(db *gorm.DB) *QuizTakingService {
	return NewQuizTakingService(
		repository.NewQuizRepository(db),
		repository.NewQuizResultRepository(db),
		newUnreachableCache(),
	)
}

func TestRating(t *testing.T) {
	assert.Equal(t, 0.0, Rating(0, 0))
	assert.Equal(t, 5.0, Rating(4, 4))
	assert.Equal(t, 2.5, Rating(3, 6))
}

// correctAnswers 从落库的测验树里取出每道题的正确选项
func correctAnswers(t *testing.T, svc *QuizService, quizID uint) map[uint]uint {
	t.Helper()

	quiz, err := svc.GetQuiz(quizID)
	require.NoError(t, err)

	answers := make(map[uint]uint)
	for _, question := range quiz.Questions {
		for _, option := range question.Options {
			if option.IsCorrect {
				answers[question.ID] = option.ID
			}
		}
	}
	return answers
}

func quizWithQuestions(n int) QuizInput {
	input := QuizInput{Title: "quiz", Frequency: 7}
	for i := 0; i < n; i++ {
		input.Questions = append(input.Questions, QuestionInput{
			Text: "question",
			Options: []OptionInput{
				{Text: "right", IsCorrect: true},
				{Text: "wrong"},
			},
		})
	}
	return input
}

func TestTakeQuizScoring(t *testing.T) {
	db := newTestDB(t)
	quizSvc := NewQuizService(repository.NewQuizRepository(db))
	takingSvc := newTakingService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	company := createTestCompany(t, db, owner.ID, "Acme")

	quiz, err := quizSvc.CreateQuiz(company.ID, quizWithQuestions(2))
	require.NoError(t, err)

	t.Run("all correct", func(t *testing.T) {
		result, err := takingSvc.TakeQuiz(context.Background(), quiz.ID, member.ID, correctAnswers(t, quizSvc, quiz.ID))
		require.NoError(t, err)
		assert.Equal(t, 2, result.CorrectAnswers)
		assert.Equal(t, 2, result.TotalQuestions)
		assert.Equal(t, 5.0, result.CompanyRating)
		assert.Equal(t, 5.0, result.SystemRating)
	})

	t.Run("unknown options count as wrong", func(t *testing.T) {
		answers := map[uint]uint{}
		for questionID := range correctAnswers(t, quizSvc, quiz.ID) {
			answers[questionID] = 999999
		}

		result, err := takingSvc.TakeQuiz(context.Background(), quiz.ID, member.ID, answers)
		require.NoError(t, err)
		assert.Equal(t, 0, result.CorrectAnswers)
		assert.Equal(t, 2, result.TotalQuestions)
	})

	t.Run("empty submission scores nothing", func(t *testing.T) {
		result, err := takingSvc.TakeQuiz(context.Background(), quiz.ID, member.ID, map[uint]uint{})
		require.NoError(t, err)
		assert.Equal(t, 0, result.CorrectAnswers)
		assert.Equal(t, 0, result.TotalQuestions)
	})
}

// 分母只算提交过的答案：三道题只答对一题且只提交这一题，得满分
func TestTakeQuizPartialSubmission(t *testing.T) {
	db := newTestDB(t)
	quizSvc := NewQuizService(repository.NewQuizRepository(db))
	takingSvc := newTakingService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	company := createTestCompany(t, db, owner.ID, "Acme")

	quiz, err := quizSvc.CreateQuiz(company.ID, quizWithQuestions(3))
	require.NoError(t, err)

	all := correctAnswers(t, quizSvc, quiz.ID)
	partial := map[uint]uint{}
	for questionID, optionID := range all {
		partial[questionID] = optionID
		break
	}

	result, err := takingSvc.TakeQuiz(context.Background(), quiz.ID, member.ID, partial)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 1, result.TotalQuestions)
	assert.Equal(t, 5.0, result.CompanyRating)
	assert.Equal(t, 5.0, result.SystemRating)

	var stored model.QuizResult
	require.NoError(t, db.Where("user_id = ? AND quiz_id = ?", member.ID, quiz.ID).First(&stored).Error)
	assert.Equal(t, 1, stored.CorrectAnswers)
	assert.Equal(t, 1, stored.Questions)
}

// 加权平均：2/2 与 1/4 的两次作答给出 (2+1)/(2+4)*5 = 2.5，
// 而不是两次 per-quiz 均分的简单平均 3.125
func TestTakeQuizWeightedRating(t *testing.T) {
	db := newTestDB(t)
	quizSvc := NewQuizService(repository.NewQuizRepository(db))
	takingSvc := newTakingService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	company := createTestCompany(t, db, owner.ID, "Acme")

	small, err := quizSvc.CreateQuiz(company.ID, quizWithQuestions(2))
	require.NoError(t, err)
	large, err := quizSvc.CreateQuiz(company.ID, quizWithQuestions(4))
	require.NoError(t, err)

	_, err = takingSvc.TakeQuiz(context.Background(), small.ID, member.ID, correctAnswers(t, quizSvc, small.ID))
	require.NoError(t, err)

	// 四题全部提交但只答对一题
	largeAnswers := correctAnswers(t, quizSvc, large.ID)
	kept := false
	for questionID := range largeAnswers {
		if kept {
			largeAnswers[questionID] = 999999
		}
		kept = true
	}

	result, err := takingSvc.TakeQuiz(context.Background(), large.ID, member.ID, largeAnswers)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.InDelta(t, 2.5, result.CompanyRating, 1e-9)
	assert.InDelta(t, 2.5, result.SystemRating, 1e-9)
}

func TestTakeQuizAppendsResultLog(t *testing.T) {
	db := newTestDB(t)
	quizSvc := NewQuizService(repository.NewQuizRepository(db))
	takingSvc := newTakingService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	company := createTestCompany(t, db, owner.ID, "Acme")

	quiz, err := quizSvc.CreateQuiz(company.ID, quizWithQuestions(2))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := takingSvc.TakeQuiz(context.Background(), quiz.ID, member.ID, correctAnswers(t, quizSvc, quiz.ID))
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&model.QuizResult{}).
		Where("user_id = ? AND quiz_id = ?", member.ID, quiz.ID).
		Count(&count).Error)
	assert.EqualValues(t, 3, count)
}
