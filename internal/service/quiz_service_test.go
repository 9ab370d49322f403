package service

import (
	"testing"

	"corpquiz_backend/internal/model"
	"corpquiz_backend/internal/repository"
	"corpquiz_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuizInput() QuizInput {
	return QuizInput{
		Title:     "Safety basics",
		Frequency: 7,
		Questions: []QuestionInput{
			{
				Text: "Q1",
				Options: []OptionInput{
					{Text: "right", IsCorrect: true},
					{Text: "wrong"},
				},
			},
			{
				Text: "Q2",
				Options: []OptionInput{
					{Text: "wrong"},
					{Text: "right", IsCorrect: true},
				},
			},
		},
	}
}

func TestCreateQuizValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(repository.NewQuizRepository(db))

	owner := createTestUser(t, db, "owner")
	company := createTestCompany(t, db, owner.ID, "Acme")

	t.Run("fewer than two questions writes nothing", func(t *testing.T) {
		input := validQuizInput()
		input.Questions = input.Questions[:1]

		_, err := svc.CreateQuiz(company.ID, input)
		assert.ErrorIs(t, err, util.ErrTooFewQuestions)

		var count int64
		require.NoError(t, db.Model(&model.Quiz{}).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("fewer than two options writes nothing", func(t *testing.T) {
		input := validQuizInput()
		input.Questions[1].Options = input.Questions[1].Options[:1]

		_, err := svc.CreateQuiz(company.ID, input)
		assert.ErrorIs(t, err, util.ErrTooFewOptions)

		var count int64
		require.NoError(t, db.Model(&model.Question{}).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})
}

func TestCreateQuizRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(repository.NewQuizRepository(db))

	owner := createTestUser(t, db, "owner")
	company := createTestCompany(t, db, owner.ID, "Acme")

	created, err := svc.CreateQuiz(company.ID, validQuizInput())
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	fetched, err := svc.GetQuiz(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Safety basics", fetched.Title)
	assert.Equal(t, 7, fetched.Frequency)
	assert.Equal(t, company.ID, fetched.CompanyID)
	require.Len(t, fetched.Questions, 2)
	for _, question := range fetched.Questions {
		assert.Len(t, question.Options, 2)
	}
}

func TestGetQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(repository.NewQuizRepository(db))

	owner := createTestUser(t, db, "owner")
	company := createTestCompany(t, db, owner.ID, "Acme")

	quiz, err := svc.CreateQuiz(company.ID, validQuizInput())
	require.NoError(t, err)

	questions, err := svc.GetQuestions(quiz.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	for _, question := range questions {
		assert.Equal(t, quiz.ID, question.QuizID)
		assert.Len(t, question.Options, 2)
	}

	_, err = svc.GetQuestions(999)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestDeleteQuizCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(repository.NewQuizRepository(db))

	owner := createTestUser(t, db, "owner")
	company := createTestCompany(t, db, owner.ID, "Acme")

	quiz, err := svc.CreateQuiz(company.ID, validQuizInput())
	require.NoError(t, err)

	result, err := svc.DeleteQuiz(quiz.ID)
	require.NoError(t, err)
	assert.EqualValues(t, quiz.ID, result.ID)

	var questions, options int64
	require.NoError(t, db.Model(&model.Question{}).Count(&questions).Error)
	require.NoError(t, db.Model(&model.Option{}).Count(&options).Error)
	assert.EqualValues(t, 0, questions)
	assert.EqualValues(t, 0, options)
}

func TestDeleteMissingReturnsMinusOne(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(repository.NewQuizRepository(db))

	t.Run("quiz", func(t *testing.T) {
		result, err := svc.DeleteQuiz(999)
		require.NoError(t, err)
		assert.EqualValues(t, -1, result.ID)
	})

	t.Run("question", func(t *testing.T) {
		result, err := svc.DeleteQuestion(999)
		require.NoError(t, err)
		assert.EqualValues(t, -1, result.ID)
	})

	t.Run("option", func(t *testing.T) {
		result, err := svc.DeleteOption(999)
		require.NoError(t, err)
		assert.EqualValues(t, -1, result.ID)
	})
}

func TestUpdateQuizFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuizService(repository.NewQuizRepository(db))

	owner := createTestUser(t, db, "owner")
	company := createTestCompany(t, db, owner.ID, "Acme")

	quiz, err := svc.CreateQuiz(company.ID, validQuizInput())
	require.NoError(t, err)

	updated, err := svc.UpdateQuiz(quiz.ID, UpdateQuizInput{Title: "Renamed", Frequency: 14})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, 14, updated.Frequency)

	_, err = svc.UpdateQuiz(999, UpdateQuizInput{Title: "x"})
	assert.ErrorIs(t, err, util.ErrNotFound)
}
