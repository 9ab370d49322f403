package service

import (
	"testing"
	"time"

	"corpquiz_backend/internal/model"
	"corpquiz_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReminderService(db *gorm.DB) *ReminderService {
	return NewReminderService(
		repository.NewQuizRepository(db),
		repository.NewQuizResultRepository(db),
		repository.NewActionRepository(db),
		repository.NewNotificationRepository(db),
	)
}

func addMember(t *testing.T, db *gorm.DB, userID, companyID uint) {
	t.Helper()

	membership := newMembershipService(db)
	action, err := membership.CreateRequest(userID, companyID)
	require.NoError(t, err)
	require.NoError(t, membership.AcceptRequest(action.ID))
}

func recordResult(t *testing.T, db *gorm.DB, userID, companyID, quizID uint, when time.Time) {
	t.Helper()

	require.NoError(t, repository.NewQuizResultRepository(db).Create(&model.QuizResult{
		CompanyID:      companyID,
		UserID:         userID,
		QuizID:         quizID,
		CorrectAnswers: 1,
		Questions:      2,
		Timestamp:      when,
	}))
}

func TestMissedQuizReminders(t *testing.T) {
	db := newTestDB(t)
	quizSvc := NewQuizService(repository.NewQuizRepository(db))
	reminder := newReminderService(db)

	owner := createTestUser(t, db, "owner")
	overdue := createTestUser(t, db, "overdue")
	current := createTestUser(t, db, "current")
	silent := createTestUser(t, db, "silent")
	company := createTestCompany(t, db, owner.ID, "Acme")

	quiz, err := quizSvc.CreateQuiz(company.ID, quizWithQuestions(2))
	require.NoError(t, err)

	addMember(t, db, overdue.ID, company.ID)
	addMember(t, db, current.ID, company.ID)
	addMember(t, db, silent.ID, company.ID)

	// frequency 为 7 天：10 天前作答算逾期，昨天作答不算，从未作答算逾期
	recordResult(t, db, overdue.ID, company.ID, quiz.ID, time.Now().AddDate(0, 0, -10))
	recordResult(t, db, current.ID, company.ID, quiz.ID, time.Now().AddDate(0, 0, -1))

	sent, err := reminder.RunMissedQuizReminders()
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	notificationRepo := repository.NewNotificationRepository(db)

	for _, user := range []*model.User{overdue, silent} {
		unread, err := notificationRepo.ListUnread(user.ID)
		require.NoError(t, err)
		require.Len(t, unread, 1)
		assert.Equal(t, quiz.ID, unread[0].QuizID)
		assert.Contains(t, unread[0].Text, quiz.Title)
	}

	unread, err := notificationRepo.ListUnread(current.ID)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestRemindersSkipZeroFrequency(t *testing.T) {
	db := newTestDB(t)
	reminder := newReminderService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	company := createTestCompany(t, db, owner.ID, "Acme")
	addMember(t, db, member.ID, company.ID)

	require.NoError(t, db.Create(&model.Quiz{
		Title:     "no schedule",
		Frequency: 0,
		CompanyID: company.ID,
	}).Error)

	sent, err := reminder.RunMissedQuizReminders()
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}
