package service

import (
	"testing"

	"corpquiz_backend/internal/model"
	"corpquiz_backend/internal/repository"
	"corpquiz_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationFanOut(t *testing.T) {
	db := newTestDB(t)
	membership := newMembershipService(db)
	svc := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewActionRepository(db),
	)

	owner := createTestUser(t, db, "owner")
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	outsider := createTestUser(t, db, "outsider")
	company := createTestCompany(t, db, owner.ID, "Acme")

	for _, user := range []*model.User{alice, bob} {
		action, err := membership.CreateRequest(user.ID, company.ID)
		require.NoError(t, err)
		require.NoError(t, membership.AcceptRequest(action.ID))
	}

	require.NoError(t, svc.NotifyQuizCreated(company.ID, 1))

	for _, user := range []*model.User{alice, bob} {
		notifications, err := svc.GetUnread(user.ID)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.Equal(t, model.NotificationUnread, notifications[0].Status)
		assert.EqualValues(t, 1, notifications[0].QuizID)
	}

	notifications, err := svc.GetUnread(outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestNotificationMarkReadIsOneWay(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewActionRepository(db),
	)

	user := createTestUser(t, db, "user")
	other := createTestUser(t, db, "other")

	notification := &model.Notification{
		UserID: user.ID,
		Text:   "hello",
		Status: model.NotificationUnread,
	}
	require.NoError(t, repository.NewNotificationRepository(db).Create(notification))

	t.Run("other users cannot mark it", func(t *testing.T) {
		err := svc.MarkRead(notification.ID, other.ID)
		assert.ErrorIs(t, err, util.ErrNotFound)
	})

	t.Run("first mark succeeds and hides it", func(t *testing.T) {
		require.NoError(t, svc.MarkRead(notification.ID, user.ID))

		unread, err := svc.GetUnread(user.ID)
		require.NoError(t, err)
		assert.Empty(t, unread)
	})

	t.Run("second mark fails", func(t *testing.T) {
		err := svc.MarkRead(notification.ID, user.ID)
		assert.ErrorIs(t, err, util.ErrNotFound)
	})
}

func TestNotificationDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewActionRepository(db),
	)

	user := createTestUser(t, db, "user")

	notification := &model.Notification{UserID: user.ID, Text: "bye", Status: model.NotificationUnread}
	require.NoError(t, repository.NewNotificationRepository(db).Create(notification))

	result, err := svc.DeleteNotification(notification.ID, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, notification.ID, result.ID)

	result, err = svc.DeleteNotification(notification.ID, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, -1, result.ID)
}
