package service

import (
	"testing"

	"corpquiz_backend/internal/model"
	"corpquiz_backend/internal/repository"
	"corpquiz_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipRequestLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newMembershipService(db)

	owner := createTestUser(t, db, "owner")
	applicant := createTestUser(t, db, "applicant")
	company := createTestCompany(t, db, owner.ID, "Acme")

	t.Run("accept turns request into exactly one membership row", func(t *testing.T) {
		action, err := svc.CreateRequest(applicant.ID, company.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ActionRequest, action.Type)
		assert.Equal(t, model.StatusPending, action.Status)

		require.NoError(t, svc.AcceptRequest(action.ID))

		var rows []model.Action
		require.NoError(t, db.Where("user_id = ? AND company_id = ?", applicant.ID, company.ID).Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.Equal(t, model.ActionMember, rows[0].Type)
		assert.Equal(t, model.StatusAccepted, rows[0].Status)
		assert.False(t, rows[0].IsAdmin)

		isMember, err := svc.IsMember(applicant.ID, company.ID)
		require.NoError(t, err)
		assert.True(t, isMember)
	})

	t.Run("second accept is rejected", func(t *testing.T) {
		var action model.Action
		require.NoError(t, db.Where("user_id = ?", applicant.ID).First(&action).Error)

		err := svc.AcceptRequest(action.ID)
		assert.ErrorIs(t, err, util.ErrNotPending)
	})

	t.Run("duplicate request while membership exists", func(t *testing.T) {
		_, err := svc.CreateRequest(applicant.ID, company.ID)
		assert.ErrorIs(t, err, util.ErrAlreadyRelated)
	})
}

func TestMembershipRequestRejectAndRetry(t *testing.T) {
	db := newTestDB(t)
	svc := newMembershipService(db)

	owner := createTestUser(t, db, "owner")
	applicant := createTestUser(t, db, "applicant")
	company := createTestCompany(t, db, owner.ID, "Acme")

	action, err := svc.CreateRequest(applicant.ID, company.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RejectRequest(action.ID))

	isMember, err := svc.IsMember(applicant.ID, company.ID)
	require.NoError(t, err)
	assert.False(t, isMember)

	// 被拒绝后可以重新申请
	_, err = svc.CreateRequest(applicant.ID, company.ID)
	assert.NoError(t, err)
}

func TestMembershipCancelRequest(t *testing.T) {
	db := newTestDB(t)
	svc := newMembershipService(db)

	owner := createTestUser(t, db, "owner")
	applicant := createTestUser(t, db, "applicant")
	stranger := createTestUser(t, db, "stranger")
	company := createTestCompany(t, db, owner.ID, "Acme")

	action, err := svc.CreateRequest(applicant.ID, company.ID)
	require.NoError(t, err)

	t.Run("only the initiator can cancel", func(t *testing.T) {
		err := svc.CancelRequest(action.ID, stranger.ID)
		assert.ErrorIs(t, err, util.ErrNotPending)
	})

	t.Run("initiator cancels own request", func(t *testing.T) {
		require.NoError(t, svc.CancelRequest(action.ID, applicant.ID))

		var stored model.Action
		require.NoError(t, db.First(&stored, action.ID).Error)
		assert.Equal(t, model.StatusCancelled, stored.Status)
	})

	t.Run("cancelled request cannot be accepted", func(t *testing.T) {
		err := svc.AcceptRequest(action.ID)
		assert.ErrorIs(t, err, util.ErrNotPending)
	})
}

func TestMembershipInviteLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newMembershipService(db)

	owner := createTestUser(t, db, "owner")
	invitee := createTestUser(t, db, "invitee")
	company := createTestCompany(t, db, owner.ID, "Acme")

	t.Run("owner cannot be invited", func(t *testing.T) {
		_, err := svc.CreateInvite(company.ID, owner.ID)
		assert.ErrorIs(t, err, util.ErrOwnerAsTarget)
	})

	t.Run("only the invitee can accept", func(t *testing.T) {
		action, err := svc.CreateInvite(company.ID, invitee.ID)
		require.NoError(t, err)

		err = svc.AcceptInvite(action.ID, owner.ID)
		assert.ErrorIs(t, err, util.ErrPermissionDenied)

		require.NoError(t, svc.AcceptInvite(action.ID, invitee.ID))

		isMember, err := svc.IsMember(invitee.ID, company.ID)
		require.NoError(t, err)
		assert.True(t, isMember)
	})
}

func TestMembershipLeaveCompany(t *testing.T) {
	db := newTestDB(t)
	svc := newMembershipService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	company := createTestCompany(t, db, owner.ID, "Acme")

	action, err := svc.CreateRequest(member.ID, company.ID)
	require.NoError(t, err)
	require.NoError(t, svc.AcceptRequest(action.ID))

	t.Run("owner cannot leave", func(t *testing.T) {
		err := svc.LeaveCompany(owner.ID, company.ID)
		assert.ErrorIs(t, err, util.ErrOwnerCannotLeave)
	})

	t.Run("member leaves", func(t *testing.T) {
		require.NoError(t, svc.LeaveCompany(member.ID, company.ID))

		isMember, err := svc.IsMember(member.ID, company.ID)
		require.NoError(t, err)
		assert.False(t, isMember)
	})

	t.Run("leaving twice fails", func(t *testing.T) {
		err := svc.LeaveCompany(member.ID, company.ID)
		assert.ErrorIs(t, err, util.ErrNotMember)
	})
}

func TestMembershipAdmins(t *testing.T) {
	db := newTestDB(t)
	svc := newMembershipService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	outsider := createTestUser(t, db, "outsider")
	company := createTestCompany(t, db, owner.ID, "Acme")

	action, err := svc.CreateRequest(member.ID, company.ID)
	require.NoError(t, err)
	require.NoError(t, svc.AcceptRequest(action.ID))

	t.Run("non member cannot be appointed", func(t *testing.T) {
		err := svc.AddAdmin(company.ID, outsider.ID)
		assert.ErrorIs(t, err, util.ErrNotMember)
	})

	t.Run("appointed member can manage", func(t *testing.T) {
		canManage, err := svc.CanManage(member.ID, company.ID)
		require.NoError(t, err)
		assert.False(t, canManage)

		require.NoError(t, svc.AddAdmin(company.ID, member.ID))

		canManage, err = svc.CanManage(member.ID, company.ID)
		require.NoError(t, err)
		assert.True(t, canManage)

		admins, total, err := svc.GetCompanyAdmins(company.ID, 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, admins, 1)
		assert.Equal(t, member.ID, admins[0].ID)
	})

	t.Run("revoked admin loses capability", func(t *testing.T) {
		require.NoError(t, svc.RemoveAdmin(company.ID, member.ID))

		canManage, err := svc.CanManage(member.ID, company.ID)
		require.NoError(t, err)
		assert.False(t, canManage)
	})
}

func TestMembershipListsAreTypeFiltered(t *testing.T) {
	db := newTestDB(t)
	svc := newMembershipService(db)

	owner := createTestUser(t, db, "owner")
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	company := createTestCompany(t, db, owner.ID, "Acme")

	_, err := svc.CreateRequest(alice.ID, company.ID)
	require.NoError(t, err)
	_, err = svc.CreateInvite(company.ID, bob.ID)
	require.NoError(t, err)

	requests, err := svc.RequestsForCompany(company.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, alice.ID, requests[0].UserID)

	invites, err := svc.InvitesForCompany(company.ID)
	require.NoError(t, err)
	require.Len(t, invites, 1)
	assert.Equal(t, bob.ID, invites[0].UserID)

	myInvites, err := svc.InvitesForUser(bob.ID)
	require.NoError(t, err)
	assert.Len(t, myInvites, 1)

	myRequests, err := svc.RequestsForUser(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, myRequests)
}

func TestMembershipOwnerCountsAsMember(t *testing.T) {
	db := newTestDB(t)
	svc := newMembershipService(db)

	owner := createTestUser(t, db, "owner")
	company := createTestCompany(t, db, owner.ID, "Acme")

	isMember, err := svc.IsMember(owner.ID, company.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	// 所有者不走 Action 表，成员列表里没有他
	users, total, err := svc.GetCompanyMembers(company.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, users)
}

func TestMembershipRemoveUser(t *testing.T) {
	db := newTestDB(t)
	svc := newMembershipService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	company := createTestCompany(t, db, owner.ID, "Acme")

	action, err := svc.CreateRequest(member.ID, company.ID)
	require.NoError(t, err)
	require.NoError(t, svc.AcceptRequest(action.ID))

	t.Run("owner cannot be removed", func(t *testing.T) {
		err := svc.RemoveUser(company.ID, owner.ID)
		assert.ErrorIs(t, err, util.ErrOwnerAsTarget)
	})

	t.Run("member is removed", func(t *testing.T) {
		require.NoError(t, svc.RemoveUser(company.ID, member.ID))

		isMember, err := repository.NewActionRepository(db).IsMember(member.ID, company.ID)
		require.NoError(t, err)
		assert.False(t, isMember)
	})
}
