package service

import (
	"testing"
	"time"

	"corpquiz_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsRatings(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(repository.NewQuizResultRepository(db))

	owner := createTestUser(t, db, "owner")
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	companyA := createTestCompany(t, db, owner.ID, "Acme")
	companyB := createTestCompany(t, db, owner.ID, "Globex")

	now := time.Now()
	// alice: 公司A 2/2，公司B 1/4
	recordResult(t, db, alice.ID, companyA.ID, 1, now)
	require.NoError(t, db.Exec("UPDATE quiz_results SET correct_answers = 2, questions = 2 WHERE user_id = ?", alice.ID).Error)
	recordResult(t, db, alice.ID, companyB.ID, 2, now)
	require.NoError(t, db.Exec("UPDATE quiz_results SET correct_answers = 1, questions = 4 WHERE user_id = ? AND company_id = ?", alice.ID, companyB.ID).Error)

	t.Run("system rating weights by question count", func(t *testing.T) {
		rating, err := svc.UserSystemRating(alice.ID)
		require.NoError(t, err)
		assert.InDelta(t, 2.5, rating, 1e-9)
	})

	t.Run("no attempts means zero", func(t *testing.T) {
		rating, err := svc.UserSystemRating(bob.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, rating)
	})

	t.Run("company averages are scoped", func(t *testing.T) {
		ratings, err := svc.CompanyMembersAverages(companyA.ID)
		require.NoError(t, err)
		require.Len(t, ratings, 1)
		assert.Equal(t, alice.ID, ratings[0].UserID)
		assert.InDelta(t, 5.0, ratings[0].Rating, 1e-9)
	})

	t.Run("per quiz averages", func(t *testing.T) {
		ratings, err := svc.UserQuizAverages(alice.ID, companyB.ID)
		require.NoError(t, err)
		require.Len(t, ratings, 1)
		assert.EqualValues(t, 2, ratings[0].QuizID)
		assert.InDelta(t, 1.25, ratings[0].Rating, 1e-9)
	})
}

func TestAnalyticsLastCompletions(t *testing.T) {
	db := newTestDB(t)
	svc := NewAnalyticsService(repository.NewQuizResultRepository(db))

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	company := createTestCompany(t, db, owner.ID, "Acme")

	early := time.Now().AddDate(0, 0, -5).Truncate(time.Second)
	late := time.Now().AddDate(0, 0, -1).Truncate(time.Second)
	recordResult(t, db, member.ID, company.ID, 1, early)
	recordResult(t, db, member.ID, company.ID, 1, late)

	rows, err := svc.LastCompletions(member.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, rows[0].QuizID)
	assert.WithinDuration(t, late, rows[0].CompletedAt, time.Second)

	companyRows, err := svc.CompanyLastCompletions(company.ID)
	require.NoError(t, err)
	require.Len(t, companyRows, 1)
	assert.Equal(t, member.ID, companyRows[0].UserID)
}
