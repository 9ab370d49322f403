package service

import (
	"fmt"
	"os"
	"testing"

	"corpquiz_backend/internal/model"
	"corpquiz_backend/internal/repository"
	"corpquiz_backend/pkg/database"
	"corpquiz_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-password",
		Status:   true,
		Role:     model.RoleUser,
	}
	require.NoError(t, repository.NewUserRepository(db).Create(user))
	return user
}

func createTestCompany(t *testing.T, db *gorm.DB, ownerID uint, name string) *model.Company {
	t.Helper()

	company := &model.Company{
		Name:      name,
		IsVisible: true,
		OwnerID:   ownerID,
	}
	require.NoError(t, repository.NewCompanyRepository(db).Create(company))
	return company
}

func newMembershipService(db *gorm.DB) *MembershipService {
	return NewMembershipService(
		repository.NewActionRepository(db),
		repository.NewCompanyRepository(db),
		repository.NewUserRepository(db),
	)
}
