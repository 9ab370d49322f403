package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestShouldMigrate(t *testing.T) {
	assert.True(t, ShouldMigrate("debug", false))
	assert.True(t, ShouldMigrate("", false))
	assert.False(t, ShouldMigrate("release", false))
	assert.True(t, ShouldMigrate("release", true))
}

func TestMigrateCreatesSchema(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:TestMigrateCreatesSchema?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "companies", "actions", "quizzes", "questions", "options", "quiz_results", "notifications"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
