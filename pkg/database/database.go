package database

import (
	"corpquiz_backend/internal/config"
	"corpquiz_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// ShouldMigrate release 模式默认不迁移，-migrate/-migrate-only 强制开启
func ShouldMigrate(mode string, force bool) bool {
	return mode != "release" || force
}

// Migrate 建表与增量迁移，测试用的内存库也走这里
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Company{},
		&model.Action{},
		&model.Quiz{},
		&model.Question{},
		&model.Option{},
		&model.QuizResult{},
		&model.Notification{},
	)
}
