// 手动触发逾期测验提醒脚本
//
// 该功能已集成到主应用的后台定时任务中（每 24 小时自动执行一次）。
// 此脚本仅用于手动触发，例如部署后想立即补发一轮提醒。
//
// 用法: go run scripts/send_reminders.go

package main

import (
	"corpquiz_backend/internal/config"
	"corpquiz_backend/internal/repository"
	"corpquiz_backend/internal/service"
	"corpquiz_backend/pkg/database"
	"corpquiz_backend/pkg/logger"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	reminder := service.NewReminderService(
		repository.NewQuizRepository(db),
		repository.NewQuizResultRepository(db),
		repository.NewActionRepository(db),
		repository.NewNotificationRepository(db),
	)

	log.Println("手动触发逾期测验提醒...")
	sent, err := reminder.RunMissedQuizReminders()
	if err != nil {
		log.Fatalf("提醒任务失败: %v", err)
	}
	log.Printf("完成！共发送 %d 条提醒", sent)
}
