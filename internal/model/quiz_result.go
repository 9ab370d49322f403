package model

import "time"

// QuizResult 一次答题的不可变记录，只插入不更新
// swagger:model QuizResult
type QuizResult struct {
	BaseModel
	CompanyID      uint      `gorm:"index" json:"companyId"`
	UserID         uint      `gorm:"index" json:"userId"`
	QuizID         uint      `gorm:"index" json:"quizId"`
	CorrectAnswers int       `gorm:"not null" json:"correctAnswers"`
	Questions      int       `gorm:"not null" json:"questions"`
	Timestamp      time.Time `gorm:"index" json:"timestamp"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
