package model

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	// Frequency 要求重新作答的周期，单位：天
	Frequency int        `gorm:"not null" json:"frequency"`
	CompanyID uint       `gorm:"index;not null" json:"companyId"`
	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model Question
type Question struct {
	BaseModel
	Text    string   `gorm:"type:text;not null" json:"text"`
	QuizID  uint     `gorm:"index;not null" json:"quizId"`
	Options []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Option
type Option struct {
	BaseModel
	Text       string `gorm:"size:500;not null" json:"text"`
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (Option) TableName() string {
	return "options"
}
