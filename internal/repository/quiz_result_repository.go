package repository

import (
	"time"

	"corpquiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuizResultRepository struct {
	DB *gorm.DB
}

func NewQuizResultRepository(db *gorm.DB) *QuizResultRepository {
	return &QuizResultRepository{DB: db}
}

// ScoreSums 按题数加权汇总的中间结果
type ScoreSums struct {
	UserID  uint
	QuizID  uint
	Correct int64
	Total   int64
}

// LastCompletion 某个用户对某个测验最近一次作答的时间
type LastCompletion struct {
	UserID      uint      `json:"userId"`
	QuizID      uint      `json:"quizId"`
	CompletedAt time.Time `json:"completedAt"`
}

func (r *QuizResultRepository) Create(result *model.QuizResult) error {
	return r.DB.Create(result).Error
}

// SumsForUserInCompany 用户在某公司的累计正确数与总题数
func (r *QuizResultRepository) SumsForUserInCompany(userID, companyID uint) (ScoreSums, error) {
	var sums ScoreSums
	err := r.DB.Model(&model.QuizResult{}).
		Select("COALESCE(SUM(correct_answers),0) as correct, COALESCE(SUM(questions),0) as total").
		Where("user_id = ? AND company_id = ?", userID, companyID).
		Scan(&sums).Error
	return sums, err
}

// SumsForUser 用户跨全部公司的累计正确数与总题数
func (r *QuizResultRepository) SumsForUser(userID uint) (ScoreSums, error) {
	var sums ScoreSums
	err := r.DB.Model(&model.QuizResult{}).
		Select("COALESCE(SUM(correct_answers),0) as correct, COALESCE(SUM(questions),0) as total").
		Where("user_id = ?", userID).
		Scan(&sums).Error
	return sums, err
}

// SumsPerMember 公司内按成员分组的累计分数
func (r *QuizResultRepository) SumsPerMember(companyID uint) ([]ScoreSums, error) {
	var sums []ScoreSums
	err := r.DB.Model(&model.QuizResult{}).
		Select("user_id, COALESCE(SUM(correct_answers),0) as correct, COALESCE(SUM(questions),0) as total").
		Where("company_id = ?", companyID).
		Group("user_id").
		Scan(&sums).Error
	return sums, err
}

// SumsPerQuiz 用户在某公司内按测验分组的累计分数
func (r *QuizResultRepository) SumsPerQuiz(userID, companyID uint) ([]ScoreSums, error) {
	var sums []ScoreSums
	err := r.DB.Model(&model.QuizResult{}).
		Select("quiz_id, COALESCE(SUM(correct_answers),0) as correct, COALESCE(SUM(questions),0) as total").
		Where("user_id = ? AND company_id = ?", userID, companyID).
		Group("quiz_id").
		Scan(&sums).Error
	return sums, err
}

// LastCompletions 用户每个测验最近一次作答时间
func (r *QuizResultRepository) LastCompletions(userID uint) ([]LastCompletion, error) {
	var rows []LastCompletion
	err := r.DB.Model(&model.QuizResult{}).
		Select("user_id, quiz_id, MAX(timestamp) as completed_at").
		Where("user_id = ?", userID).
		Group("user_id, quiz_id").
		Scan(&rows).Error
	return rows, err
}

// CompanyLastCompletions 公司内每个成员对每个测验最近一次作答时间
func (r *QuizResultRepository) CompanyLastCompletions(companyID uint) ([]LastCompletion, error) {
	var rows []LastCompletion
	err := r.DB.Model(&model.QuizResult{}).
		Select("user_id, quiz_id, MAX(timestamp) as completed_at").
		Where("company_id = ?", companyID).
		Group("user_id, quiz_id").
		Scan(&rows).Error
	return rows, err
}

// CompletedSince 在 since 之后完成过指定测验的用户 ID 集合（提醒任务用）
func (r *QuizResultRepository) CompletedSince(quizID uint, since time.Time) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.QuizResult{}).
		Where("quiz_id = ? AND timestamp >= ?", quizID, since).
		Distinct().
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	done := make(map[uint]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}
