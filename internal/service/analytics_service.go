package service

import (
	"corpquiz_backend/internal/repository"
)

// AnalyticsService 全部评分都从 QuizResult 日志实时计算，
// 与答题服务共用同一个 Rating 公式
type AnalyticsService struct {
	ResultRepo *repository.QuizResultRepository
}

func NewAnalyticsService(resultRepo *repository.QuizResultRepository) *AnalyticsService {
	return &AnalyticsService{ResultRepo: resultRepo}
}

// MemberRating 公司内某个成员的加权平均分
type MemberRating struct {
	UserID uint    `json:"userId"`
	Rating float64 `json:"rating"`
}

// QuizRating 某个测验的加权平均分
type QuizRating struct {
	QuizID uint    `json:"quizId"`
	Rating float64 `json:"rating"`
}

// UserSystemRating 用户跨全部公司的全局评分
func (s *AnalyticsService) UserSystemRating(userID uint) (float64, error) {
	sums, err := s.ResultRepo.SumsForUser(userID)
	if err != nil {
		return 0, err
	}
	return Rating(sums.Correct, sums.Total), nil
}

// CompanyMembersAverages 公司内每个作答过的成员的平均分
func (s *AnalyticsService) CompanyMembersAverages(companyID uint) ([]MemberRating, error) {
	sums, err := s.ResultRepo.SumsPerMember(companyID)
	if err != nil {
		return nil, err
	}
	ratings := make([]MemberRating, 0, len(sums))
	for _, row := range sums {
		ratings = append(ratings, MemberRating{
			UserID: row.UserID,
			Rating: Rating(row.Correct, row.Total),
		})
	}
	return ratings, nil
}

// UserQuizAverages 用户在某公司内按测验拆分的平均分
func (s *AnalyticsService) UserQuizAverages(userID, companyID uint) ([]QuizRating, error) {
	sums, err := s.ResultRepo.SumsPerQuiz(userID, companyID)
	if err != nil {
		return nil, err
	}
	ratings := make([]QuizRating, 0, len(sums))
	for _, row := range sums {
		ratings = append(ratings, QuizRating{
			QuizID: row.QuizID,
			Rating: Rating(row.Correct, row.Total),
		})
	}
	return ratings, nil
}

// LastCompletions 用户每个测验最近一次作答时间
func (s *AnalyticsService) LastCompletions(userID uint) ([]repository.LastCompletion, error) {
	return s.ResultRepo.LastCompletions(userID)
}

// CompanyLastCompletions 公司内每个成员对每个测验最近一次作答时间
func (s *AnalyticsService) CompanyLastCompletions(companyID uint) ([]repository.LastCompletion, error) {
	return s.ResultRepo.CompanyLastCompletions(companyID)
}
