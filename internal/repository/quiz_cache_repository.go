package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// 提交快照在 Redis 中保留 48 小时，供导出接口直接读取
const quizCacheTTL = 48 * time.Hour

// QuizSubmissionSnapshot 一次答题的反范式化快照
type QuizSubmissionSnapshot struct {
	AttemptID      string    `json:"attemptId"`
	CompanyID      uint      `json:"companyId"`
	UserID         uint      `json:"userId"`
	QuizID         uint      `json:"quizId"`
	CorrectAnswers int       `json:"correctAnswers"`
	Questions      int       `json:"questions"`
	Timestamp      time.Time `json:"time"`
}

type QuizCacheRepository struct {
	Redis *redis.Client
}

func NewQuizCacheRepository(rdb *redis.Client) *QuizCacheRepository {
	return &QuizCacheRepository{Redis: rdb}
}

func snapshotKey(companyID, userID, quizID uint, attemptID string) string {
	return fmt.Sprintf("quiz_result:%d:%d:%d:%s", companyID, userID, quizID, attemptID)
}

// SaveSubmission 写入快照并设置过期时间
func (r *QuizCacheRepository) SaveSubmission(ctx context.Context, s QuizSubmissionSnapshot) error {
	key := snapshotKey(s.CompanyID, s.UserID, s.QuizID, s.AttemptID)
	fields := map[string]interface{}{
		"attempt_id":      s.AttemptID,
		"company_id":      s.CompanyID,
		"user_id":         s.UserID,
		"quiz_id":         s.QuizID,
		"correct_answers": s.CorrectAnswers,
		"questions":       s.Questions,
		"time":            s.Timestamp.Format(time.RFC3339),
	}
	if err := r.Redis.HSet(ctx, key, fields).Err(); err != nil {
		return err
	}
	return r.Redis.Expire(ctx, key, quizCacheTTL).Err()
}

// UserResults 某公司内某用户全部未过期的快照
func (r *QuizCacheRepository) UserResults(ctx context.Context, companyID, userID uint) ([]QuizSubmissionSnapshot, error) {
	pattern := fmt.Sprintf("quiz_result:%d:%d:*", companyID, userID)
	return r.scanSnapshots(ctx, pattern)
}

// CompanyResults 公司内全部未过期的快照
func (r *QuizCacheRepository) CompanyResults(ctx context.Context, companyID uint) ([]QuizSubmissionSnapshot, error) {
	pattern := fmt.Sprintf("quiz_result:%d:*", companyID)
	return r.scanSnapshots(ctx, pattern)
}

func (r *QuizCacheRepository) scanSnapshots(ctx context.Context, pattern string) ([]QuizSubmissionSnapshot, error) {
	var snapshots []QuizSubmissionSnapshot
	var cursor uint64
	for {
		keys, next, err := r.Redis.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			fields, err := r.Redis.HGetAll(ctx, key).Result()
			if err != nil {
				return nil, err
			}
			if len(fields) == 0 {
				continue
			}
			snapshots = append(snapshots, snapshotFromFields(fields))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return snapshots, nil
}

func snapshotFromFields(fields map[string]string) QuizSubmissionSnapshot {
	parseUint := func(s string) uint {
		v, _ := strconv.ParseUint(s, 10, 64)
		return uint(v)
	}
	parseInt := func(s string) int {
		v, _ := strconv.Atoi(s)
		return v
	}
	ts, _ := time.Parse(time.RFC3339, fields["time"])
	return QuizSubmissionSnapshot{
		AttemptID:      fields["attempt_id"],
		CompanyID:      parseUint(fields["company_id"]),
		UserID:         parseUint(fields["user_id"]),
		QuizID:         parseUint(fields["quiz_id"]),
		CorrectAnswers: parseInt(fields["correct_answers"]),
		Questions:      parseInt(fields["questions"]),
		Timestamp:      ts,
	}
}
