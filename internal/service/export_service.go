package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"corpquiz_backend/internal/repository"
	"corpquiz_backend/internal/util"
	"corpquiz_backend/pkg/logger"

	"go.uber.org/zap"
)

// ExportService 从 Redis 快照导出答题结果，不扫关系库。
// 生成的文件同时经 StorageProvider 归档一份。
type ExportService struct {
	CacheRepo *repository.QuizCacheRepository
	Storage   StorageProvider
}

func NewExportService(cacheRepo *repository.QuizCacheRepository, storage StorageProvider) *ExportService {
	return &ExportService{
		CacheRepo: cacheRepo,
		Storage:   storage,
	}
}

// ExportFile 导出结果：文件名、MIME 类型和内容
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportUserResults 导出某公司内单个用户的近期答题快照
func (s *ExportService) ExportUserResults(ctx context.Context, companyID, userID uint, format string) (*ExportFile, error) {
	snapshots, err := s.CacheRepo.UserResults(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("quiz_results_company_%d_user_%d_%s", companyID, userID, time.Now().Format("20060102150405"))
	return s.render(ctx, name, format, snapshots)
}

// ExportCompanyResults 导出公司全体成员的近期答题快照
func (s *ExportService) ExportCompanyResults(ctx context.Context, companyID uint, format string) (*ExportFile, error) {
	snapshots, err := s.CacheRepo.CompanyResults(ctx, companyID)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("quiz_results_company_%d_%s", companyID, time.Now().Format("20060102150405"))
	return s.render(ctx, name, format, snapshots)
}

func (s *ExportService) render(ctx context.Context, name, format string, snapshots []repository.QuizSubmissionSnapshot) (*ExportFile, error) {
	if len(snapshots) == 0 {
		return nil, util.ErrNoResults
	}

	var file *ExportFile
	switch format {
	case util.ExportJSON:
		data, err := json.MarshalIndent(snapshots, "", "  ")
		if err != nil {
			return nil, err
		}
		file = &ExportFile{
			Filename:    name + ".json",
			ContentType: "application/json",
			Data:        data,
		}
	case util.ExportCSV:
		data, err := renderCSV(snapshots)
		if err != nil {
			return nil, err
		}
		file = &ExportFile{
			Filename:    name + ".csv",
			ContentType: "text/csv",
			Data:        data,
		}
	default:
		return nil, util.ErrInvalidExportFormat
	}

	// 归档失败不阻塞下载
	if _, err := s.Storage.Upload(ctx, file.Filename, bytes.NewReader(file.Data), int64(len(file.Data)), file.ContentType); err != nil {
		logger.Log.Warn("Failed to archive export file",
			zap.String("filename", file.Filename),
			zap.Error(err))
	}
	return file, nil
}

func renderCSV(snapshots []repository.QuizSubmissionSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"user_id", "company_id", "quiz_id", "correct_answers", "questions", "time"}); err != nil {
		return nil, err
	}
	for _, s := range snapshots {
		record := []string{
			strconv.FormatUint(uint64(s.UserID), 10),
			strconv.FormatUint(uint64(s.CompanyID), 10),
			strconv.FormatUint(uint64(s.QuizID), 10),
			strconv.Itoa(s.CorrectAnswers),
			strconv.Itoa(s.Questions),
			s.Timestamp.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
