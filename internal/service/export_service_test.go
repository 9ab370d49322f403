package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"corpquiz_backend/internal/repository"
	"corpquiz_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStorage 测试用的内存归档
type memoryStorage struct {
	uploads map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{uploads: make(map[string][]byte)}
}

func (m *memoryStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.uploads[filename] = data
	return "/exports/" + filename, nil
}

func (m *memoryStorage) Delete(ctx context.Context, filename string) error {
	delete(m.uploads, filename)
	return nil
}

func (m *memoryStorage) GetURL(filename string) string {
	return "/exports/" + filename
}

func sampleSnapshots() []repository.QuizSubmissionSnapshot {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return []repository.QuizSubmissionSnapshot{
		{AttemptID: "a1", CompanyID: 1, UserID: 2, QuizID: 3, CorrectAnswers: 4, Questions: 5, Timestamp: ts},
		{AttemptID: "a2", CompanyID: 1, UserID: 7, QuizID: 3, CorrectAnswers: 1, Questions: 5, Timestamp: ts},
	}
}

func TestExportRenderCSV(t *testing.T) {
	storage := newMemoryStorage()
	svc := NewExportService(nil, storage)

	file, err := svc.render(context.Background(), "report", util.ExportCSV, sampleSnapshots())
	require.NoError(t, err)
	assert.Equal(t, "report.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	records, err := csv.NewReader(strings.NewReader(string(file.Data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"user_id", "company_id", "quiz_id", "correct_answers", "questions", "time"}, records[0])
	assert.Equal(t, []string{"2", "1", "3", "4", "5", "2026-08-01T12:00:00Z"}, records[1])

	// 归档一份
	assert.Contains(t, storage.uploads, "report.csv")
}

func TestExportRenderJSON(t *testing.T) {
	svc := NewExportService(nil, newMemoryStorage())

	file, err := svc.render(context.Background(), "report", util.ExportJSON, sampleSnapshots())
	require.NoError(t, err)
	assert.Equal(t, "report.json", file.Filename)
	assert.Equal(t, "application/json", file.ContentType)

	var decoded []repository.QuizSubmissionSnapshot
	require.NoError(t, json.Unmarshal(file.Data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "a1", decoded[0].AttemptID)
	assert.Equal(t, 4, decoded[0].CorrectAnswers)
}

func TestExportRejectsBadInput(t *testing.T) {
	svc := NewExportService(nil, newMemoryStorage())

	t.Run("unknown format", func(t *testing.T) {
		_, err := svc.render(context.Background(), "report", "xml", sampleSnapshots())
		assert.ErrorIs(t, err, util.ErrInvalidExportFormat)
	})

	t.Run("no results", func(t *testing.T) {
		_, err := svc.render(context.Background(), "report", util.ExportCSV, nil)
		assert.ErrorIs(t, err, util.ErrNoResults)
	})
}
