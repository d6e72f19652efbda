package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"receipt-analyzer/internal/dto"
	"receipt-analyzer/internal/metrics"
	"receipt-analyzer/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BlobStore keeps the raw receipt. Objects must be publicly readable.
type BlobStore interface {
	Put(ctx context.Context, id string, body io.Reader, size int64, contentType string) (*models.StoredBlob, error)
}

// TextExtractor runs OCR over the raw upload bytes.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// ExpenseRepository is the document store for analyzed receipts.
type ExpenseRepository interface {
	Create(ctx context.Context, rec *models.ExpenseRecord) error
	List(ctx context.Context, limit, offset int) ([]*models.ExpenseRecord, error)
}

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

type AnalysisService struct {
	blobs     BlobStore
	extractor TextExtractor
	llm       *LLMService
	expenses  ExpenseRepository
	tempDir   string
	now       func() time.Time
	logger    *zap.Logger
}

func NewAnalysisService(
	blobs BlobStore,
	extractor TextExtractor,
	llmService *LLMService,
	expenses ExpenseRepository,
	tempDir string,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		blobs:     blobs,
		extractor: extractor,
		llm:       llmService,
		expenses:  expenses,
		tempDir:   tempDir,
		now:       time.Now,
		logger:    logger,
	}
}

// Analyze runs one receipt through the pipeline:
// store blob -> OCR -> categorize -> advise -> persist record.
// Storage, extraction and database failures abort the run; model failures
// degrade to placeholder text.
func (s *AnalysisService) Analyze(ctx context.Context, upload *models.UploadedFile) (*dto.AnalysisResult, error) {
	if upload == nil || len(upload.Data) == 0 {
		return nil, ErrNoFile
	}

	// 1. Durable copy of the upload
	blob, err := s.storeBlob(ctx, upload)
	if err != nil {
		metrics.ObserveAnalysis(metrics.OutcomeStorageError)
		s.logger.Error("Failed to store receipt", zap.String("file", upload.FileName), zap.Error(err))
		return nil, &StorageUploadError{Message: backendMessage(err), Err: err}
	}

	// 2. OCR from the in-memory bytes; the temp file is already gone
	start := time.Now()
	text, err := s.extractor.ExtractText(ctx, upload.Data)
	metrics.ObserveDependency(metrics.DependencyOCR, start)
	if err != nil {
		metrics.ObserveAnalysis(metrics.OutcomeOCRError)
		s.logger.Error("Failed to extract text", zap.String("file_id", blob.ID), zap.Error(err))
		return nil, &ExtractionError{Message: err.Error(), Err: err}
	}
	text = sanitizeText(text)

	// 3. Classification and advice
	category := sanitizeText(s.llm.Categorize(ctx, text))
	s.logger.Info("Expense categorized", zap.String("category", category))

	advice := sanitizeText(s.llm.GenerateAdvice(ctx, text, category))

	// 4. Persist
	rec := &models.ExpenseRecord{
		ID:        uuid.New(),
		Text:      text,
		Category:  category,
		Advice:    advice,
		FileID:    blob.ID,
		CreatedAt: s.now().UTC(),
	}

	start = time.Now()
	err = s.expenses.Create(ctx, rec)
	metrics.ObserveDependency(metrics.DependencyDocumentStore, start)
	if err != nil {
		metrics.ObserveAnalysis(metrics.OutcomeDBError)
		s.logger.Error("Failed to create expense record, blob left orphaned",
			zap.String("file_id", blob.ID),
			zap.Error(err),
		)
		return nil, &DatabaseError{Message: backendMessage(err), Err: err}
	}

	metrics.ObserveAnalysis(metrics.OutcomeSuccess)
	s.logger.Info("Receipt analyzed",
		zap.String("record_id", rec.ID.String()),
		zap.String("file_id", blob.ID),
		zap.Int("text_length", len(text)),
	)

	return &dto.AnalysisResult{
		Text:     text,
		Category: category,
		Advice:   advice,
		FileID:   blob.ID,
		RecordID: rec.ID.String(),
	}, nil
}

// storeBlob writes the upload to a temp file and streams that file to the
// object store. The temp file is removed before returning on every path.
func (s *AnalysisService) storeBlob(ctx context.Context, upload *models.UploadedFile) (*models.StoredBlob, error) {
	tmp, err := os.CreateTemp(s.tempDir, "receipt-*"+upload.Ext())
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("Failed to remove temp file", zap.String("path", tmp.Name()), zap.Error(err))
		}
	}()

	if _, err := tmp.Write(upload.Data); err != nil {
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind temp file: %w", err)
	}

	contentType := upload.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(upload.Data)
	}

	start := time.Now()
	defer metrics.ObserveDependency(metrics.DependencyObjectStore, start)

	return s.blobs.Put(ctx, uuid.NewString(), tmp, upload.Size(), contentType)
}

// ListExpenses returns stored records, newest first.
func (s *AnalysisService) ListExpenses(ctx context.Context, limit, offset int) ([]*dto.ExpenseResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	records, err := s.expenses.List(ctx, limit, offset)
	if err != nil {
		return nil, &DatabaseError{Message: backendMessage(err), Err: err}
	}

	responses := make([]*dto.ExpenseResponse, len(records))
	for i, rec := range records {
		responses[i] = &dto.ExpenseResponse{
			ID:        rec.ID.String(),
			FileID:    rec.FileID,
			Text:      rec.Text,
			Category:  rec.Category,
			Advice:    rec.Advice,
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		}
	}

	return responses, nil
}
