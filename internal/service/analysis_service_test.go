package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"testing"
	"time"

	"receipt-analyzer/internal/models"
	"receipt-analyzer/internal/ocr"

	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBlobStore struct {
	calls       int
	ids         []string
	body        []byte
	contentType string
	size        int64
	tempExisted bool
	err         error
}

func (f *fakeBlobStore) Put(ctx context.Context, id string, body io.Reader, size int64, contentType string) (*models.StoredBlob, error) {
	f.calls++
	f.ids = append(f.ids, id)
	f.size = size
	f.contentType = contentType

	if file, ok := body.(*os.File); ok {
		_, statErr := os.Stat(file.Name())
		f.tempExisted = statErr == nil
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.body = data

	if f.err != nil {
		return nil, f.err
	}
	return &models.StoredBlob{ID: "proj/" + id, Bucket: "receipts", Size: size}, nil
}

type fakeExtractor struct {
	calls int
	data  []byte
	text  string
	err   error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	f.calls++
	f.data = data
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeExpenseRepo struct {
	created []*models.ExpenseRecord
	listed  [2]int
	records []*models.ExpenseRecord
	err     error
}

func (f *fakeExpenseRepo) Create(ctx context.Context, rec *models.ExpenseRecord) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, rec)
	return nil
}

func (f *fakeExpenseRepo) List(ctx context.Context, limit, offset int) ([]*models.ExpenseRecord, error) {
	f.listed = [2]int{limit, offset}
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type pipeline struct {
	svc       *AnalysisService
	blobs     *fakeBlobStore
	extractor *fakeExtractor
	completer *fakeCompleter
	repo      *fakeExpenseRepo
	tempDir   string
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	p := &pipeline{
		blobs:     &fakeBlobStore{},
		extractor: &fakeExtractor{text: "Coffee $4.50"},
		completer: &fakeCompleter{responses: []string{"Food", "Bring coffee from home."}},
		repo:      &fakeExpenseRepo{},
		tempDir:   t.TempDir(),
	}
	logger := zap.NewNop()
	p.svc = NewAnalysisService(
		p.blobs,
		p.extractor,
		NewLLMService(p.completer, logger),
		p.repo,
		p.tempDir,
		logger,
	)
	p.svc.now = func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.FixedZone("X", 3*3600)) }
	return p
}

func (p *pipeline) assertTempDirEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(p.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp file must be removed")
}

func receiptPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAnalyze_Success(t *testing.T) {
	p := newPipeline(t)
	data := receiptPNG(t)

	result, err := p.svc.Analyze(context.Background(), &models.UploadedFile{
		FileName:    "receipt.png",
		ContentType: "image/png",
		Data:        data,
	})
	require.NoError(t, err)

	assert.Equal(t, "Coffee $4.50", result.Text)
	assert.Equal(t, "Food", result.Category)
	assert.Equal(t, "Bring coffee from home.", result.Advice)

	// blob stored once under a fresh uuid, from a temp file that existed at the time
	require.Equal(t, 1, p.blobs.calls)
	_, err = uuid.Parse(p.blobs.ids[0])
	assert.NoError(t, err)
	assert.True(t, p.blobs.tempExisted)
	assert.Equal(t, data, p.blobs.body)
	assert.Equal(t, int64(len(data)), p.blobs.size)
	assert.Equal(t, "image/png", p.blobs.contentType)
	assert.Equal(t, "proj/"+p.blobs.ids[0], result.FileID)

	// OCR ran on the original bytes
	assert.Equal(t, data, p.extractor.data)

	// exactly two completions: classification then advice
	require.Len(t, p.completer.prompts, 2)
	assert.Contains(t, p.completer.prompts[0], "Classify this expense: 'Coffee $4.50'")
	assert.Contains(t, p.completer.prompts[1], "Coffee $4.50 categorized as Food")

	// one record referencing the blob
	require.Len(t, p.repo.created, 1)
	rec := p.repo.created[0]
	assert.Equal(t, "Coffee $4.50", rec.Text)
	assert.Equal(t, "Food", rec.Category)
	assert.Equal(t, "Bring coffee from home.", rec.Advice)
	assert.Equal(t, result.FileID, rec.FileID)
	assert.Equal(t, rec.ID.String(), result.RecordID)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.Equal(t, 6, rec.CreatedAt.Hour())

	p.assertTempDirEmpty(t)
}

func TestAnalyze_NoFile(t *testing.T) {
	p := newPipeline(t)

	_, err := p.svc.Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = p.svc.Analyze(context.Background(), &models.UploadedFile{FileName: "empty.png"})
	assert.ErrorIs(t, err, ErrNoFile)

	assert.Zero(t, p.blobs.calls)
	assert.Zero(t, p.extractor.calls)
	assert.Empty(t, p.completer.prompts)
	assert.Empty(t, p.repo.created)
}

func TestAnalyze_StorageFailureStopsPipeline(t *testing.T) {
	p := newPipeline(t)
	p.blobs.err = fmt.Errorf("failed to put object: %w", &smithy.GenericAPIError{
		Code:    "AccessDenied",
		Message: "Access Denied by policy",
	})

	_, err := p.svc.Analyze(context.Background(), &models.UploadedFile{FileName: "r.jpg", Data: []byte("jpeg-bytes")})

	var storageErr *StorageUploadError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "Access Denied by policy", storageErr.Message)

	assert.Zero(t, p.extractor.calls)
	assert.Empty(t, p.completer.prompts)
	assert.Empty(t, p.repo.created)
	p.assertTempDirEmpty(t)
}

func TestAnalyze_TempDirUnavailable(t *testing.T) {
	p := newPipeline(t)
	p.svc.tempDir = p.tempDir + "/missing"

	_, err := p.svc.Analyze(context.Background(), &models.UploadedFile{FileName: "r.png", Data: []byte{1}})

	var storageErr *StorageUploadError
	require.True(t, errors.As(err, &storageErr))
	assert.Contains(t, storageErr.Message, "failed to create temp file")
	assert.Zero(t, p.blobs.calls)
}

func TestAnalyze_ExtractionFailure(t *testing.T) {
	p := newPipeline(t)
	p.extractor.err = fmt.Errorf("%w: image: unknown format", ocr.ErrUnsupportedImage)

	_, err := p.svc.Analyze(context.Background(), &models.UploadedFile{FileName: "notes.txt", Data: []byte("plain text")})

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.ErrorIs(t, err, ocr.ErrUnsupportedImage)

	// blob is already stored, nothing after OCR ran
	assert.Equal(t, 1, p.blobs.calls)
	assert.Equal(t, "text/plain; charset=utf-8", p.blobs.contentType)
	assert.Empty(t, p.completer.prompts)
	assert.Empty(t, p.repo.created)
	p.assertTempDirEmpty(t)
}

func TestAnalyze_ModelFailuresAreSoft(t *testing.T) {
	p := newPipeline(t)
	p.completer.responses = nil
	p.completer.errs = []error{errors.New("timeout"), errors.New("status 429")}

	result, err := p.svc.Analyze(context.Background(), &models.UploadedFile{FileName: "r.png", Data: receiptPNG(t)})
	require.NoError(t, err)

	assert.Equal(t, CategorizationFallback, result.Category)
	assert.Equal(t, AdviceFallback, result.Advice)
	require.Len(t, p.completer.prompts, 2)
	assert.Contains(t, p.completer.prompts[1], "categorized as Error in categorization")

	require.Len(t, p.repo.created, 1)
	assert.Equal(t, CategorizationFallback, p.repo.created[0].Category)
	assert.Equal(t, AdviceFallback, p.repo.created[0].Advice)
}

func TestAnalyze_EmptyTextContinues(t *testing.T) {
	p := newPipeline(t)
	p.extractor.text = ""

	result, err := p.svc.Analyze(context.Background(), &models.UploadedFile{FileName: "blank.png", Data: receiptPNG(t)})
	require.NoError(t, err)

	assert.Empty(t, result.Text)
	assert.Contains(t, p.completer.prompts[0], "Classify this expense: ''")
	require.Len(t, p.repo.created, 1)
}

func TestAnalyze_CleansTextBeforePersistingAndReturning(t *testing.T) {
	p := newPipeline(t)
	p.extractor.text = "Tot\xffal\x00 $9"
	p.completer.responses = []string{"Fo\x00od", "Tip\xfe"}

	result, err := p.svc.Analyze(context.Background(), &models.UploadedFile{FileName: "r.png", Data: receiptPNG(t)})
	require.NoError(t, err)

	assert.Equal(t, "Total $9", result.Text)
	assert.Equal(t, "Food", result.Category)
	assert.Equal(t, "Tip", result.Advice)
	assert.Contains(t, p.completer.prompts[0], "'Total $9'")

	require.Len(t, p.repo.created, 1)
	rec := p.repo.created[0]
	assert.Equal(t, result.Text, rec.Text)
	assert.Equal(t, result.Category, rec.Category)
	assert.Equal(t, result.Advice, rec.Advice)
}

func TestAnalyze_DatabaseFailure(t *testing.T) {
	p := newPipeline(t)
	p.repo.err = &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}

	_, err := p.svc.Analyze(context.Background(), &models.UploadedFile{FileName: "r.png", Data: receiptPNG(t)})

	var dbErr *DatabaseError
	require.True(t, errors.As(err, &dbErr))
	assert.Equal(t, "duplicate key value violates unique constraint", dbErr.Message)

	// both completions happened and the blob stays behind
	assert.Equal(t, 1, p.blobs.calls)
	assert.Len(t, p.completer.prompts, 2)
	p.assertTempDirEmpty(t)
}

func TestAnalyze_DistinctBlobIDs(t *testing.T) {
	p := newPipeline(t)
	p.completer.responses = []string{"Food", "Tip", "Food", "Tip"}
	upload := &models.UploadedFile{FileName: "r.png", Data: receiptPNG(t)}

	first, err := p.svc.Analyze(context.Background(), upload)
	require.NoError(t, err)
	second, err := p.svc.Analyze(context.Background(), upload)
	require.NoError(t, err)

	assert.NotEqual(t, first.FileID, second.FileID)
	assert.NotEqual(t, first.RecordID, second.RecordID)
}

func TestListExpenses(t *testing.T) {
	p := newPipeline(t)
	id := uuid.New()
	p.repo.records = []*models.ExpenseRecord{{
		ID:        id,
		Text:      "Taxi",
		Category:  "Transport",
		Advice:    "Walk",
		FileID:    "proj/f",
		CreatedAt: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
	}}

	got, err := p.svc.ListExpenses(context.Background(), 0, -5)
	require.NoError(t, err)
	assert.Equal(t, [2]int{defaultListLimit, 0}, p.repo.listed)
	require.Len(t, got, 1)
	assert.Equal(t, id.String(), got[0].ID)
	assert.Equal(t, "2026-10-17T09:00:00Z", got[0].CreatedAt)

	_, err = p.svc.ListExpenses(context.Background(), 1000, 3)
	require.NoError(t, err)
	assert.Equal(t, [2]int{maxListLimit, 3}, p.repo.listed)
}

func TestListExpenses_Error(t *testing.T) {
	p := newPipeline(t)
	p.repo.err = errors.New("connection refused")

	_, err := p.svc.ListExpenses(context.Background(), 10, 0)
	var dbErr *DatabaseError
	require.True(t, errors.As(err, &dbErr))
	assert.Equal(t, "connection refused", dbErr.Message)
}
