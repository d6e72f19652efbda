package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"receipt-analyzer/internal/api/handlers"
	"receipt-analyzer/internal/dto"
	"receipt-analyzer/internal/models"
	"receipt-analyzer/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, upload *models.UploadedFile) (*dto.AnalysisResult, error) {
	return &dto.AnalysisResult{Text: "t", Category: "c", Advice: "a"}, nil
}

func (stubAnalyzer) ListExpenses(ctx context.Context, limit, offset int) ([]*dto.ExpenseResponse, error) {
	return []*dto.ExpenseResponse{}, nil
}

func newTestRouter() *fiber.App {
	cfg := &config.ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second, BodyLimit: 1024}
	return SetupRouter(cfg, handlers.NewReceiptHandler(stubAnalyzer{}, zap.NewNop()), zap.NewNop())
}

func TestSetupRouter_Routes(t *testing.T) {
	app := newTestRouter()

	tests := []struct {
		method string
		target string
		status int
	}{
		{http.MethodGet, "/", fiber.StatusOK},
		{http.MethodGet, "/api/v1/receipts", fiber.StatusOK},
		{http.MethodPost, "/analyze", fiber.StatusBadRequest},
		{http.MethodPost, "/api/v1/receipts/analyze", fiber.StatusBadRequest},
		{http.MethodGet, "/nope", fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.target, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestSetupRouter_MetricsEndpoint(t *testing.T) {
	app := newTestRouter()

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{route="/",status="200"}`)
}

func TestSetupRouter_NotFoundIsJSON(t *testing.T) {
	app := newTestRouter()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}
