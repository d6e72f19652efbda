package handlers

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"

	"receipt-analyzer/internal/dto"
	"receipt-analyzer/internal/models"
	"receipt-analyzer/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FormField is the multipart field the receipt image is sent in.
const FormField = "receipt"

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// ReceiptAnalyzer is implemented by *service.AnalysisService.
type ReceiptAnalyzer interface {
	Analyze(ctx context.Context, upload *models.UploadedFile) (*dto.AnalysisResult, error)
	ListExpenses(ctx context.Context, limit, offset int) ([]*dto.ExpenseResponse, error)
}

type ReceiptHandler struct {
	analyzer ReceiptAnalyzer
	logger   *zap.Logger
}

func NewReceiptHandler(analyzer ReceiptAnalyzer, logger *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// Home godoc
// @Summary Upload page
// @Description HTML page with the receipt upload form
// @Tags web
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router / [get]
func (h *ReceiptHandler) Home(c *fiber.Ctx) error {
	return h.render(c, nil)
}

// Analyze godoc
// @Summary Analyze a receipt (HTML)
// @Description Store the image, extract text, categorize it and suggest saving tips. Renders the upload page with the result.
// @Tags web
// @Accept multipart/form-data
// @Produce html
// @Param receipt formData file true "Receipt image"
// @Success 200 {string} string "HTML page with the result"
// @Failure 400 {string} string "No file uploaded"
// @Failure 500 {string} string "Storage upload error / Text extraction error / Database error"
// @Router /analyze [post]
func (h *ReceiptHandler) Analyze(c *fiber.Ctx) error {
	result, err := h.analyze(c)
	if err != nil {
		status, message := errorResponse(err)
		return c.Status(status).SendString(message)
	}

	return h.render(c, result)
}

// AnalyzeJSON godoc
// @Summary Analyze a receipt
// @Description Store the image, extract text, categorize it and suggest saving tips
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param receipt formData file true "Receipt image"
// @Success 201 {object} dto.AnalysisResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/receipts/analyze [post]
func (h *ReceiptHandler) AnalyzeJSON(c *fiber.Ctx) error {
	result, err := h.analyze(c)
	if err != nil {
		status, message := errorResponse(err)
		return c.Status(status).JSON(dto.ErrorResponse{Error: message})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AnalysisResponse{
		ID:       result.RecordID,
		FileID:   result.FileID,
		Text:     result.Text,
		Category: result.Category,
		Advice:   result.Advice,
	})
}

// ListExpenses godoc
// @Summary List analyzed receipts
// @Description Stored expense records, newest first
// @Tags receipts
// @Produce json
// @Param limit query int false "Limit" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.ExpenseResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/receipts [get]
func (h *ReceiptHandler) ListExpenses(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	expenses, err := h.analyzer.ListExpenses(c.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list expenses", zap.Error(err))
		status, message := errorResponse(err)
		return c.Status(status).JSON(dto.ErrorResponse{Error: message})
	}

	return c.JSON(expenses)
}

func (h *ReceiptHandler) analyze(c *fiber.Ctx) (*dto.AnalysisResult, error) {
	upload, err := readUpload(c)
	if err != nil {
		if !errors.Is(err, service.ErrNoFile) {
			h.logger.Error("Failed to read upload", zap.Error(err))
		}
		return nil, err
	}

	result, err := h.analyzer.Analyze(c.Context(), upload)
	if err != nil {
		h.logger.Error("Failed to analyze receipt",
			zap.String("file", upload.FileName),
			zap.Error(err),
		)
		return nil, err
	}

	return result, nil
}

func (h *ReceiptHandler) render(c *fiber.Ctx, result *dto.AnalysisResult) error {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, result); err != nil {
		h.logger.Error("Failed to render page", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to render page")
	}

	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// readUpload pulls the receipt out of the multipart form. A missing field,
// a non-multipart body and an empty file all count as no file.
func readUpload(c *fiber.Ctx) (*models.UploadedFile, error) {
	fh, err := c.FormFile(FormField)
	if err != nil {
		return nil, service.ErrNoFile
	}

	return readFileHeader(fh)
}

// readFileHeader fails with a plain error when the part cannot be read back;
// that is a server fault, not a missing upload.
func readFileHeader(fh *multipart.FileHeader) (*models.UploadedFile, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) == 0 {
		return nil, service.ErrNoFile
	}

	return &models.UploadedFile{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func errorResponse(err error) (int, string) {
	var (
		storageErr    *service.StorageUploadError
		extractionErr *service.ExtractionError
		databaseErr   *service.DatabaseError
	)

	switch {
	case errors.Is(err, service.ErrNoFile):
		return fiber.StatusBadRequest, "No file uploaded"
	case errors.As(err, &storageErr):
		return fiber.StatusInternalServerError, "Storage upload error: " + storageErr.Message
	case errors.As(err, &extractionErr):
		return fiber.StatusInternalServerError, "Text extraction error: " + extractionErr.Message
	case errors.As(err, &databaseErr):
		return fiber.StatusInternalServerError, "Database error: " + databaseErr.Message
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}
