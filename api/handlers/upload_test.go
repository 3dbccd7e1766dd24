package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"storeforge/api/models"
	"storeforge/api/repository"
	"storeforge/api/web"
)

type mockUploadService struct {
	processFunc func(ctx context.Context, file multipart.File, filename string, dryRun bool) (*models.UploadHistory, []*models.ProductUploadResult, error)
	byIDFunc    func(ctx context.Context, id int64) (*models.UploadHistory, []*models.ProductUploadResult, error)
	recentFunc  func(ctx context.Context, limit int) ([]*models.UploadHistory, error)
}

func (m *mockUploadService) ProcessFile(ctx context.Context, file multipart.File, filename string, dryRun bool) (*models.UploadHistory, []*models.ProductUploadResult, error) {
	if m.processFunc != nil {
		return m.processFunc(ctx, file, filename, dryRun)
	}
	upload := &models.UploadHistory{
		ID:           1,
		Filename:     filename,
		FileType:     "csv",
		RecordCount:  1,
		SuccessCount: 1,
		UploadDate:   time.Now(),
	}
	results := []*models.ProductUploadResult{
		{UploadID: 1, RowNumber: 2, ProductTitle: "Walnut Desk", Status: models.UploadResultSuccess, ShopifyProductID: 99},
	}
	return upload, results, nil
}

func (m *mockUploadService) UploadByID(ctx context.Context, id int64) (*models.UploadHistory, []*models.ProductUploadResult, error) {
	if m.byIDFunc != nil {
		return m.byIDFunc(ctx, id)
	}
	return &models.UploadHistory{ID: id, Filename: "catalog.csv", FileType: "csv", UploadDate: time.Now()}, nil, nil
}

func (m *mockUploadService) RecentUploads(ctx context.Context, limit int) ([]*models.UploadHistory, error) {
	if m.recentFunc != nil {
		return m.recentFunc(ctx, limit)
	}
	return []*models.UploadHistory{}, nil
}

func newUploadHandler(t *testing.T, mock *mockUploadService) *UploadHandler {
	t.Helper()
	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("Failed to build renderer: %v", err)
	}
	return NewUploadHandler(mock, renderer, zaptest.NewLogger(t), 16<<20)
}

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestUploadHandler_Process_Success(t *testing.T) {
	handler := newUploadHandler(t, &mockUploadService{})

	body, contentType := multipartUpload(t, "file", "catalog.csv", "title,price\nWalnut Desk,249.00\n")
	req := withTrace(httptest.NewRequest("POST", "/upload", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Process(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	page := rec.Body.String()
	if !strings.Contains(page, "Walnut Desk") {
		t.Errorf("Expected row title in results page")
	}
	if !strings.Contains(page, "catalog.csv") {
		t.Errorf("Expected filename in results page")
	}
}

func TestUploadHandler_Process_NoFile(t *testing.T) {
	handler := newUploadHandler(t, &mockUploadService{})

	body, contentType := multipartUpload(t, "other", "catalog.csv", "x")
	req := withTrace(httptest.NewRequest("POST", "/upload", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Process(rec, req)

	if !strings.Contains(rec.Body.String(), "Choose a CSV or Excel file") {
		t.Errorf("Expected missing-file flash on the form page")
	}
}

func TestUploadHandler_Process_ServiceError(t *testing.T) {
	mock := &mockUploadService{
		processFunc: func(ctx context.Context, file multipart.File, filename string, dryRun bool) (*models.UploadHistory, []*models.ProductUploadResult, error) {
			return nil, nil, repository.ErrSettingsNotFound
		},
	}
	handler := newUploadHandler(t, mock)

	body, contentType := multipartUpload(t, "file", "catalog.csv", "title,price\nDesk,1.00\n")
	req := withTrace(httptest.NewRequest("POST", "/upload", body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Process(rec, req)

	if !strings.Contains(rec.Body.String(), "Upload failed") {
		t.Errorf("Expected failure flash, got page without it")
	}
}

func TestUploadHandler_Process_DryRunFlag(t *testing.T) {
	var gotDryRun bool
	mock := &mockUploadService{
		processFunc: func(ctx context.Context, file multipart.File, filename string, dryRun bool) (*models.UploadHistory, []*models.ProductUploadResult, error) {
			gotDryRun = dryRun
			return &models.UploadHistory{Filename: filename, UploadDate: time.Now()}, nil, nil
		},
	}
	handler := newUploadHandler(t, mock)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "catalog.csv")
	part.Write([]byte("title,price\nDesk,1.00\n"))
	writer.WriteField("dry_run", "1")
	writer.Close()

	req := withTrace(httptest.NewRequest("POST", "/upload", body))
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	handler.Process(rec, req)

	if !gotDryRun {
		t.Errorf("Expected dry run flag to reach the service")
	}
}

func TestUploadHandler_DetailPage_NotFound(t *testing.T) {
	mock := &mockUploadService{
		byIDFunc: func(ctx context.Context, id int64) (*models.UploadHistory, []*models.ProductUploadResult, error) {
			return nil, nil, repository.ErrNotFound
		},
	}
	handler := newUploadHandler(t, mock)

	req := withTrace(httptest.NewRequest("GET", "/uploads/42", nil))
	rec := httptest.NewRecorder()

	handler.DetailPage(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestUploadHandler_HistoryPage(t *testing.T) {
	mock := &mockUploadService{
		recentFunc: func(ctx context.Context, limit int) ([]*models.UploadHistory, error) {
			return []*models.UploadHistory{
				{ID: 1, Filename: "spring.xlsx", FileType: "xlsx", RecordCount: 12, SuccessCount: 11, ErrorCount: 1, UploadDate: time.Now()},
			}, nil
		},
	}
	handler := newUploadHandler(t, mock)

	req := withTrace(httptest.NewRequest("GET", "/uploads", nil))
	rec := httptest.NewRecorder()

	handler.HistoryPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "spring.xlsx") {
		t.Errorf("Expected upload filename in history page")
	}
}
