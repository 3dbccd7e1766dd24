package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"storeforge/api/models"
	"storeforge/api/parser"
	"storeforge/api/repository"
	"storeforge/api/shopify"
	"storeforge/api/validation"
)

// UploadService turns a product spreadsheet into store products, recording
// a per-row outcome for the results page.
type UploadService struct {
	repo     repository.UploadRepository
	settings *SettingsService
}

func NewUploadService(repo repository.UploadRepository, settings *SettingsService) *UploadService {
	return &UploadService{repo: repo, settings: settings}
}

// ProcessFile validates and imports one file. With dryRun set, rows are
// checked and recorded but nothing reaches Shopify.
func (s *UploadService) ProcessFile(ctx context.Context, file multipart.File, filename string, dryRun bool) (*models.UploadHistory, []*models.ProductUploadResult, error) {
	fileType, err := validation.DetectFileType(file)
	if err != nil {
		return nil, nil, err
	}
	if !validation.IsAllowedDataType(fileType) {
		return nil, nil, fmt.Errorf("%w: %s", validation.ErrUnsupportedFormat, fileType)
	}

	headers, rows, err := parser.ParseFile(filename, file)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, validation.ErrNoDataRows
	}
	if err := validation.ValidateHeaders(headers); err != nil {
		return nil, nil, err
	}

	var client *shopify.Client
	if !dryRun {
		if client, err = s.settings.ShopifyClient(ctx); err != nil {
			return nil, nil, err
		}
	}

	rowProblems := groupRowErrors(validation.ValidateRows(rows))

	upload := &models.UploadHistory{
		Filename:    filename,
		FileType:    string(fileType),
		RecordCount: len(rows),
	}
	if err := s.repo.CreateUpload(ctx, upload); err != nil {
		return nil, nil, err
	}

	results := make([]*models.ProductUploadResult, 0, len(rows))
	var successCount, errorCount int

	for i, row := range rows {
		rowNum := i + 2
		result := &models.ProductUploadResult{
			UploadID:     upload.ID,
			RowNumber:    rowNum,
			ProductTitle: row["title"],
		}

		switch {
		case rowProblems[rowNum] != "":
			result.Status = models.UploadResultError
			result.Message = rowProblems[rowNum]
		case dryRun:
			result.Status = models.UploadResultSuccess
			result.Message = "validated, not pushed"
		default:
			productID, pushErr := client.CreateProduct(ctx, shopify.BuildProductFromRow(row))
			if pushErr != nil {
				result.Status = models.UploadResultError
				result.Message = pushErr.Error()
			} else {
				result.Status = models.UploadResultSuccess
				result.ShopifyProductID = productID
			}
		}

		if result.Status == models.UploadResultSuccess {
			successCount++
		} else {
			errorCount++
		}

		if err := s.repo.AddUploadResult(ctx, result); err != nil {
			return nil, nil, err
		}
		results = append(results, result)
	}

	if err := s.repo.FinishUpload(ctx, upload.ID, successCount, errorCount); err != nil {
		return nil, nil, err
	}
	upload.SuccessCount = successCount
	upload.ErrorCount = errorCount

	return upload, results, nil
}

func groupRowErrors(errs []validation.RowError) map[int]string {
	grouped := make(map[int][]string)
	for _, e := range errs {
		grouped[e.Row] = append(grouped[e.Row], e.Message)
	}

	messages := make(map[int]string, len(grouped))
	for row, list := range grouped {
		messages[row] = strings.Join(list, "; ")
	}
	return messages
}

func (s *UploadService) UploadByID(ctx context.Context, id int64) (*models.UploadHistory, []*models.ProductUploadResult, error) {
	upload, err := s.repo.GetUpload(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	results, err := s.repo.ListUploadResults(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return upload, results, nil
}

func (s *UploadService) RecentUploads(ctx context.Context, limit int) ([]*models.UploadHistory, error) {
	return s.repo.ListUploads(ctx, limit)
}
