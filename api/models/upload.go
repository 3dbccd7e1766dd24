package models

import "time"

// UploadHistory summarizes one product file upload run.
type UploadHistory struct {
	ID           int64
	Filename     string
	FileType     string
	RecordCount  int
	SuccessCount int
	ErrorCount   int
	UploadDate   time.Time
}

type UploadResultStatus string

const (
	UploadResultSuccess UploadResultStatus = "success"
	UploadResultError   UploadResultStatus = "error"
)

// ProductUploadResult records the outcome of one data row. RowNumber is the
// spreadsheet row (header is row 1, first data row is 2).
type ProductUploadResult struct {
	ID               int64
	UploadID         int64
	ShopifyProductID int64
	ProductTitle     string
	Status           UploadResultStatus
	Message          string
	RowNumber        int
	CreatedAt        time.Time
}
