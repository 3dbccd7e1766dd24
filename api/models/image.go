package models

import "time"

type BatchSource string

const (
	BatchSourceUpload BatchSource = "upload"
	BatchSourceURL    BatchSource = "url"
)

// ImageBatch groups one caption generation run over a set of images.
type ImageBatch struct {
	ID             int64
	Name           string
	SourceType     BatchSource
	ExportFormat   string
	Status         TaskStatus
	ProcessedCount int
	TotalCount     int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ImageItem struct {
	ID                  int64
	BatchID             int64
	Filename            string
	URL                 string
	AltText             string
	Caption             string
	Tags                string
	DetailedDescription string
	SEOKeywords         string
	Status              TaskStatus
	ErrorMessage        string
	ProcessedAt         *time.Time
}
