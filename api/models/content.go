package models

import "time"

type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentPublished ContentStatus = "published"
)

type BlogPost struct {
	ID               int64
	Title            string
	Content          string
	Summary          string
	FeaturedImageURL string
	Status           ContentStatus
	MetaTitle        string
	MetaDescription  string
	URLHandle        string
	Tags             string
	Category         string
	Topic            string
	Keywords         string
	ContentType      string
	Tone             string
	TargetAudience   string
	WordCount        int
	ShopifyArticleID int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type PageContent struct {
	ID              int64
	Title           string
	Content         string
	PageType        string
	Summary         string
	MetaTitle       string
	MetaDescription string
	URLHandle       string
	CompanyName     string
	Industry        string
	Tone            string
	Published       bool
	ShopifyPageID   int64
	CreatedAt       time.Time
}
