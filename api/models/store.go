package models

import "time"

type StoreStatus string

const (
	StorePending    StoreStatus = "pending"
	StoreInProgress StoreStatus = "in_progress"
	StoreCompleted  StoreStatus = "completed"
	StoreFailed     StoreStatus = "failed"
)

// StoreSetup is one automated store build.
type StoreSetup struct {
	ID        int64
	StoreName string
	StoreURL  string
	Niche     string
	Currency  string
	Status    StoreStatus
	ThemeID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type StorePage struct {
	ID              int64
	StoreID         int64
	PageType        string
	Title           string
	Content         string
	MetaTitle       string
	MetaDescription string
	IsPublished     bool
	ShopifyPageID   int64
	CreatedAt       time.Time
}

type StoreProduct struct {
	ID               int64
	StoreID          int64
	ProductSourceID  int64
	Title            string
	Description      string
	Price            float64
	SEOTitle         string
	SEODescription   string
	Status           string
	ShopifyProductID int64
	CreatedAt        time.Time
}

// ThemeCustomization holds the palette and layout applied to a store's theme.
type ThemeCustomization struct {
	ID               int64
	StoreID          int64
	ThemeID          string
	PrimaryColor     string
	SecondaryColor   string
	FontHeading      string
	FontBody         string
	LogoPosition     string
	HeroLayout       string
	HomePageSections string
	CreatedAt        time.Time
}
