package models

import "time"

// ShopifySettings holds Admin API credentials for one store. A single row is
// active at a time.
type ShopifySettings struct {
	ID         int64
	APIKey     string
	Password   string
	StoreURL   string
	APIVersion string
	IsActive   bool
	CreatedAt  time.Time
	LastUsedAt *time.Time
}

type AIProvider string

const (
	ProviderOpenAI AIProvider = "openai"
	ProviderGrok   AIProvider = "grok"
)

type AISettings struct {
	ID         int64
	Provider   AIProvider
	APIKey     string
	IsActive   bool
	CreatedAt  time.Time
	LastUsedAt *time.Time
}
