package service

import (
	"context"
	"errors"
	"fmt"

	"storeforge/api/ai"
	"storeforge/api/dto"
	"storeforge/api/models"
	"storeforge/api/repository"
	"storeforge/api/shopify"
)

// SettingsService stores credentials and hands out configured clients.
// AI keys saved in settings win over the environment fallbacks.
type SettingsService struct {
	repo      repository.SettingsRepository
	openAIKey string
	xaiKey    string
}

func NewSettingsService(repo repository.SettingsRepository, openAIKey, xaiKey string) *SettingsService {
	return &SettingsService{repo: repo, openAIKey: openAIKey, xaiKey: xaiKey}
}

func (s *SettingsService) ActiveShopify(ctx context.Context) (*models.ShopifySettings, error) {
	return s.repo.ActiveShopifySettings(ctx)
}

// SaveShopify verifies the credentials against the store before persisting
// them, and returns the shop name the check came back with.
func (s *SettingsService) SaveShopify(ctx context.Context, settings *models.ShopifySettings) (string, error) {
	client, err := shopify.NewClient(settings)
	if err != nil {
		return "", err
	}

	name, err := client.TestConnection(ctx)
	if err != nil {
		return "", fmt.Errorf("shopify connection check: %w", err)
	}

	if err := s.repo.SaveShopifySettings(ctx, settings); err != nil {
		return "", err
	}
	return name, nil
}

func (s *SettingsService) ActiveAI(ctx context.Context) (*models.AISettings, error) {
	return s.repo.ActiveAISettings(ctx)
}

func (s *SettingsService) SaveAI(ctx context.Context, provider models.AIProvider, apiKey string) error {
	if provider != models.ProviderOpenAI && provider != models.ProviderGrok {
		return fmt.Errorf("%w: provider", dto.ErrMissingParameter)
	}
	if apiKey == "" {
		return fmt.Errorf("%w: api_key", dto.ErrMissingParameter)
	}
	return s.repo.SaveAISettings(ctx, &models.AISettings{Provider: provider, APIKey: apiKey})
}

// ShopifyClient builds a client from the active settings and records the
// use.
func (s *SettingsService) ShopifyClient(ctx context.Context) (*shopify.Client, error) {
	settings, err := s.repo.ActiveShopifySettings(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return nil, dto.ErrNoActiveSettings
		}
		return nil, err
	}

	client, err := shopify.NewClient(settings)
	if err != nil {
		return nil, err
	}

	s.repo.TouchShopifySettings(ctx, settings.ID)
	return client, nil
}

// AIClient prefers the saved provider key and falls back to keys from the
// environment.
func (s *SettingsService) AIClient(ctx context.Context) (ai.Client, error) {
	settings, err := s.repo.ActiveAISettings(ctx)
	if err == nil {
		return ai.New(settings.Provider, settings.APIKey)
	}
	if !errors.Is(err, repository.ErrSettingsNotFound) {
		return nil, err
	}

	switch {
	case s.openAIKey != "":
		return ai.New(models.ProviderOpenAI, s.openAIKey)
	case s.xaiKey != "":
		return ai.New(models.ProviderGrok, s.xaiKey)
	default:
		return nil, dto.ErrNoActiveSettings
	}
}
