// Package agents implements the workflow runners behind the async task
// queue. Each agent reads its parameters from the task row, writes result
// rows, and reports progress through fixed milestones.
package agents

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"storeforge/api/models"
	"storeforge/worker/catalog"
)

// Progress reports a milestone percentage for the running task.
type Progress func(ctx context.Context, pct int) error

// DropshipStore is the slice of the repository the dropshipping workflows
// write to.
type DropshipStore interface {
	CreateNiche(ctx context.Context, niche *models.NicheAnalysis) error
	CreateTrend(ctx context.Context, trend *models.TrendAnalysis) error
	GetNiche(ctx context.Context, id int64) (*models.NicheAnalysis, error)
	GetTrend(ctx context.Context, id int64) (*models.TrendAnalysis, error)
	ListRecentTrends(ctx context.Context, limit int) ([]*models.TrendAnalysis, error)
	CreateProductSource(ctx context.Context, product *models.ProductSource) error
	CreateEvaluation(ctx context.Context, eval *models.ProductEvaluation) error
}

type DropshipAgent struct {
	store   DropshipStore
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewDropshipAgent(store DropshipStore, cat *catalog.Catalog, logger *zap.Logger) *DropshipAgent {
	return &DropshipAgent{
		store:   store,
		catalog: cat,
		logger:  logger,
	}
}

// DiscoverNiches evaluates market niches seeded by the submitted keyword,
// recent trend keywords, or the curated catalog. The highest-growth niche
// is the task result.
func (a *DropshipAgent) DiscoverNiches(ctx context.Context, task *models.AgentTask, advance Progress) (int64, error) {
	a.logger.Info("Niche discovery started",
		zap.String("task_id", task.ID),
		zap.String("trace_id", task.TraceID),
	)

	if err := advance(ctx, 10); err != nil {
		return 0, err
	}

	seeds, err := a.nicheSeeds(ctx, task)
	if err != nil {
		return 0, err
	}
	if err := advance(ctx, 40); err != nil {
		return 0, err
	}

	niches := a.buildNiches(seeds)
	if len(niches) == 0 {
		return 0, fmt.Errorf("no niches discovered")
	}
	for _, niche := range niches {
		if err := a.store.CreateNiche(ctx, niche); err != nil {
			return 0, fmt.Errorf("failed to save niche: %w", err)
		}
	}
	if err := advance(ctx, 70); err != nil {
		return 0, err
	}

	top := niches[0]
	for _, niche := range niches[1:] {
		if niche.GrowthPotential > top.GrowthPotential {
			top = niche
		}
	}

	a.logger.Info("Niche discovery completed",
		zap.String("task_id", task.ID),
		zap.Int("niches", len(niches)),
		zap.String("top_niche", top.Name),
	)
	return top.ID, nil
}

// nicheSeeds resolves discovery seed keywords: the submitted keyword or
// category first, then recent trend keywords. Empty means run straight off
// the catalog.
func (a *DropshipAgent) nicheSeeds(ctx context.Context, task *models.AgentTask) ([]string, error) {
	if keyword := paramString(task, "keyword"); keyword != "" {
		return []string{keyword}, nil
	}
	if category := paramString(task, "category"); category != "" {
		return []string{category}, nil
	}

	trends, err := a.store.ListRecentTrends(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent trends: %w", err)
	}
	seeds := make([]string, 0, len(trends))
	for _, trend := range trends {
		seeds = append(seeds, trend.Keyword)
	}
	return seeds, nil
}

func (a *DropshipAgent) buildNiches(seeds []string) []*models.NicheAnalysis {
	if len(seeds) == 0 {
		niches := make([]*models.NicheAnalysis, 0, len(a.catalog.Niches))
		for _, profile := range a.catalog.Niches {
			niches = append(niches, a.nicheFromProfile(profile, ""))
		}
		return niches
	}

	var niches []*models.NicheAnalysis
	for _, seed := range seeds {
		matches := a.catalog.MatchNiches(seed)
		if len(matches) == 0 {
			niches = append(niches, a.nicheFromKeyword(seed))
			continue
		}
		for _, profile := range matches {
			niches = append(niches, a.nicheFromProfile(profile, seed))
		}
	}
	return niches
}

func (a *DropshipAgent) nicheFromProfile(profile catalog.NicheProfile, seed string) *models.NicheAnalysis {
	notes := "Curated niche profile with good dropshipping potential."
	if seed != "" {
		notes = fmt.Sprintf("Matches the keyword %q and has good dropshipping potential.", seed)
	}
	return &models.NicheAnalysis{
		Name:              profile.Name,
		Description:       profile.Description,
		MainKeywords:      strings.Join(profile.Keywords, ", "),
		SearchVolume:      randRange(1000, 100000),
		CompetitionLevel:  randCompetition(),
		GrowthPotential:   round2(rand.Float64()),
		Demographics:      profile.Audience.String(),
		MarketingChannels: strings.Join(a.catalog.Channels, ", "),
		EvaluationNotes:   notes,
	}
}

func (a *DropshipAgent) nicheFromKeyword(keyword string) *models.NicheAnalysis {
	template := a.catalog.NameTemplates[rand.Intn(len(a.catalog.NameTemplates))]
	keywords := []string{keyword, keyword + " products", "best " + keyword}
	return &models.NicheAnalysis{
		Name:              fmt.Sprintf(template, titleCase(keyword)),
		Description:       fmt.Sprintf("Products related to %s, targeting consumers interested in this category.", keyword),
		MainKeywords:      strings.Join(keywords, ", "),
		SearchVolume:      randRange(1000, 100000),
		CompetitionLevel:  randCompetition(),
		GrowthPotential:   round2(rand.Float64()),
		Demographics:      a.catalog.AudienceFor(keyword).String(),
		MarketingChannels: strings.Join(a.catalog.Channels, ", "),
		EvaluationNotes:   fmt.Sprintf("Derived from the keyword %q; may have dropshipping potential.", keyword),
	}
}

// AnalyzeTrends builds keyword trend rows per source. The fastest-growing
// trend is the task result.
func (a *DropshipAgent) AnalyzeTrends(ctx context.Context, task *models.AgentTask, advance Progress) (int64, error) {
	a.logger.Info("Trend analysis started",
		zap.String("task_id", task.ID),
		zap.String("trace_id", task.TraceID),
	)

	sources := []string{"aliexpress", "amazon", "tiktok"}
	if source := paramString(task, "source"); source != "" {
		sources = []string{source}
	}

	keywords, err := a.trendKeywords(ctx, task)
	if err != nil {
		return 0, err
	}

	var trends []*models.TrendAnalysis
	for _, source := range sources {
		sourceKeywords := keywords
		if len(sourceKeywords) == 0 {
			sourceKeywords = a.catalog.SeedKeywords(source)
		}
		for _, keyword := range sourceKeywords {
			trend := &models.TrendAnalysis{
				Source:           source,
				Keyword:          keyword,
				SearchVolume:     randRange(1000, 100000),
				GrowthRate:       round2(randFloat(-10, 50)),
				CompetitionLevel: randCompetition(),
				Seasonality:      a.catalog.Seasonality(keyword),
			}
			if err := a.store.CreateTrend(ctx, trend); err != nil {
				return 0, fmt.Errorf("failed to save trend: %w", err)
			}
			trends = append(trends, trend)
		}
	}
	if len(trends) == 0 {
		return 0, fmt.Errorf("no trends analyzed")
	}
	if err := advance(ctx, 50); err != nil {
		return 0, err
	}

	top := trends[0]
	for _, trend := range trends[1:] {
		if trend.GrowthRate > top.GrowthRate {
			top = trend
		}
	}
	if err := advance(ctx, 75); err != nil {
		return 0, err
	}

	a.logger.Info("Trend analysis completed",
		zap.String("task_id", task.ID),
		zap.Int("trends", len(trends)),
		zap.String("top_keyword", top.Keyword),
	)
	return top.ID, nil
}

func (a *DropshipAgent) trendKeywords(ctx context.Context, task *models.AgentTask) ([]string, error) {
	if keyword := paramString(task, "keyword"); keyword != "" {
		return []string{keyword}, nil
	}

	nicheID := paramInt64(task, "niche_id")
	if nicheID == 0 {
		return nil, nil
	}
	niche, err := a.store.GetNiche(ctx, nicheID)
	if err != nil {
		return nil, fmt.Errorf("failed to load niche %d: %w", nicheID, err)
	}
	return splitKeywords(niche.MainKeywords), nil
}

// SourceProducts finds supplier listings for a trend and scores each one.
// The trend id is the task result so the UI can show the whole product set.
func (a *DropshipAgent) SourceProducts(ctx context.Context, task *models.AgentTask, advance Progress) (int64, error) {
	trendID := paramInt64(task, "trend_id")
	trend, err := a.store.GetTrend(ctx, trendID)
	if err != nil {
		return 0, fmt.Errorf("failed to load trend %d: %w", trendID, err)
	}

	a.logger.Info("Product sourcing started",
		zap.String("task_id", task.ID),
		zap.String("keyword", trend.Keyword),
	)
	if err := advance(ctx, 30); err != nil {
		return 0, err
	}

	count := paramInt(task, "count")
	if count <= 0 {
		count = randRange(2, 3)
	}

	slug := strings.ReplaceAll(strings.ToLower(trend.Keyword), " ", "-")
	products := make([]*models.ProductSource, 0, count)
	for i := 1; i <= count; i++ {
		price := round2(randFloat(5, 200))
		shipping := round2(randFloat(0, 30))
		product := &models.ProductSource{
			TrendID:        trend.ID,
			Name:           fmt.Sprintf("%s %d", titleCase(trend.Keyword), i),
			Description:    fmt.Sprintf("A great %s product with multiple features.", trend.Keyword),
			SourceURL:      fmt.Sprintf("https://example.com/%s/%s-%d", trend.Source, slug, i),
			SourcePlatform: trend.Source,
			Price:          price,
			ShippingCost:   shipping,
			ShippingTime:   randShippingWindow(),
			Rating:         round1(randFloat(1, 5)),
			ProfitMargin:   profitMargin(price, shipping),
			IsTrending:     true,
			IsSeasonal:     trend.Seasonality != "all-year",
			ImageURLs: strings.Join([]string{
				fmt.Sprintf("https://example.com/images/%s-%d-1.jpg", slug, i),
				fmt.Sprintf("https://example.com/images/%s-%d-2.jpg", slug, i),
			}, ", "),
		}
		if err := a.store.CreateProductSource(ctx, product); err != nil {
			return 0, fmt.Errorf("failed to save product: %w", err)
		}
		products = append(products, product)
	}
	if err := advance(ctx, 60); err != nil {
		return 0, err
	}

	for _, product := range products {
		eval := Evaluate(product, randFloat(0, 100))
		if err := a.store.CreateEvaluation(ctx, eval); err != nil {
			return 0, fmt.Errorf("failed to save evaluation: %w", err)
		}
	}
	if err := advance(ctx, 85); err != nil {
		return 0, err
	}

	a.logger.Info("Product sourcing completed",
		zap.String("task_id", task.ID),
		zap.Int64("trend_id", trend.ID),
		zap.Int("products", len(products)),
	)
	return trend.ID, nil
}

// profitMargin assumes a 2x retail markup over the landed cost.
func profitMargin(price, shipping float64) float64 {
	selling := price * 2
	profit := selling - (price + shipping)
	return round2(profit / selling * 100)
}

func splitKeywords(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func randRange(min, max int) int {
	return min + rand.Intn(max-min+1)
}

func randFloat(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

func randCompetition() string {
	levels := []string{"low", "medium", "high"}
	return levels[rand.Intn(len(levels))]
}

func randShippingWindow() string {
	windows := []string{"3-7 days", "7-14 days", "15-30 days", "30-45 days"}
	return windows[rand.Intn(len(windows))]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
