package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"storeforge/api/models"
	"storeforge/worker/agents"
	"storeforge/worker/cache"
	"storeforge/worker/catalog"
	"storeforge/worker/kafka"
	"storeforge/worker/repository"
)

type completion struct {
	resultType string
	resultID   int64
}

// fakeRepo is an in-memory repository. IDs are assigned the way the real
// INSERT ... RETURNING queries do.
type fakeRepo struct {
	task *models.AgentTask

	statuses    []models.TaskStatus
	progressLog []int
	completed   *completion
	failMsg     string

	niches        []*models.NicheAnalysis
	trends        []*models.TrendAnalysis
	products      []*models.ProductSource
	evals         []*models.ProductEvaluation
	stores        []*models.StoreSetup
	themes        []*models.ThemeCustomization
	pages         []*models.StorePage
	storeProducts []*models.StoreProduct
	storeStatuses []models.StoreStatus

	seq int64
}

func (f *fakeRepo) nextID() int64 {
	f.seq++
	return f.seq
}

func (f *fakeRepo) GetTask(_ context.Context, taskID string) (*models.AgentTask, error) {
	if f.task == nil || f.task.ID != taskID {
		return nil, repository.ErrTaskNotFound
	}
	return f.task, nil
}

func (f *fakeRepo) UpdateTaskStatus(_ context.Context, _ string, status models.TaskStatus) error {
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeRepo) UpdateProgress(_ context.Context, _ string, progress int) error {
	f.progressLog = append(f.progressLog, progress)
	return nil
}

func (f *fakeRepo) CompleteTask(_ context.Context, _ string, resultType string, resultID int64) error {
	f.completed = &completion{resultType: resultType, resultID: resultID}
	return nil
}

func (f *fakeRepo) FailTask(_ context.Context, _ string, errMsg string) error {
	f.failMsg = errMsg
	return nil
}

func (f *fakeRepo) CreateNiche(_ context.Context, niche *models.NicheAnalysis) error {
	niche.ID = f.nextID()
	f.niches = append(f.niches, niche)
	return nil
}

func (f *fakeRepo) CreateTrend(_ context.Context, trend *models.TrendAnalysis) error {
	trend.ID = f.nextID()
	f.trends = append(f.trends, trend)
	return nil
}

func (f *fakeRepo) GetNiche(_ context.Context, id int64) (*models.NicheAnalysis, error) {
	for _, niche := range f.niches {
		if niche.ID == id {
			return niche, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) GetTrend(_ context.Context, id int64) (*models.TrendAnalysis, error) {
	for _, trend := range f.trends {
		if trend.ID == id {
			return trend, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) ListRecentTrends(_ context.Context, limit int) ([]*models.TrendAnalysis, error) {
	if len(f.trends) > limit {
		return f.trends[:limit], nil
	}
	return f.trends, nil
}

func (f *fakeRepo) CreateProductSource(_ context.Context, product *models.ProductSource) error {
	product.ID = f.nextID()
	f.products = append(f.products, product)
	return nil
}

func (f *fakeRepo) CreateEvaluation(_ context.Context, eval *models.ProductEvaluation) error {
	eval.ID = f.nextID()
	f.evals = append(f.evals, eval)
	return nil
}

func (f *fakeRepo) ListProductsByTrend(_ context.Context, trendID int64) ([]*models.ProductSource, error) {
	var out []*models.ProductSource
	for _, product := range f.products {
		if product.TrendID == trendID {
			out = append(out, product)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateStore(_ context.Context, store *models.StoreSetup) error {
	store.ID = f.nextID()
	f.stores = append(f.stores, store)
	return nil
}

func (f *fakeRepo) UpdateStoreStatus(_ context.Context, storeID int64, status models.StoreStatus) error {
	f.storeStatuses = append(f.storeStatuses, status)
	for _, store := range f.stores {
		if store.ID == storeID {
			store.Status = status
		}
	}
	return nil
}

func (f *fakeRepo) SetStoreTheme(_ context.Context, storeID int64, themeID string) error {
	for _, store := range f.stores {
		if store.ID == storeID {
			store.ThemeID = themeID
		}
	}
	return nil
}

func (f *fakeRepo) CreateTheme(_ context.Context, theme *models.ThemeCustomization) error {
	theme.ID = f.nextID()
	f.themes = append(f.themes, theme)
	return nil
}

func (f *fakeRepo) CreateStorePage(_ context.Context, page *models.StorePage) error {
	page.ID = f.nextID()
	f.pages = append(f.pages, page)
	return nil
}

func (f *fakeRepo) ListStorePages(_ context.Context, storeID int64) ([]*models.StorePage, error) {
	var out []*models.StorePage
	for _, page := range f.pages {
		if page.StoreID == storeID {
			out = append(out, page)
		}
	}
	return out, nil
}

func (f *fakeRepo) PublishStorePage(_ context.Context, pageID, shopifyPageID int64) error {
	for _, page := range f.pages {
		if page.ID == pageID {
			page.IsPublished = true
			page.ShopifyPageID = shopifyPageID
		}
	}
	return nil
}

func (f *fakeRepo) CreateStoreProduct(_ context.Context, product *models.StoreProduct) error {
	product.ID = f.nextID()
	f.storeProducts = append(f.storeProducts, product)
	return nil
}

func (f *fakeRepo) ListDraftStoreProducts(_ context.Context, storeID int64) ([]*models.StoreProduct, error) {
	var out []*models.StoreProduct
	for _, product := range f.storeProducts {
		if product.StoreID == storeID && product.Status == "draft" {
			out = append(out, product)
		}
	}
	return out, nil
}

func (f *fakeRepo) PublishStoreProduct(_ context.Context, productID, shopifyProductID int64) error {
	for _, product := range f.storeProducts {
		if product.ID == productID {
			product.Status = "active"
			product.ShopifyProductID = shopifyProductID
		}
	}
	return nil
}

type mockMirror struct {
	snaps  []*cache.TaskSnapshot
	setErr error
}

func (m *mockMirror) Set(_ context.Context, _ string, snap *cache.TaskSnapshot) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.snaps = append(m.snaps, snap)
	return nil
}

func (m *mockMirror) last() *cache.TaskSnapshot {
	if len(m.snaps) == 0 {
		return nil
	}
	return m.snaps[len(m.snaps)-1]
}

func newTestProcessor(t *testing.T, repo *fakeRepo, mirror *mockMirror) *Processor {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	logger := zaptest.NewLogger(t)
	dropship := agents.NewDropshipAgent(repo, cat, logger)
	stores := agents.NewStoreAgent(repo, cat, logger)
	return NewProcessor(repo, mirror, dropship, stores, logger)
}

func newTask(taskType models.TaskType, params map[string]any) *models.AgentTask {
	now := time.Now()
	return &models.AgentTask{
		ID:         "task-1",
		TraceID:    "trace-1",
		TaskType:   taskType,
		Status:     models.StatusPending,
		Parameters: params,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func taskMsg(task *models.AgentTask) *kafka.TaskMessage {
	return &kafka.TaskMessage{
		TaskID:   task.ID,
		TraceID:  task.TraceID,
		TaskType: string(task.TaskType),
	}
}

func TestProcess_NicheDiscovery(t *testing.T) {
	repo := &fakeRepo{task: newTask(models.TaskNicheDiscovery, map[string]any{"keyword": "pet grooming"})}
	mirror := &mockMirror{}
	p := newTestProcessor(t, repo, mirror)

	if err := p.Process(context.Background(), taskMsg(repo.task)); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	wantStatuses := []models.TaskStatus{models.StatusProcessing, models.StatusRunning}
	if !reflect.DeepEqual(repo.statuses, wantStatuses) {
		t.Errorf("statuses = %v, want %v", repo.statuses, wantStatuses)
	}
	if want := []int{10, 40, 70}; !reflect.DeepEqual(repo.progressLog, want) {
		t.Errorf("progress milestones = %v, want %v", repo.progressLog, want)
	}
	if len(repo.niches) == 0 {
		t.Fatal("expected niches to be saved")
	}
	if repo.completed == nil {
		t.Fatal("task was not completed")
	}
	if repo.completed.resultType != "niche_discovery" {
		t.Errorf("result type = %q, want niche_discovery", repo.completed.resultType)
	}

	top := repo.niches[0]
	for _, niche := range repo.niches[1:] {
		if niche.GrowthPotential > top.GrowthPotential {
			top = niche
		}
	}
	if repo.completed.resultID != top.ID {
		t.Errorf("result id = %d, want top niche %d", repo.completed.resultID, top.ID)
	}

	last := mirror.last()
	if last == nil {
		t.Fatal("no snapshots mirrored")
	}
	if last.Status != models.StatusCompleted || last.Progress != 100 {
		t.Errorf("last snapshot = %+v, want completed at 100", last)
	}
	if last.ResultType != "niche_discovery" || last.ResultID != top.ID {
		t.Errorf("last snapshot result = %s/%d, want niche_discovery/%d", last.ResultType, last.ResultID, top.ID)
	}
}

func TestProcess_TrendAnalysis(t *testing.T) {
	repo := &fakeRepo{task: newTask(models.TaskTrendAnalysis, map[string]any{"keyword": "wireless earbuds"})}
	mirror := &mockMirror{}
	p := newTestProcessor(t, repo, mirror)

	if err := p.Process(context.Background(), taskMsg(repo.task)); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if len(repo.trends) != 3 {
		t.Fatalf("trends saved = %d, want one per source", len(repo.trends))
	}
	for _, trend := range repo.trends {
		if trend.Keyword != "wireless earbuds" {
			t.Errorf("trend keyword = %q, want wireless earbuds", trend.Keyword)
		}
	}
	if want := []int{50, 75}; !reflect.DeepEqual(repo.progressLog, want) {
		t.Errorf("progress milestones = %v, want %v", repo.progressLog, want)
	}

	top := repo.trends[0]
	for _, trend := range repo.trends[1:] {
		if trend.GrowthRate > top.GrowthRate {
			top = trend
		}
	}
	if repo.completed == nil || repo.completed.resultID != top.ID {
		t.Fatalf("completed = %+v, want top trend %d", repo.completed, top.ID)
	}
	if repo.completed.resultType != "trend_analysis" {
		t.Errorf("result type = %q, want trend_analysis", repo.completed.resultType)
	}
}

func TestProcess_ProductSourcing(t *testing.T) {
	repo := &fakeRepo{}
	trend := &models.TrendAnalysis{Source: "amazon", Keyword: "desk lamps", Seasonality: "all-year"}
	if err := repo.CreateTrend(context.Background(), trend); err != nil {
		t.Fatalf("seed trend: %v", err)
	}
	repo.task = newTask(models.TaskProductSourcing, map[string]any{"trend_id": trend.ID, "count": 2})
	mirror := &mockMirror{}
	p := newTestProcessor(t, repo, mirror)

	if err := p.Process(context.Background(), taskMsg(repo.task)); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if len(repo.products) != 2 {
		t.Fatalf("products saved = %d, want 2", len(repo.products))
	}
	if len(repo.evals) != 2 {
		t.Fatalf("evaluations saved = %d, want 2", len(repo.evals))
	}
	for i, eval := range repo.evals {
		if eval.ProductID != repo.products[i].ID {
			t.Errorf("evaluation %d product id = %d, want %d", i, eval.ProductID, repo.products[i].ID)
		}
		if eval.Recommendation == "" {
			t.Errorf("evaluation %d has no recommendation", i)
		}
	}
	if want := []int{30, 60, 85}; !reflect.DeepEqual(repo.progressLog, want) {
		t.Errorf("progress milestones = %v, want %v", repo.progressLog, want)
	}
	if repo.completed == nil || repo.completed.resultID != trend.ID {
		t.Fatalf("completed = %+v, want trend %d", repo.completed, trend.ID)
	}
	if repo.completed.resultType != "product_sourcing" {
		t.Errorf("result type = %q, want product_sourcing", repo.completed.resultType)
	}
}

func TestProcess_StoreSetup(t *testing.T) {
	repo := &fakeRepo{task: newTask(models.TaskStoreSetup, map[string]any{
		"store_name": "Lamp Loft",
		"niche":      "home lighting",
	})}
	mirror := &mockMirror{}
	p := newTestProcessor(t, repo, mirror)

	if err := p.Process(context.Background(), taskMsg(repo.task)); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if len(repo.stores) != 1 {
		t.Fatalf("stores saved = %d, want 1", len(repo.stores))
	}
	store := repo.stores[0]
	if store.StoreURL != "https://lamp-loft.myshopify.com" {
		t.Errorf("store url = %q", store.StoreURL)
	}
	if store.Status != models.StoreCompleted {
		t.Errorf("store status = %q, want completed", store.Status)
	}
	if store.ThemeID == "" {
		t.Error("store has no theme applied")
	}
	if len(repo.themes) != 1 {
		t.Errorf("themes saved = %d, want 1", len(repo.themes))
	}

	if len(repo.pages) != 5 {
		t.Fatalf("pages saved = %d, want 5", len(repo.pages))
	}
	for _, page := range repo.pages {
		if !page.IsPublished || page.ShopifyPageID == 0 {
			t.Errorf("page %q not published", page.PageType)
		}
	}

	wantStoreStatuses := []models.StoreStatus{models.StoreInProgress, models.StoreCompleted}
	if !reflect.DeepEqual(repo.storeStatuses, wantStoreStatuses) {
		t.Errorf("store statuses = %v, want %v", repo.storeStatuses, wantStoreStatuses)
	}
	if want := []int{10, 15, 20, 40, 70, 90}; !reflect.DeepEqual(repo.progressLog, want) {
		t.Errorf("progress milestones = %v, want %v", repo.progressLog, want)
	}
	if repo.completed == nil || repo.completed.resultID != store.ID {
		t.Fatalf("completed = %+v, want store %d", repo.completed, store.ID)
	}
	if repo.completed.resultType != "store_setup" {
		t.Errorf("result type = %q, want store_setup", repo.completed.resultType)
	}
}

func TestProcess_StoreFromNiche(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	niche := &models.NicheAnalysis{Name: "Pet Grooming Tools", MainKeywords: "pet grooming, dog brushes"}
	if err := repo.CreateNiche(ctx, niche); err != nil {
		t.Fatalf("seed niche: %v", err)
	}
	trend := &models.TrendAnalysis{Source: "amazon", Keyword: "pet grooming", Seasonality: "all-year"}
	if err := repo.CreateTrend(ctx, trend); err != nil {
		t.Fatalf("seed trend: %v", err)
	}
	for i := 0; i < 2; i++ {
		product := &models.ProductSource{
			TrendID:     trend.ID,
			Name:        "Grooming Kit",
			Description: "Clipper and brush set.",
			Price:       24.99,
		}
		if err := repo.CreateProductSource(ctx, product); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}
	repo.task = newTask(models.TaskStoreFromNiche, map[string]any{
		"niche_id": niche.ID,
		"trend_id": trend.ID,
	})
	mirror := &mockMirror{}
	p := newTestProcessor(t, repo, mirror)

	if err := p.Process(ctx, taskMsg(repo.task)); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if len(repo.stores) != 1 {
		t.Fatalf("stores saved = %d, want 1", len(repo.stores))
	}
	store := repo.stores[0]
	if store.StoreName != "Pet Grooming Tools Store" {
		t.Errorf("store name = %q", store.StoreName)
	}
	if store.Status != models.StoreCompleted {
		t.Errorf("store status = %q, want completed", store.Status)
	}

	if len(repo.storeProducts) != 2 {
		t.Fatalf("store products = %d, want 2", len(repo.storeProducts))
	}
	for _, product := range repo.storeProducts {
		if product.Status != "active" || product.ShopifyProductID == 0 {
			t.Errorf("store product %q not published: %+v", product.Title, product)
		}
	}
	if len(repo.pages) != 5 {
		t.Errorf("pages saved = %d, want 5", len(repo.pages))
	}

	if want := []int{20, 40, 60, 80}; !reflect.DeepEqual(repo.progressLog, want) {
		t.Errorf("progress milestones = %v, want %v", repo.progressLog, want)
	}
	if repo.completed == nil || repo.completed.resultID != store.ID {
		t.Fatalf("completed = %+v, want store %d", repo.completed, store.ID)
	}
	if repo.completed.resultType != "store_from_niche" {
		t.Errorf("result type = %q, want store_from_niche", repo.completed.resultType)
	}
}

func TestProcess_MissingTrendFailsTask(t *testing.T) {
	repo := &fakeRepo{task: newTask(models.TaskProductSourcing, map[string]any{"trend_id": 99})}
	mirror := &mockMirror{}
	p := newTestProcessor(t, repo, mirror)

	err := p.Process(context.Background(), taskMsg(repo.task))
	if err == nil {
		t.Fatal("expected error for missing trend")
	}
	if repo.completed != nil {
		t.Errorf("task completed despite error: %+v", repo.completed)
	}
	if !strings.Contains(repo.failMsg, "failed to load trend 99") {
		t.Errorf("fail message = %q", repo.failMsg)
	}

	last := mirror.last()
	if last == nil {
		t.Fatal("no snapshots mirrored")
	}
	if last.Status != models.StatusFailed {
		t.Errorf("last snapshot = %+v, want failed", last)
	}
	if last.Error == "" {
		t.Error("failed snapshot carries no error")
	}
}

func TestProcess_UnknownTaskType(t *testing.T) {
	repo := &fakeRepo{task: newTask(models.TaskType("deep_sea_mining"), nil)}
	mirror := &mockMirror{}
	p := newTestProcessor(t, repo, mirror)

	err := p.Process(context.Background(), taskMsg(repo.task))
	if err == nil {
		t.Fatal("expected error for unknown task type")
	}
	if !strings.Contains(repo.failMsg, "unknown task type") {
		t.Errorf("fail message = %q", repo.failMsg)
	}
}

func TestProcess_SkipsTerminalTask(t *testing.T) {
	task := newTask(models.TaskNicheDiscovery, nil)
	task.Status = models.StatusCompleted
	repo := &fakeRepo{task: task}
	mirror := &mockMirror{}
	p := newTestProcessor(t, repo, mirror)

	if err := p.Process(context.Background(), taskMsg(task)); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(repo.statuses) != 0 {
		t.Errorf("statuses touched on terminal task: %v", repo.statuses)
	}
	if len(mirror.snaps) != 0 {
		t.Errorf("cache touched on terminal task: %d snapshots", len(mirror.snaps))
	}
}

func TestProcess_TaskNotFound(t *testing.T) {
	repo := &fakeRepo{}
	mirror := &mockMirror{}
	p := newTestProcessor(t, repo, mirror)

	err := p.Process(context.Background(), &kafka.TaskMessage{TaskID: "missing", TaskType: "niche_discovery"})
	if !errors.Is(err, repository.ErrTaskNotFound) {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestProcess_CacheFailureDoesNotFailTask(t *testing.T) {
	repo := &fakeRepo{task: newTask(models.TaskNicheDiscovery, map[string]any{"keyword": "yoga mats"})}
	mirror := &mockMirror{setErr: errors.New("redis down")}
	p := newTestProcessor(t, repo, mirror)

	if err := p.Process(context.Background(), taskMsg(repo.task)); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if repo.completed == nil {
		t.Fatal("task did not complete with cache down")
	}
}

func TestProcess_SnapshotsCarryTaskIdentity(t *testing.T) {
	repo := &fakeRepo{task: newTask(models.TaskNicheDiscovery, map[string]any{"keyword": "pet grooming"})}
	mirror := &mockMirror{}
	p := newTestProcessor(t, repo, mirror)

	if err := p.Process(context.Background(), taskMsg(repo.task)); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if len(mirror.snaps) == 0 {
		t.Fatal("no snapshots mirrored")
	}
	for i, snap := range mirror.snaps {
		if snap.TaskType != string(models.TaskNicheDiscovery) {
			t.Errorf("snapshot %d task type = %q, want niche_discovery", i, snap.TaskType)
		}
		if !snap.CreatedAt.Equal(repo.task.CreatedAt) {
			t.Errorf("snapshot %d created at = %v, want %v", i, snap.CreatedAt, repo.task.CreatedAt)
		}
	}
}

func TestProcess_FailedSnapshotCarriesTaskIdentity(t *testing.T) {
	repo := &fakeRepo{task: newTask(models.TaskProductSourcing, map[string]any{"trend_id": 99})}
	mirror := &mockMirror{}
	p := newTestProcessor(t, repo, mirror)

	if err := p.Process(context.Background(), taskMsg(repo.task)); err == nil {
		t.Fatal("expected error for missing trend")
	}

	last := mirror.last()
	if last == nil {
		t.Fatal("no snapshots mirrored")
	}
	if last.TaskType != string(models.TaskProductSourcing) {
		t.Errorf("failed snapshot task type = %q, want product_sourcing", last.TaskType)
	}
	if !last.CreatedAt.Equal(repo.task.CreatedAt) {
		t.Errorf("failed snapshot created at = %v, want %v", last.CreatedAt, repo.task.CreatedAt)
	}
}
