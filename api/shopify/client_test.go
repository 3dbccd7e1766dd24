package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storeforge/api/models"
)

func testSettings(serverURL string) *models.ShopifySettings {
	return &models.ShopifySettings{
		APIKey:     "test-key",
		Password:   "test-pass",
		StoreURL:   serverURL,
		APIVersion: "2023-10",
	}
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(testSettings(serverURL))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	client.minInterval = 0
	client.limitPause = 0
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("NewClient(nil) error = %v, want ErrNotConfigured", err)
	}
	if _, err := NewClient(&models.ShopifySettings{APIKey: "k", StoreURL: "x"}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("NewClient() without password error = %v, want ErrNotConfigured", err)
	}
}

func TestStoreBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"my-store.myshopify.com", "https://my-store.myshopify.com"},
		{"https://my-store.myshopify.com/", "https://my-store.myshopify.com"},
		{"http://localhost:9090", "http://localhost:9090"},
		{"  my-store.myshopify.com  ", "https://my-store.myshopify.com"},
	}
	for _, tt := range tests {
		if got := storeBaseURL(tt.in); got != tt.want {
			t.Errorf("storeBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTestConnection(t *testing.T) {
	var gotPath string
	var gotAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, pass, ok := r.BasicAuth()
		gotAuth = ok && user == "test-key" && pass == "test-pass"
		json.NewEncoder(w).Encode(map[string]any{"shop": map[string]any{"name": "Demo Store"}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	name, err := client.TestConnection(context.Background())
	if err != nil {
		t.Fatalf("TestConnection() error = %v", err)
	}
	if name != "Demo Store" {
		t.Errorf("shop name = %q, want %q", name, "Demo Store")
	}
	if gotPath != "/admin/api/2023-10/shop.json" {
		t.Errorf("request path = %q", gotPath)
	}
	if !gotAuth {
		t.Error("expected basic auth with configured credentials")
	}
}

func TestCreateProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/api/2023-10/products.json" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Product struct {
				Title string `json:"title"`
			} `json:"product"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Product.Title != "Walnut Desk" {
			t.Errorf("payload title = %q", body.Product.Title)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"product": map[string]any{"id": 4242}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	id, err := client.CreateProduct(context.Background(), &Product{Title: "Walnut Desk"})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if id != 4242 {
		t.Errorf("product id = %d, want 4242", id)
	}
}

func TestCreateArticleUsesFirstBlog(t *testing.T) {
	var articlePath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/admin/api/2023-10/blogs.json":
			json.NewEncoder(w).Encode(map[string]any{"blogs": []map[string]any{{"id": 7}, {"id": 9}}})
		case r.Method == http.MethodPost:
			articlePath = r.URL.Path
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"article": map[string]any{"id": 55}})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	id, err := client.CreateArticle(context.Background(), &Article{Title: "Hello"})
	if err != nil {
		t.Fatalf("CreateArticle() error = %v", err)
	}
	if id != 55 {
		t.Errorf("article id = %d, want 55", id)
	}
	if articlePath != "/admin/api/2023-10/blogs/7/articles.json" {
		t.Errorf("article path = %q, want first blog", articlePath)
	}
}

func TestCreateArticleNoBlogs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"blogs": []any{}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.CreateArticle(context.Background(), &Article{Title: "Hello"}); !errors.Is(err, ErrNoBlogs) {
		t.Errorf("CreateArticle() error = %v, want ErrNoBlogs", err)
	}
}

func TestAPIErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{"errors": map[string]any{"title": []string{"can't be blank"}}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.CreateProduct(context.Background(), &Product{})
	if !errors.Is(err, ErrAPIError) {
		t.Fatalf("CreateProduct() error = %v, want ErrAPIError", err)
	}
}

func TestRequestSpacing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"shop": map[string]any{"name": "s"}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.minInterval = 40 * time.Millisecond

	start := time.Now()
	for i := 0; i < 2; i++ {
		if _, err := client.TestConnection(context.Background()); err != nil {
			t.Fatalf("TestConnection() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("two requests completed in %v, want spacing of at least 40ms", elapsed)
	}
}

func TestCallLimitPause(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shopify-Shop-Api-Call-Limit", "39/40")
		json.NewEncoder(w).Encode(map[string]any{"shop": map[string]any{"name": "s"}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.limitPause = 30 * time.Millisecond

	start := time.Now()
	if _, err := client.TestConnection(context.Background()); err != nil {
		t.Fatalf("TestConnection() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("call near the limit finished in %v, want extra pause", elapsed)
	}
}

func TestParseCallLimit(t *testing.T) {
	tests := []struct {
		header string
		used   int
		max    int
		ok     bool
	}{
		{"32/40", 32, 40, true},
		{" 1/40 ", 1, 40, true},
		{"", 0, 0, false},
		{"garbage", 0, 0, false},
		{"a/b", 0, 0, false},
	}
	for _, tt := range tests {
		used, max, ok := parseCallLimit(tt.header)
		if used != tt.used || max != tt.max || ok != tt.ok {
			t.Errorf("parseCallLimit(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.header, used, max, ok, tt.used, tt.max, tt.ok)
		}
	}
}
