// Package shopify is a thin Admin REST client covering the calls the app
// makes: connection check, product, page, and blog article creation.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"storeforge/api/models"
)

var (
	ErrNoBlogs       = errors.New("store has no blogs")
	ErrAPIError      = errors.New("shopify api error")
	ErrNotConfigured = errors.New("shopify credentials not configured")
)

const (
	// Admin REST allows 2 requests/second on the basic plan; space calls
	// out instead of bursting into the limiter.
	defaultMinInterval = 500 * time.Millisecond
	// Extra pause once the reported bucket usage crosses this share.
	callLimitThreshold = 0.8
	defaultLimitPause  = 2 * time.Second
)

type Client struct {
	baseURL  string
	apiKey   string
	password string
	hc       *http.Client

	minInterval time.Duration
	limitPause  time.Duration

	mu          sync.Mutex
	lastRequest time.Time
}

func NewClient(settings *models.ShopifySettings) (*Client, error) {
	if settings == nil || settings.APIKey == "" || settings.Password == "" || settings.StoreURL == "" {
		return nil, ErrNotConfigured
	}

	version := settings.APIVersion
	if version == "" {
		version = "2023-10"
	}

	return &Client{
		baseURL:     storeBaseURL(settings.StoreURL) + "/admin/api/" + version,
		apiKey:      settings.APIKey,
		password:    settings.Password,
		hc:          &http.Client{Timeout: 30 * time.Second},
		minInterval: defaultMinInterval,
		limitPause:  defaultLimitPause,
	}, nil
}

// storeBaseURL accepts "my-store.myshopify.com" or a full URL and returns a
// scheme-qualified base without a trailing slash.
func storeBaseURL(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "/")
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return "https://" + s
}

type shopEnvelope struct {
	Shop struct {
		Name string `json:"name"`
	} `json:"shop"`
}

// TestConnection fetches the shop resource and returns the store name.
func (c *Client) TestConnection(ctx context.Context) (string, error) {
	var out shopEnvelope
	if err := c.do(ctx, http.MethodGet, "/shop.json", nil, &out); err != nil {
		return "", err
	}
	return out.Shop.Name, nil
}

// CreateProduct posts one product and returns its Shopify id.
func (c *Client) CreateProduct(ctx context.Context, product *Product) (int64, error) {
	var out struct {
		Product struct {
			ID int64 `json:"id"`
		} `json:"product"`
	}
	if err := c.do(ctx, http.MethodPost, "/products.json", map[string]any{"product": product}, &out); err != nil {
		return 0, err
	}
	return out.Product.ID, nil
}

// CreatePage posts one page and returns its Shopify id.
func (c *Client) CreatePage(ctx context.Context, page *Page) (int64, error) {
	var out struct {
		Page struct {
			ID int64 `json:"id"`
		} `json:"page"`
	}
	if err := c.do(ctx, http.MethodPost, "/pages.json", map[string]any{"page": page}, &out); err != nil {
		return 0, err
	}
	return out.Page.ID, nil
}

// CreateArticle posts an article to the store's first blog and returns the
// article id.
func (c *Client) CreateArticle(ctx context.Context, article *Article) (int64, error) {
	var blogs struct {
		Blogs []struct {
			ID int64 `json:"id"`
		} `json:"blogs"`
	}
	if err := c.do(ctx, http.MethodGet, "/blogs.json", nil, &blogs); err != nil {
		return 0, err
	}
	if len(blogs.Blogs) == 0 {
		return 0, ErrNoBlogs
	}

	path := fmt.Sprintf("/blogs/%d/articles.json", blogs.Blogs[0].ID)
	var out struct {
		Article struct {
			ID int64 `json:"id"`
		} `json:"article"`
	}
	if err := c.do(ctx, http.MethodPost, path, map[string]any{"article": article}, &out); err != nil {
		return 0, err
	}
	return out.Article.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	c.throttle()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.apiKey, c.password)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	c.observeCallLimit(resp.Header.Get("X-Shopify-Shop-Api-Call-Limit"))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", ErrAPIError, resp.StatusCode, extractAPIErrors(data))
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

// throttle enforces the minimum spacing between requests.
func (c *Client) throttle() {
	c.mu.Lock()
	wait := c.minInterval - time.Since(c.lastRequest)
	if wait > 0 {
		c.mu.Unlock()
		time.Sleep(wait)
		c.mu.Lock()
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()
}

// observeCallLimit parses "32/40" style headers and pauses when the bucket
// is nearly full.
func (c *Client) observeCallLimit(header string) {
	used, max, ok := parseCallLimit(header)
	if !ok || max == 0 {
		return
	}
	if float64(used)/float64(max) >= callLimitThreshold {
		time.Sleep(c.limitPause)
	}
}

func parseCallLimit(header string) (used, max int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(header), "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	used, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	max, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return used, max, true
}

// extractAPIErrors pulls the human-readable part out of a Shopify error
// body, falling back to the raw payload.
func extractAPIErrors(data []byte) string {
	var parsed struct {
		Errors any `json:"errors"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Errors != nil {
		switch v := parsed.Errors.(type) {
		case string:
			return v
		default:
			if encoded, err := json.Marshal(v); err == nil {
				return string(encoded)
			}
		}
	}
	s := string(data)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
