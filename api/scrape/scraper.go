// Package scrape fetches product pages and pulls out the pieces the AI
// prompts need: readable text, image candidates, and structured product
// data when the page carries it.
package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const userAgent = "Mozilla/5.0 (compatible; storeforge/1.0)"

var ErrBadStatus = errors.New("unexpected response status")

// Elements whose text is never product copy.
var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"nav":      true,
	"footer":   true,
	"header":   true,
	"iframe":   true,
	"svg":      true,
}

// Image URLs matching these fragments are chrome, not product shots.
var skipImagePatterns = []string{"icon", "logo", "sprite", "pixel", "blank", "spacer", "avatar", "badge"}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

const maxImageCandidates = 10

type Scraper struct {
	client  *http.Client
	maxBody int64
}

func NewScraper(timeout time.Duration, maxBody int64) *Scraper {
	return &Scraper{
		client:  &http.Client{Timeout: timeout},
		maxBody: maxBody,
	}
}

// FetchPage returns the page markup, capped at maxBody bytes.
func (s *Scraper) FetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchImage downloads one image, capped at maxBody bytes, and returns the
// bytes with their content type.
func (s *Scraper) FetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody))
	if err != nil {
		return nil, "", err
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

// ExtractText walks the markup and collects visible text, skipping page
// chrome, with whitespace collapsed.
func ExtractText(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(sb.String()), " ")
}

// ExtractLinks returns absolute http(s) hrefs resolved against base.
func ExtractLinks(markup, base string) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if abs := resolveURL(baseURL, attr.Val); abs != "" && !seen[abs] {
					seen[abs] = true
					links = append(links, abs)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

// ExtractImages returns up to maxImageCandidates product-looking image URLs
// resolved against base.
func ExtractImages(markup, base string) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var images []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(images) >= maxImageCandidates {
			return
		}
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, attr := range n.Attr {
				if attr.Key != "src" && attr.Key != "data-src" {
					continue
				}
				abs := resolveURL(baseURL, attr.Val)
				if abs == "" || seen[abs] || !looksLikeProductImage(abs) {
					continue
				}
				seen[abs] = true
				images = append(images, abs)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return images
}

// ExtractProductJSONLD finds the first JSON-LD block describing a Product,
// including inside @graph containers.
func ExtractProductJSONLD(markup string) (map[string]any, bool) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, false
	}

	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			for _, attr := range n.Attr {
				if attr.Key == "type" && strings.EqualFold(attr.Val, "application/ld+json") {
					if n.FirstChild != nil {
						blocks = append(blocks, n.FirstChild.Data)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, block := range blocks {
		var parsed any
		if err := json.Unmarshal([]byte(block), &parsed); err != nil {
			continue
		}
		if product, ok := findProductNode(parsed); ok {
			return product, true
		}
	}
	return nil, false
}

func findProductNode(node any) (map[string]any, bool) {
	switch v := node.(type) {
	case map[string]any:
		if t, ok := v["@type"].(string); ok && strings.EqualFold(t, "Product") {
			return v, true
		}
		if graph, ok := v["@graph"]; ok {
			return findProductNode(graph)
		}
	case []any:
		for _, item := range v {
			if product, ok := findProductNode(item); ok {
				return product, true
			}
		}
	}
	return nil, false
}

func resolveURL(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "javascript:") || strings.HasPrefix(raw, "data:") {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}

func looksLikeProductImage(imageURL string) bool {
	lower := strings.ToLower(imageURL)
	for _, pattern := range skipImagePatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}
	trimmed := lower
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(trimmed, ext) {
			return true
		}
	}
	return false
}
