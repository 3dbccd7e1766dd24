package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"storeforge/api/dto"
)

// productJSON is the wire shape the prompts ask for.
type productJSON struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Vendor         string `json:"vendor"`
	ProductType    string `json:"product_type"`
	Price          string `json:"price"`
	CompareAtPrice string `json:"compare_at_price"`
	Tags           string `json:"tags"`
	SEOTitle       string `json:"seo_title"`
	SEODescription string `json:"seo_description"`
	URLHandle      string `json:"url_handle"`
}

func (p *productJSON) toDraft() *dto.ProductDraft {
	return &dto.ProductDraft{
		Title:           p.Title,
		BodyHTML:        p.Description,
		Vendor:          p.Vendor,
		ProductType:     p.ProductType,
		Price:           p.Price,
		CompareAtPrice:  p.CompareAtPrice,
		Tags:            p.Tags,
		MetaTitle:       p.SEOTitle,
		MetaDescription: p.SEODescription,
		URLHandle:       p.URLHandle,
	}
}

func (c *httpClient) GenerateProductFromText(ctx context.Context, text string, imageURLs []string) (*dto.ProductDraft, error) {
	raw, err := c.chat(ctx, c.model, []chatMessage{
		{Role: "user", Content: productFromTextPrompt(text)},
	}, true)
	if err != nil {
		return nil, err
	}

	var parsed productJSON
	if err := decodeInto(raw, &parsed); err != nil {
		return nil, err
	}

	draft := parsed.toDraft()
	draft.Images = imageURLs
	return draft, nil
}

func (c *httpClient) CompleteProductData(ctx context.Context, partial map[string]string) (*dto.ProductDraft, error) {
	raw, err := c.chat(ctx, c.model, []chatMessage{
		{Role: "user", Content: completeProductPrompt(partial)},
	}, true)
	if err != nil {
		return nil, err
	}

	var parsed productJSON
	if err := decodeInto(raw, &parsed); err != nil {
		return nil, err
	}

	draft := parsed.toDraft()
	applyProvided(draft, partial)
	return draft, nil
}

// applyProvided keeps user-supplied values over whatever the model returned.
func applyProvided(draft *dto.ProductDraft, partial map[string]string) {
	for key, val := range partial {
		val = strings.TrimSpace(val)
		if val == "" {
			continue
		}
		switch key {
		case "title":
			draft.Title = val
		case "description":
			draft.BodyHTML = val
		case "vendor":
			draft.Vendor = val
		case "product_type":
			draft.ProductType = val
		case "price":
			draft.Price = val
		case "compare_at_price":
			draft.CompareAtPrice = val
		case "tags":
			draft.Tags = val
		}
	}
}

func (c *httpClient) OptimizeSEO(ctx context.Context, draft *dto.ProductDraft) error {
	raw, err := c.chat(ctx, c.model, []chatMessage{
		{Role: "user", Content: seoPrompt(draft.Title, draft.BodyHTML)},
	}, true)
	if err != nil {
		return err
	}

	var parsed struct {
		SEOTitle       string `json:"seo_title"`
		SEODescription string `json:"seo_description"`
		URLHandle      string `json:"url_handle"`
	}
	if err := decodeInto(raw, &parsed); err != nil {
		return err
	}

	draft.MetaTitle = parsed.SEOTitle
	draft.MetaDescription = parsed.SEODescription
	draft.URLHandle = parsed.URLHandle
	return nil
}

func (c *httpClient) GenerateVariants(ctx context.Context, draft *dto.ProductDraft, count int) error {
	raw, err := c.chat(ctx, c.model, []chatMessage{
		{Role: "user", Content: variantsPrompt(draft.Title, draft.ProductType, draft.Price, count)},
	}, true)
	if err != nil {
		return err
	}

	var parsed struct {
		OptionName string `json:"option_name"`
		Variants   []struct {
			OptionValue string `json:"option_value"`
			Price       string `json:"price"`
			SKU         string `json:"sku"`
		} `json:"variants"`
	}
	if err := decodeInto(raw, &parsed); err != nil {
		return err
	}
	if parsed.OptionName == "" || len(parsed.Variants) == 0 {
		return fmt.Errorf("variant response missing option data")
	}

	option := dto.ProductOption{Name: parsed.OptionName}
	variants := make([]dto.DraftVariant, 0, len(parsed.Variants))
	for _, v := range parsed.Variants {
		option.Values = append(option.Values, v.OptionValue)
		price := v.Price
		if price == "" {
			price = draft.Price
		}
		variants = append(variants, dto.DraftVariant{
			Title:   v.OptionValue,
			Option1: v.OptionValue,
			Price:   price,
			SKU:     v.SKU,
		})
	}

	draft.Options = []dto.ProductOption{option}
	draft.Variants = variants
	return nil
}

func (c *httpClient) GenerateBlogPost(ctx context.Context, req *dto.GenerateBlogRequest) (*dto.BlogDraft, error) {
	raw, err := c.chat(ctx, c.model, []chatMessage{
		{Role: "user", Content: blogPrompt(req.Topic, req.Keywords, req.ContentType, req.Tone, req.TargetAudience, req.WordCount)},
	}, true)
	if err != nil {
		return nil, err
	}

	var draft dto.BlogDraft
	if err := decodeInto(raw, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *httpClient) GeneratePage(ctx context.Context, req *dto.GeneratePageRequest) (*dto.PageDraft, error) {
	raw, err := c.chat(ctx, c.model, []chatMessage{
		{Role: "user", Content: pagePrompt(req.PageType, req.Title, req.CompanyName, req.Industry, req.Tone, req.Details)},
	}, true)
	if err != nil {
		return nil, err
	}

	var draft dto.PageDraft
	if err := decodeInto(raw, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *httpClient) CaptionImage(ctx context.Context, imageData []byte, mimeType string) (*dto.ImageAnnotation, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))

	content := []map[string]any{
		{"type": "text", "text": captionPrompt},
		{"type": "image_url", "image_url": map[string]string{"url": dataURI}},
	}

	raw, err := c.chat(ctx, c.visionModel, []chatMessage{
		{Role: "user", Content: content},
	}, true)
	if err != nil {
		return nil, err
	}

	var ann dto.ImageAnnotation
	if err := decodeInto(raw, &ann); err != nil {
		return nil, err
	}
	return &ann, nil
}

func decodeInto(raw string, out any) error {
	payload, err := decodeJSONPayload(raw)
	if err != nil {
		return fmt.Errorf("parse model output: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("parse model output: %w", err)
	}
	return nil
}
