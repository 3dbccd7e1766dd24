package ai

import (
	"fmt"
	"strings"
)

// Prompt text is capped so a large scraped page cannot blow the context
// window.
const maxPromptText = 8000

const productJSONShape = `{
  "title": "product title, max 255 characters",
  "description": "HTML product description with paragraphs and bullet lists",
  "vendor": "brand or vendor name",
  "product_type": "product category",
  "price": "numeric price as a string, e.g. 29.99",
  "compare_at_price": "original price as a string, or empty string",
  "tags": "comma-separated tags",
  "seo_title": "SEO title, max 60 characters",
  "seo_description": "SEO meta description, max 160 characters",
  "url_handle": "lowercase-hyphenated-handle"
}`

func productFromTextPrompt(text string) string {
	return fmt.Sprintf(`You are a product data specialist for Shopify stores.
Based on the following product information, generate complete Shopify product data.

Return ONLY a JSON object with exactly these fields:
%s

Product information:
%s`, productJSONShape, capText(text))
}

func completeProductPrompt(partial map[string]string) string {
	var sb strings.Builder
	for k, v := range partial {
		if strings.TrimSpace(v) != "" {
			fmt.Fprintf(&sb, "%s: %s\n", k, v)
		}
	}
	return fmt.Sprintf(`You are a product data specialist for Shopify stores.
The following product data is partially filled in. Keep every provided value
exactly as given and fill in ONLY the missing fields.

Return ONLY a JSON object with exactly these fields:
%s

Provided data:
%s`, productJSONShape, capText(sb.String()))
}

func seoPrompt(title, description string) string {
	return fmt.Sprintf(`You are an SEO specialist for e-commerce.
Generate optimized SEO fields for this product.

Return ONLY a JSON object with exactly these fields:
{
  "seo_title": "compelling SEO title, max 60 characters",
  "seo_description": "meta description with a call to action, max 160 characters",
  "url_handle": "lowercase-hyphenated-url-slug"
}

Product title: %s
Product description: %s`, title, capText(description))
}

func variantsPrompt(title, productType, price string, count int) string {
	return fmt.Sprintf(`You are a product merchandiser.
Generate %d realistic variants for this product. Pick ONE sensible option
dimension (for example Size or Color) and vary it. Keep prices close to the
base price.

Return ONLY a JSON object with exactly these fields:
{
  "option_name": "the option dimension, e.g. Size",
  "variants": [
    {"option_value": "value", "price": "numeric price as a string", "sku": "short SKU"}
  ]
}

Product: %s
Type: %s
Base price: %s`, count, title, productType, price)
}

var blogTypeInstructions = map[string]string{
	"article":  "an informative article with an introduction, several sections with subheadings, and a conclusion",
	"how-to":   "a step-by-step how-to guide with numbered steps and practical tips",
	"listicle": "a list-style post where each list item has a heading and a short explanation",
	"news":     "a news-style post with the key information first and background after",
	"review":   "a balanced product review covering pros, cons, and a verdict",
}

var toneInstructions = map[string]string{
	"professional":  "professional and informative",
	"casual":        "casual and conversational",
	"friendly":      "warm and friendly",
	"authoritative": "confident and authoritative",
	"humorous":      "light and humorous without losing usefulness",
}

func blogPrompt(topic, keywords, contentType, tone, audience string, wordCount int) string {
	typeInstr, ok := blogTypeInstructions[contentType]
	if !ok {
		typeInstr = blogTypeInstructions["article"]
	}
	toneInstr, ok := toneInstructions[tone]
	if !ok {
		toneInstr = toneInstructions["professional"]
	}

	audienceLine := ""
	if audience != "" {
		audienceLine = "Target audience: " + audience + "\n"
	}

	return fmt.Sprintf(`You are a content writer for an e-commerce store blog.
Write %s of roughly %d words. The tone should be %s.
Work the keywords in naturally.

Return ONLY a JSON object with exactly these fields:
{
  "title": "post title",
  "content": "full post content as HTML",
  "summary": "2-3 sentence summary",
  "meta_title": "SEO title, max 60 characters",
  "meta_description": "SEO description, max 160 characters",
  "url_handle": "lowercase-hyphenated-slug",
  "tags": "comma-separated tags"
}

Topic: %s
Keywords: %s
%s`, typeInstr, wordCount, toneInstr, topic, keywords, audienceLine)
}

var pageTypeInstructions = map[string]string{
	"about":   "an About Us page telling the company story, mission, and what makes it different",
	"contact": "a Contact page with a short welcoming introduction and the ways to get in touch",
	"faq":     "an FAQ page with 6-10 common questions and clear answers for this kind of store",
	"terms":   "a Terms of Service page covering orders, payment, shipping, returns, and liability in plain language",
	"privacy": "a Privacy Policy page covering what data is collected, how it is used, and customer rights in plain language",
	"custom":  "a page following the details provided",
}

func pagePrompt(pageType, title, company, industry, tone, details string) string {
	pageInstr, ok := pageTypeInstructions[pageType]
	if !ok {
		pageInstr = pageTypeInstructions["custom"]
	}
	toneInstr, ok := toneInstructions[tone]
	if !ok {
		toneInstr = toneInstructions["professional"]
	}

	detailsLine := ""
	if details != "" {
		detailsLine = "Additional details: " + capText(details) + "\n"
	}

	return fmt.Sprintf(`You are a copywriter for e-commerce stores.
Write %s. The tone should be %s.

Return ONLY a JSON object with exactly these fields:
{
  "title": "page title",
  "content": "full page content as HTML",
  "summary": "1-2 sentence summary",
  "meta_title": "SEO title, max 60 characters",
  "meta_description": "SEO description, max 160 characters",
  "url_handle": "lowercase-hyphenated-slug"
}

Page title: %s
Company: %s
Industry: %s
%s`, pageInstr, toneInstr, title, company, industry, detailsLine)
}

const captionPrompt = `Describe this product image for an e-commerce listing.

Return ONLY a JSON object with exactly these fields:
{
  "alt_text": "accessible alt text, max 125 characters",
  "caption": "short marketing caption",
  "tags": ["tag1", "tag2"],
  "detailed_description": "2-3 sentence description of what the image shows",
  "seo_keywords": ["keyword1", "keyword2"]
}`

func capText(s string) string {
	if len(s) <= maxPromptText {
		return s
	}
	return s[:maxPromptText]
}
