// Package csvexport writes generated content in Shopify's product import
// CSV layout and in a plain spreadsheet layout for caption batches.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"storeforge/api/dto"
	"storeforge/api/models"
)

// ProductHeaders is the column set Shopify's product importer expects.
// Order matters to the importer.
var ProductHeaders = []string{
	"Handle",
	"Title",
	"Body (HTML)",
	"Vendor",
	"Type",
	"Tags",
	"Published",
	"Option1 Name",
	"Option1 Value",
	"Option2 Name",
	"Option2 Value",
	"Option3 Name",
	"Option3 Value",
	"Variant SKU",
	"Variant Inventory Qty",
	"Variant Inventory Policy",
	"Variant Fulfillment Service",
	"Variant Price",
	"Variant Compare At Price",
	"Variant Requires Shipping",
	"Variant Taxable",
	"Image Src",
	"Image Position",
	"Image Alt Text",
	"SEO Title",
	"SEO Description",
	"Status",
}

// WriteProducts renders drafts as a Shopify import file. The first row of a
// product carries all fields; extra variants and extra images follow as
// continuation rows sharing the handle.
func WriteProducts(w io.Writer, drafts []*dto.ProductDraft) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ProductHeaders); err != nil {
		return err
	}

	for _, draft := range drafts {
		if err := writeDraft(cw, draft); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeDraft(cw *csv.Writer, draft *dto.ProductDraft) error {
	handle := draft.URLHandle
	if handle == "" {
		handle = Slugify(draft.Title)
	}

	variants := draft.Variants
	if len(variants) == 0 {
		variants = []dto.DraftVariant{{Price: draft.Price, SKU: draft.SKU}}
	}

	var optionNames [3]string
	for i, opt := range draft.Options {
		if i >= 3 {
			break
		}
		optionNames[i] = opt.Name
	}

	rows := len(variants)
	if len(draft.Images) > rows {
		rows = len(draft.Images)
	}

	for i := 0; i < rows; i++ {
		row := make([]string, len(ProductHeaders))
		row[0] = handle

		if i == 0 {
			row[1] = draft.Title
			row[2] = draft.BodyHTML
			row[3] = draft.Vendor
			row[4] = draft.ProductType
			row[5] = draft.Tags
			row[6] = "TRUE"
			row[7] = optionNames[0]
			row[9] = optionNames[1]
			row[11] = optionNames[2]
			row[24] = draft.MetaTitle
			row[25] = draft.MetaDescription
			row[26] = "active"
		}

		if i < len(variants) {
			v := variants[i]
			price := v.Price
			if price == "" {
				price = draft.Price
			}
			row[8] = v.Option1
			row[10] = v.Option2
			row[13] = v.SKU
			row[14] = "0"
			row[15] = "deny"
			row[16] = "manual"
			row[17] = price
			row[18] = draft.CompareAtPrice
			row[19] = "TRUE"
			row[20] = "TRUE"
		}

		if i < len(draft.Images) {
			row[21] = draft.Images[i]
			row[22] = fmt.Sprintf("%d", i+1)
			row[23] = draft.Title
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

var captionHeaders = []string{
	"filename", "source_url", "alt_text", "caption", "tags",
	"detailed_description", "seo_keywords",
}

// WriteCaptions renders a caption batch as a plain spreadsheet, one row per
// processed image.
func WriteCaptions(w io.Writer, items []*models.ImageItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(captionHeaders); err != nil {
		return err
	}
	for _, item := range items {
		row := []string{
			item.Filename,
			item.URL,
			item.AltText,
			item.Caption,
			item.Tags,
			item.DetailedDescription,
			item.SEOKeywords,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCaptionsShopify renders a caption batch in the two-column layout
// Shopify accepts for bulk image alt text edits.
func WriteCaptionsShopify(w io.Writer, items []*models.ImageItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Image Src", "Image Alt Text"}); err != nil {
		return err
	}
	for _, item := range items {
		src := item.URL
		if src == "" {
			src = item.Filename
		}
		if err := cw.Write([]string{src, item.AltText}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Slugify turns a title into a url handle: lowercase, alphanumerics kept,
// everything else collapsed into single dashes.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
