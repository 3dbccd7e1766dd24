package shopify

import (
	"fmt"
	"strconv"
	"strings"

	"storeforge/api/dto"
)

// Product mirrors the Admin REST product resource, limited to the fields
// the app writes.
type Product struct {
	Title                          string    `json:"title"`
	BodyHTML                       string    `json:"body_html,omitempty"`
	Vendor                         string    `json:"vendor,omitempty"`
	ProductType                    string    `json:"product_type,omitempty"`
	Tags                           string    `json:"tags,omitempty"`
	Handle                         string    `json:"handle,omitempty"`
	Options                        []Option  `json:"options,omitempty"`
	Variants                       []Variant `json:"variants,omitempty"`
	Images                         []Image   `json:"images,omitempty"`
	MetafieldsGlobalTitleTag       string    `json:"metafields_global_title_tag,omitempty"`
	MetafieldsGlobalDescriptionTag string    `json:"metafields_global_description_tag,omitempty"`
}

type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type Variant struct {
	Title             string  `json:"title,omitempty"`
	Option1           string  `json:"option1,omitempty"`
	Option2           string  `json:"option2,omitempty"`
	Option3           string  `json:"option3,omitempty"`
	Price             string  `json:"price,omitempty"`
	CompareAtPrice    string  `json:"compare_at_price,omitempty"`
	SKU               string  `json:"sku,omitempty"`
	Barcode           string  `json:"barcode,omitempty"`
	InventoryQuantity int     `json:"inventory_quantity,omitempty"`
	Weight            float64 `json:"weight,omitempty"`
	WeightUnit        string  `json:"weight_unit,omitempty"`
}

type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

type Page struct {
	Title    string `json:"title"`
	BodyHTML string `json:"body_html"`
}

type Article struct {
	Title    string `json:"title"`
	BodyHTML string `json:"body_html"`
	Summary  string `json:"summary_html,omitempty"`
	Tags     string `json:"tags,omitempty"`
}

// Shopify caps products at 100 variants; stop expanding option
// combinations past that.
const maxVariants = 100

// BuildProductFromRow maps one parsed upload row onto a product payload.
// Row keys are expected lowercased (the parser normalizes them).
func BuildProductFromRow(row map[string]string) *Product {
	p := &Product{
		Title:                          row["title"],
		BodyHTML:                       firstNonEmpty(row["body_html"], row["description"]),
		Vendor:                         row["vendor"],
		ProductType:                    firstNonEmpty(row["product_type"], row["type"]),
		Tags:                           row["tags"],
		Handle:                         row["handle"],
		MetafieldsGlobalTitleTag:       row["seo_title"],
		MetafieldsGlobalDescriptionTag: row["seo_description"],
	}

	p.Options = rowOptions(row)
	p.Variants = rowVariants(row, p.Options)
	p.Images = rowImages(row)
	return p
}

// rowOptions reads option1_name/option1_value pairs (up to three) where a
// value cell may carry several values separated by ';'.
func rowOptions(row map[string]string) []Option {
	var options []Option
	for i := 1; i <= 3; i++ {
		name := strings.TrimSpace(row[fmt.Sprintf("option%d_name", i)])
		values := splitValues(row[fmt.Sprintf("option%d_value", i)])
		if name == "" || len(values) == 0 {
			break
		}
		options = append(options, Option{Name: name, Values: values})
	}
	return options
}

// rowVariants expands the option value combinations into variants, all
// sharing the row's price and stock fields. Without options a single
// default variant is produced.
func rowVariants(row map[string]string, options []Option) []Variant {
	base := Variant{
		Price:          row["price"],
		CompareAtPrice: row["compare_at_price"],
		SKU:            row["sku"],
		Barcode:        row["barcode"],
		WeightUnit:     row["weight_unit"],
	}
	if qty := strings.TrimSpace(row["inventory_quantity"]); qty != "" {
		if n, err := strconv.Atoi(qty); err == nil {
			base.InventoryQuantity = n
		}
	}
	if w := strings.TrimSpace(row["weight"]); w != "" {
		if f, err := strconv.ParseFloat(w, 64); err == nil {
			base.Weight = f
		}
	}

	if len(options) == 0 {
		return []Variant{base}
	}

	variants := []Variant{{}}
	for level, opt := range options {
		var next []Variant
		for _, v := range variants {
			for _, value := range opt.Values {
				expanded := v
				switch level {
				case 0:
					expanded.Option1 = value
				case 1:
					expanded.Option2 = value
				case 2:
					expanded.Option3 = value
				}
				next = append(next, expanded)
				if len(next) >= maxVariants {
					break
				}
			}
			if len(next) >= maxVariants {
				break
			}
		}
		variants = next
	}

	for i := range variants {
		variants[i].Price = base.Price
		variants[i].CompareAtPrice = base.CompareAtPrice
		variants[i].SKU = variantSKU(base.SKU, i)
		variants[i].Barcode = base.Barcode
		variants[i].InventoryQuantity = base.InventoryQuantity
		variants[i].Weight = base.Weight
		variants[i].WeightUnit = base.WeightUnit
	}
	return variants
}

func variantSKU(base string, index int) string {
	if base == "" || index == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, index+1)
}

// rowImages collects image_url plus numbered image_url1..image_url9
// columns, skipping blanks and duplicates.
func rowImages(row map[string]string) []Image {
	var images []Image
	seen := make(map[string]bool)
	add := func(src string) {
		src = strings.TrimSpace(src)
		if src == "" || seen[src] {
			return
		}
		seen[src] = true
		images = append(images, Image{Src: src})
	}
	add(row["image_url"])
	for i := 1; i <= 9; i++ {
		add(row[fmt.Sprintf("image_url%d", i)])
	}
	return images
}

// BuildProductFromDraft maps a generated draft onto a product payload.
func BuildProductFromDraft(draft *dto.ProductDraft) *Product {
	p := &Product{
		Title:                          draft.Title,
		BodyHTML:                       draft.BodyHTML,
		Vendor:                         draft.Vendor,
		ProductType:                    draft.ProductType,
		Tags:                           draft.Tags,
		Handle:                         draft.URLHandle,
		MetafieldsGlobalTitleTag:       draft.MetaTitle,
		MetafieldsGlobalDescriptionTag: draft.MetaDescription,
	}

	for _, opt := range draft.Options {
		p.Options = append(p.Options, Option{Name: opt.Name, Values: opt.Values})
	}
	for _, v := range draft.Variants {
		price := v.Price
		if price == "" {
			price = draft.Price
		}
		p.Variants = append(p.Variants, Variant{
			Option1:        v.Option1,
			Option2:        v.Option2,
			Price:          price,
			CompareAtPrice: draft.CompareAtPrice,
			SKU:            v.SKU,
		})
	}
	if len(p.Variants) == 0 {
		p.Variants = []Variant{{
			Price:          draft.Price,
			CompareAtPrice: draft.CompareAtPrice,
			SKU:            draft.SKU,
		}}
	}
	for _, src := range draft.Images {
		p.Images = append(p.Images, Image{Src: src, Alt: draft.Title})
	}
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func splitValues(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
