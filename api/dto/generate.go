package dto

// ProductDraft is a generated product before it is exported or pushed to the
// store. Field names track the Shopify product resource.
type ProductDraft struct {
	Title           string          `json:"title"`
	BodyHTML        string          `json:"body_html"`
	Vendor          string          `json:"vendor"`
	ProductType     string          `json:"product_type"`
	Tags            string          `json:"tags"`
	Price           string          `json:"price"`
	CompareAtPrice  string          `json:"compare_at_price,omitempty"`
	SKU             string          `json:"sku,omitempty"`
	MetaTitle       string          `json:"meta_title,omitempty"`
	MetaDescription string          `json:"meta_description,omitempty"`
	URLHandle       string          `json:"url_handle,omitempty"`
	Images          []string        `json:"images,omitempty"`
	Options         []ProductOption `json:"options,omitempty"`
	Variants        []DraftVariant  `json:"variants,omitempty"`
}

type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type DraftVariant struct {
	Title   string `json:"title"`
	Option1 string `json:"option1,omitempty"`
	Option2 string `json:"option2,omitempty"`
	Price   string `json:"price"`
	SKU     string `json:"sku,omitempty"`
}

type GenerateProductRequest struct {
	InputType        string            `json:"input_type"`
	URL              string            `json:"url,omitempty"`
	Text             string            `json:"text,omitempty"`
	Partial          map[string]string `json:"partial,omitempty"`
	GenerateVariants bool              `json:"generate_variants"`
	VariantCount     int               `json:"variant_count,omitempty"`
	OptimizeSEO      bool              `json:"optimize_seo"`
}

type GenerateBlogRequest struct {
	Topic          string `json:"topic"`
	Keywords       string `json:"keywords"`
	ContentType    string `json:"content_type"`
	Tone           string `json:"tone"`
	WordCount      int    `json:"word_count"`
	TargetAudience string `json:"target_audience"`
	Category       string `json:"category"`
}

type GeneratePageRequest struct {
	PageType    string `json:"page_type"`
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry"`
	Tone        string `json:"tone"`
	Details     string `json:"details,omitempty"`
}

type CaptionRequest struct {
	BatchName    string   `json:"batch_name"`
	SourceType   string   `json:"source_type"`
	URLs         []string `json:"urls,omitempty"`
	ExportFormat string   `json:"export_format"`
}

// ImageAnnotation is the structured output of one vision caption call.
type ImageAnnotation struct {
	AltText             string   `json:"alt_text"`
	Caption             string   `json:"caption"`
	Tags                []string `json:"tags"`
	DetailedDescription string   `json:"detailed_description"`
	SEOKeywords         []string `json:"seo_keywords"`
}

// BlogDraft is the generated article before persistence.
type BlogDraft struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	Summary         string `json:"summary"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	URLHandle       string `json:"url_handle"`
	Tags            string `json:"tags"`
}

// PageDraft is the generated static page before persistence.
type PageDraft struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	Summary         string `json:"summary"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	URLHandle       string `json:"url_handle"`
}
