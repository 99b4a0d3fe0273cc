package domain

import "context"

// WebResult is a single text search result as returned by the provider.
type WebResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// ImageResult is a single image search candidate. Link is the only field the
// provider guarantees; everything else may be empty or zero.
type ImageResult struct {
	Link          string `json:"link"`
	Title         string `json:"title,omitempty"`
	ThumbnailLink string `json:"thumbnail_link,omitempty"`
	ContextLink   string `json:"context_link,omitempty"`
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
}

// ImageFilters are optional provider-side image query refinements. Empty
// fields are omitted from the provider query entirely. Values are validated
// against the closed sets below before any network I/O.
type ImageFilters struct {
	Size          string `json:"size,omitempty"`
	Type          string `json:"type,omitempty"`
	DominantColor string `json:"dominant_color,omitempty"`
	ColorType     string `json:"color_type,omitempty"`
}

// Closed value sets for ImageFilters fields.
var (
	ImageSizes          = []string{"huge", "icon", "large", "medium", "small", "xlarge", "xxlarge"}
	ImageTypes          = []string{"clipart", "face", "lineart", "stock", "photo", "animated"}
	ImageDominantColors = []string{"black", "blue", "brown", "gray", "green", "orange", "pink", "purple", "red", "teal", "white", "yellow"}
	ImageColorTypes     = []string{"color", "gray", "mono", "trans"}
)

// Selection is the outcome of filtering validated image candidates.
// Items preserves the provider's ranking and holds at most the requested
// count. TotalValid counts survivors before truncation; TotalChecked counts
// candidates that received a verdict.
type Selection struct {
	Items        []ImageResult
	TotalValid   int
	TotalChecked int
}

// SearchProvider abstracts the remote search API.
type SearchProvider interface {
	// Search performs a text search. num is capped by the provider at 10.
	Search(ctx context.Context, query string, num int) ([]WebResult, error)
	// SearchImages performs an image search with optional filters.
	SearchImages(ctx context.Context, query string, num int, filters ImageFilters) ([]ImageResult, error)
	// Name returns the provider identifier (e.g. "google").
	Name() string
}
