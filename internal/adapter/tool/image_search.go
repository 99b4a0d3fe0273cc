package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"search-mcp/internal/adapter/imagecheck"
	"search-mcp/internal/domain"
	"search-mcp/internal/infra/tracer"
)

// overFetchMargin is how many extra candidates are requested from the
// provider when validation is on, to absorb attrition from dead links and
// placeholders. The margin is static: if attrition exceeds it, the caller
// receives fewer than requested items and no re-fetch happens.
const overFetchMargin = 5

// BatchValidator is the concurrent image validation stage.
type BatchValidator interface {
	CheckAll(ctx context.Context, candidates []domain.ImageResult) map[string]bool
}

// ImageSearchTool performs image searches with optional existence validation
// of the returned image URLs.
type ImageSearchTool struct {
	provider domain.SearchProvider
	batch    BatchValidator
	logger   *slog.Logger
}

// NewImageSearchTool creates an image search tool.
func NewImageSearchTool(provider domain.SearchProvider, batch BatchValidator, logger *slog.Logger) *ImageSearchTool {
	return &ImageSearchTool{
		provider: provider,
		batch:    batch,
		logger:   logger,
	}
}

func (t *ImageSearchTool) Name() string { return "image_search" }
func (t *ImageSearchTool) Description() string {
	return "Search for images, optionally validating that each result is a live, real image"
}

func (t *ImageSearchTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "The search query"},
				"num_results": {"type": "integer", "minimum": 1, "maximum": 10, "description": "Number of results (default: 5)"},
				"validate_images": {"type": "boolean", "description": "Check that each image URL is live and substantial before returning it"},
				"img_size": {"type": "string", "enum": ["huge", "icon", "large", "medium", "small", "xlarge", "xxlarge"], "description": "Image size filter (optional)"},
				"img_type": {"type": "string", "enum": ["clipart", "face", "lineart", "stock", "photo", "animated"], "description": "Image type filter (optional)"},
				"img_dominant_color": {"type": "string", "enum": ["black", "blue", "brown", "gray", "green", "orange", "pink", "purple", "red", "teal", "white", "yellow"], "description": "Dominant color filter (optional)"},
				"img_color_type": {"type": "string", "enum": ["color", "gray", "mono", "trans"], "description": "Color type filter (optional)"}
			},
			"required": ["query"]
		}`),
	}
}

type imageSearchParams struct {
	Query            string `json:"query"`
	NumResults       int    `json:"num_results,omitempty"`
	ValidateImages   bool   `json:"validate_images,omitempty"`
	ImgSize          string `json:"img_size,omitempty"`
	ImgType          string `json:"img_type,omitempty"`
	ImgDominantColor string `json:"img_dominant_color,omitempty"`
	ImgColorType     string `json:"img_color_type,omitempty"`
}

func (t *ImageSearchTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	return Execute(ctx, "tool.image_search", t.logger, params,
		func(ctx context.Context, span trace.Span, p imageSearchParams) (any, error) {
			if p.NumResults == 0 {
				p.NumResults = defaultNumResults
			}
			if err := ValidateAll(
				RequireField("query", p.Query),
				ValidateRange("num_results", p.NumResults, 1, maxNumResults),
				ValidateEnum("img_size", p.ImgSize, domain.ImageSizes),
				ValidateEnum("img_type", p.ImgType, domain.ImageTypes),
				ValidateEnum("img_dominant_color", p.ImgDominantColor, domain.ImageDominantColors),
				ValidateEnum("img_color_type", p.ImgColorType, domain.ImageColorTypes),
			); err != nil {
				return nil, err
			}

			span.SetAttributes(
				tracer.StringAttr("search.query", p.Query),
				tracer.IntAttr("search.num_results", p.NumResults),
			)

			// Over-fetch to absorb validation attrition, within provider limits.
			fetchCount := p.NumResults
			if p.ValidateImages {
				fetchCount = min(p.NumResults+overFetchMargin, maxNumResults)
			}

			filters := domain.ImageFilters{
				Size:          p.ImgSize,
				Type:          p.ImgType,
				DominantColor: p.ImgDominantColor,
				ColorType:     p.ImgColorType,
			}

			candidates, err := t.provider.SearchImages(ctx, p.Query, fetchCount, filters)
			if err != nil {
				return nil, err
			}
			if len(candidates) == 0 {
				return fmt.Sprintf("No image results found for %q.", p.Query), nil
			}

			if !p.ValidateImages {
				return formatImageResults(candidates), nil
			}

			verdicts := t.batch.CheckAll(ctx, candidates)
			sel := imagecheck.Select(candidates, verdicts, p.NumResults)
			span.SetAttributes(
				tracer.IntAttr("validate.checked", sel.TotalChecked),
				tracer.IntAttr("validate.valid", sel.TotalValid),
			)

			if len(sel.Items) == 0 {
				return fmt.Sprintf("Found %d image results for %q, but none passed validation (dead links or placeholder images).",
					len(candidates), p.Query), nil
			}

			t.logger.Debug("image search validated",
				"query", p.Query, "checked", sel.TotalChecked,
				"valid", sel.TotalValid, "returned", len(sel.Items))

			return fmt.Sprintf("%d valid out of %d checked, returning %d.\n\n%s",
				sel.TotalValid, sel.TotalChecked, len(sel.Items),
				formatImageResults(sel.Items)), nil
		},
	)
}
