package tool

import (
	"fmt"
	"strconv"
	"strings"

	"search-mcp/internal/domain"
)

// blockDelimiter separates numbered result blocks in tool output.
const blockDelimiter = "\n---\n"

// Fallbacks for fields the provider may omit.
const (
	noTitle       = "Untitled"
	noURL         = "No URL"
	noSnippet     = "No description"
	noThumbnail   = "No thumbnail"
	noContextLink = "No source page"
)

// formatWebResults renders text search results as numbered blocks.
func formatWebResults(results []domain.WebResult) string {
	blocks := make([]string, 0, len(results))
	for i, r := range results {
		blocks = append(blocks, fmt.Sprintf("%d. %s\n   URL: %s\n   %s",
			i+1,
			fallback(r.Title, noTitle),
			fallback(r.Link, noURL),
			fallback(r.Snippet, noSnippet),
		))
	}
	return strings.Join(blocks, blockDelimiter)
}

// formatImageResults renders image results as numbered blocks with thumbnail,
// source page, and dimensions.
func formatImageResults(items []domain.ImageResult) string {
	blocks := make([]string, 0, len(items))
	for i, r := range items {
		blocks = append(blocks, fmt.Sprintf("%d. %s\n   URL: %s\n   Thumbnail: %s\n   Source: %s\n   Dimensions: %s",
			i+1,
			fallback(r.Title, noTitle),
			fallback(r.Link, noURL),
			fallback(r.ThumbnailLink, noThumbnail),
			fallback(r.ContextLink, noContextLink),
			dimensions(r.Width, r.Height),
		))
	}
	return strings.Join(blocks, blockDelimiter)
}

// dimensions renders "WxH" with "?" for unknown values.
func dimensions(w, h int) string {
	return dimension(w) + "x" + dimension(h)
}

func dimension(v int) string {
	if v <= 0 {
		return "?"
	}
	return strconv.Itoa(v)
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
