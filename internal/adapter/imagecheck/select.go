package imagecheck

import "search-mcp/internal/domain"

// Select filters candidates to those with a true verdict, preserving the
// provider's ranking, and truncates to the first n survivors. TotalValid
// counts survivors before truncation; TotalChecked counts candidates that
// received a verdict. A zero-survivor Selection with TotalChecked > 0 is how
// callers distinguish "all failed validation" from "no candidates at all".
func Select(candidates []domain.ImageResult, verdicts map[string]bool, n int) domain.Selection {
	sel := domain.Selection{}

	for _, c := range candidates {
		valid, checked := verdicts[c.Link]
		if checked {
			sel.TotalChecked++
		}
		if !valid {
			continue
		}
		sel.TotalValid++
		if len(sel.Items) < n {
			sel.Items = append(sel.Items, c)
		}
	}
	return sel
}
