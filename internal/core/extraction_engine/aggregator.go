package extraction_engine

import (
	"sort"
	"strings"

	"github.com/markdave123-py/pagetext/internal/models"
)

// aggregate waits for n outcomes, orders them by page index and joins their text.
// Failed pages keep their slot in Pages but add nothing to Text.
func aggregate(results <-chan models.PageOutcome, n int) *models.ExtractedDocument {
	pages := make([]models.PageOutcome, 0, n)
	for len(pages) < n {
		pages = append(pages, <-results)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })

	var b strings.Builder
	for _, p := range pages {
		switch p.Status {
		case models.PageStripped, models.PageOCRed:
			b.WriteString(p.Text)
		case models.PageFailed:
		}
	}

	return &models.ExtractedDocument{
		Text:      b.String(),
		PageCount: n,
		Pages:     pages,
	}
}
