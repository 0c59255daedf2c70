package extraction_engine

import (
	"fmt"

	"github.com/markdave123-py/pagetext/internal/core"
)

// splitPages returns one handle per page, in order. Any failure aborts the whole document.
func splitPages(doc core.Document) ([]core.Page, error) {
	n := doc.PageCount()
	if n < 0 {
		return nil, core.SplitError(fmt.Sprintf("invalid page count %d", n), nil)
	}

	pages := make([]core.Page, 0, n)
	for i := 0; i < n; i++ {
		p, err := doc.Page(i)
		if err != nil {
			return nil, core.SplitError(fmt.Sprintf("open page %d", i), err)
		}
		if p.Index() != i {
			return nil, core.SplitError(fmt.Sprintf("page %d reports index %d", i, p.Index()), nil)
		}
		pages = append(pages, p)
	}
	return pages, nil
}
