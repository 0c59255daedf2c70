package models

// PageStatus records which path produced a page's text.
type PageStatus string

const (
	PageStripped PageStatus = "stripped" // embedded text layer
	PageOCRed    PageStatus = "ocr"      // rasterized + recognized
	PageFailed   PageStatus = "failed"   // contributes an empty string
)

// PageOutcome is produced exactly once per page by the task that processed it.
type PageOutcome struct {
	Index  int        `json:"index"`
	Text   string     `json:"-"`
	Status PageStatus `json:"status"`
	Err    error      `json:"-"`
}

// ExtractedDocument is the result of one extraction call.
//
// Text:      page texts joined in ascending index order with no separator.
// PageCount: number of pages in the source document.
// Pages:     one outcome per page, sorted by index.
type ExtractedDocument struct {
	Text      string
	PageCount int
	Pages     []PageOutcome
}

// CountByStatus returns how many pages ended with the given status.
func (d *ExtractedDocument) CountByStatus(status PageStatus) int {
	n := 0
	for _, p := range d.Pages {
		if p.Status == status {
			n++
		}
	}
	return n
}

// ExtractionResult is the JSON body returned by the extraction endpoints.
type ExtractionResult struct {
	Text      string        `json:"text"`
	FileName  string        `json:"fileName"`
	PageCount int           `json:"pageCount"`
	Pages     []PageOutcome `json:"pages,omitempty"`
}

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
