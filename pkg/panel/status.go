package panel

import "scrape-panel-go/pkg/scraper"

// Status line values
const (
	StatusScraping = "Scraping..."
	StatusComplete = "Scraping complete!"

	errorPrefix      = "Error: "
	fetchErrorPrefix = "Fetch error: "
)

// StatusFor derives the status line from the outcome of a scrape request.
// A transport error wins over the response; otherwise a "success" status
// completes and anything else shows the backend's message verbatim.
func StatusFor(resp *scraper.ScrapeResponse, err error) string {
	if err != nil {
		return fetchErrorPrefix + err.Error()
	}
	if resp.Succeeded() {
		return StatusComplete
	}

	msg := ""
	if resp != nil {
		msg = resp.Message
	}
	return errorPrefix + msg
}

// IsComplete reports whether status is the completion message
func IsComplete(status string) bool {
	return status == StatusComplete
}
