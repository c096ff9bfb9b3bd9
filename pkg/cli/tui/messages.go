package tui

import "github.com/google/uuid"

// pollTickMsg fires once per poll interval
type pollTickMsg struct{}

// previewLoadedMsg carries the result of one scraped-data poll
type previewLoadedMsg struct {
	text string
	err  error
}

// scrapeDoneMsg carries the status line produced by one submission
type scrapeDoneMsg struct {
	id     uuid.UUID
	status string
}
