package scraper

import (
	"bytes"
	"encoding/json"
	"strings"
)

// StatusSuccess is the status value the scrape endpoint reports on success
const StatusSuccess = "success"

// ScrapeResponse is the body returned by POST /scrape
type ScrapeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// UnmarshalJSON accepts any JSON value for status and message. Non-string
// values are kept as their JSON text so "Error: "+Message still shows
// what the backend sent; null and missing fields are empty.
func (r *ScrapeResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		Status  json.RawMessage `json:"status"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Status = jsonText(raw.Status)
	r.Message = jsonText(raw.Message)
	return nil
}

// jsonText renders a raw JSON value as display text: strings unquoted,
// null or absent as "", anything else verbatim
func jsonText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// Succeeded reports whether the backend accepted and completed the scrape
func (r *ScrapeResponse) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}

// ScrapedData is the body returned by GET /scraped-data.
// Data is kept raw because the backend does not promise a string.
type ScrapedData struct {
	Data json.RawMessage `json:"data,omitempty"`
}

// Text returns the preview text carried by the response, or "" when the
// data field is missing or falsy (null, false, 0, "").
// Non-string values are returned as their JSON text.
func (d *ScrapedData) Text() string {
	if d == nil {
		return ""
	}
	raw := bytes.TrimSpace(d.Data)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case 'n', 'f':
		// null, false
		return ""
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil || n == 0 {
			return ""
		}
		return strings.TrimSpace(string(raw))
	}

	return string(raw)
}
