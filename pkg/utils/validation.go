package utils

import (
	"errors"
	"strings"
)

// ErrEmptyURL is returned when the user submits a blank URL
var ErrEmptyURL = errors.New("URL is required")

// ValidateURL trims raw and returns it, or ErrEmptyURL if nothing is left.
// The backend decides what a valid URL is; only emptiness is checked here.
func ValidateURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrEmptyURL
	}
	return s, nil
}
