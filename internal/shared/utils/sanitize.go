package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips every HTML tag from free text. Entities produced by the
// policy are decoded again so "R&D" survives a round trip.
func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

func SanitizeTexts(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, SanitizeText(item))
	}
	return out
}
