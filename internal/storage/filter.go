package storage

import (
	"strings"

	"github.com/reputable-tech/memory-bank/internal/models"
)

// Criteria narrows a template listing. Empty fields match everything.
type Criteria struct {
	Type  string
	Query string
}

// IsEmpty reports whether no filter is set
func (c Criteria) IsEmpty() bool {
	return c.Type == "" && c.Query == ""
}

// Filter keeps the templates whose type equals c.Type and whose title or
// description contains c.Query, ignoring case. The input is not modified.
func Filter(templates []models.TemplateSummary, c Criteria) []models.TemplateSummary {
	if c.IsEmpty() {
		return append(make([]models.TemplateSummary, 0, len(templates)), templates...)
	}

	query := strings.ToLower(c.Query)
	filtered := make([]models.TemplateSummary, 0, len(templates))
	for _, t := range templates {
		if c.Type != "" && string(t.Type) != c.Type {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Title), query) &&
			!strings.Contains(strings.ToLower(t.Description), query) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}
