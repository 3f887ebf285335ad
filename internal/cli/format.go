package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/reputable-tech/memory-bank/internal/models"
	"github.com/reputable-tech/memory-bank/internal/validation"
)

const maxDescriptionWidth = 48

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeTemplates prints template summaries as a table or JSON
func writeTemplates(w io.Writer, heading string, templates []models.TemplateSummary, format string) error {
	if format == validation.FormatJSON {
		return writeJSON(w, templates)
	}

	if len(templates) == 0 {
		printWarning(w, "No templates found.")
		return nil
	}

	t := newTable("SLUG", "TITLE", "TYPE", "PRIORITY", "DESCRIPTION")
	for _, tmpl := range templates {
		t.Row(tmpl.Slug, tmpl.Title, typeLabel(tmpl.Type), string(tmpl.Priority), truncate(tmpl.Description, maxDescriptionWidth))
	}

	printTitle(w, fmt.Sprintf("%s (%d)", heading, len(templates)))
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// writeDomains prints domains with their template counts
func writeDomains(w io.Writer, domains []models.DomainWithCount, format string) error {
	if format == validation.FormatJSON {
		return writeJSON(w, domains)
	}

	t := newTable("SLUG", "NAME", "TEMPLATES", "FOCUS")
	for _, d := range domains {
		t.Row(d.Slug, d.Name, strconv.Itoa(d.TemplateCount), strings.Join(d.Focus, ", "))
	}

	printTitle(w, fmt.Sprintf("Memory Banks (%d)", len(domains)))
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// typeLabel marks categories outside the built-in set
func typeLabel(t models.TemplateType) string {
	if t == "" || t.IsKnown() {
		return string(t)
	}
	return string(t) + " (custom)"
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
