package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// Palette holds the adaptive colors of the browser
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	TextDim   lipgloss.Color
	Border    lipgloss.Color
}

var darkPalette = Palette{
	Primary:   lipgloss.Color("205"),
	Secondary: lipgloss.Color("33"),
	Accent:    lipgloss.Color("214"),
	Success:   lipgloss.Color("10"),
	Warning:   lipgloss.Color("11"),
	Error:     lipgloss.Color("9"),
	Text:      lipgloss.Color("252"),
	TextMuted: lipgloss.Color("244"),
	TextDim:   lipgloss.Color("240"),
	Border:    lipgloss.Color("238"),
}

var lightPalette = Palette{
	Primary:   lipgloss.Color("125"),
	Secondary: lipgloss.Color("24"),
	Accent:    lipgloss.Color("130"),
	Success:   lipgloss.Color("22"),
	Warning:   lipgloss.Color("136"),
	Error:     lipgloss.Color("160"),
	Text:      lipgloss.Color("232"),
	TextMuted: lipgloss.Color("240"),
	TextDim:   lipgloss.Color("244"),
	Border:    lipgloss.Color("248"),
}

// DetectPalette picks the palette for the terminal background.
// GLAMOUR_STYLE=light or dark forces one.
func DetectPalette() Palette {
	switch os.Getenv("GLAMOUR_STYLE") {
	case "light":
		return lightPalette
	case "dark":
		return darkPalette
	}
	if lipgloss.HasDarkBackground() {
		return darkPalette
	}
	return lightPalette
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// Styles are the rendered building blocks of every view
type Styles struct {
	palette Palette

	Title      lipgloss.Style
	Breadcrumb lipgloss.Style
	Metadata   lipgloss.Style
	Help       lipgloss.Style
	Loading    lipgloss.Style
	Content    lipgloss.Style
	Scroll     lipgloss.Style

	Info    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles builds the styles for p
func NewStyles(p Palette) Styles {
	status := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	return Styles{
		palette:    p,
		Title:      lipgloss.NewStyle().Foreground(p.Primary).Bold(true).Padding(0, 1),
		Breadcrumb: lipgloss.NewStyle().Foreground(p.TextMuted).Padding(0, 1),
		Metadata:   lipgloss.NewStyle().Foreground(p.TextDim).Padding(0, 1),
		Help:       lipgloss.NewStyle().Foreground(p.TextDim).Padding(0, 1),
		Loading:    lipgloss.NewStyle().Foreground(p.Secondary).Italic(true).Padding(0, 1),
		Content: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		Scroll: lipgloss.NewStyle().Foreground(p.TextDim).Align(lipgloss.Right),

		Info:    status.Foreground(p.Secondary),
		Success: status.Foreground(p.Success),
		Warning: status.Foreground(p.Warning),
		Error:   status.Foreground(p.Error),
	}
}

// Header renders the view title followed by its breadcrumb trail
func (s Styles) Header(title string, crumbs ...string) string {
	header := s.Title.Render(title)
	if len(crumbs) == 0 {
		return header
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, header, s.Breadcrumb.Render(strings.Join(crumbs, " › ")))
}

// AccentTitle renders a title in a domain's accent color
func (s Styles) AccentTitle(title, accent string) string {
	if accent == "" {
		return s.Title.Render(title)
	}
	return s.Title.Foreground(lipgloss.Color(accent)).Render(title)
}

// Status renders a transient status line
func (s Styles) Status(text string, kind statusKind) string {
	switch kind {
	case statusSuccess:
		return s.Success.Render(text)
	case statusWarning:
		return s.Warning.Render(text)
	case statusError:
		return s.Error.Render(text)
	default:
		return s.Info.Render(text)
	}
}

// Delegate returns a list delegate colored with the palette
func (s Styles) Delegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(s.palette.Primary).
		BorderLeftForeground(s.palette.Primary)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(s.palette.Accent).
		BorderLeftForeground(s.palette.Primary)
	d.Styles.NormalDesc = d.Styles.NormalDesc.Foreground(s.palette.TextMuted)
	return d
}
