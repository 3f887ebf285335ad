// Package ui implements the interactive terminal browser.
//
// The browser has three views: a scope picker (general library and each
// domain), the template list of the chosen scope with built-in filtering, and
// a detail view rendering the template with glamour. All data comes from
// internal/service, so files edited on disk show up the next time a view loads.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/reputable-tech/memory-bank/internal/clipboard"
	"github.com/reputable-tech/memory-bank/internal/errors"
	"github.com/reputable-tech/memory-bank/internal/models"
	"github.com/reputable-tech/memory-bank/internal/renderer"
	"github.com/reputable-tech/memory-bank/internal/service"
)

// ViewMode represents the current view in the TUI
type ViewMode int

const (
	ViewScopes ViewMode = iota
	ViewTemplates
	ViewDetail
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// title, breadcrumb, status and help lines
	reservedHeight = 6
	statusSeconds  = 3
)

// Model represents the TUI application state
type Model struct {
	ctx      context.Context
	service  *service.Service
	logger   *zap.Logger
	viewMode ViewMode

	// UI components
	scopeList    list.Model
	templateList list.Model
	viewport     viewport.Model
	help         help.Model
	keys         KeyMap
	styles       Styles

	// Data
	loading       bool
	currentScope  scopeItem
	selected      *models.Template
	glamourWidth  int
	termRenderer  *glamour.TermRenderer
	copyFunc      func(string) (string, error)

	// Window dimensions
	width  int
	height int

	// Status messages
	statusMsg     string
	statusKind    statusKind
	statusTimeout int

	showFullHelp bool
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, svc *service.Service, logger *zap.Logger) (*Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	styles := NewStyles(DetectPalette())

	scopes := newList(styles, "Memory Banks")
	templates := newList(styles, "Templates")

	vp := viewport.New(defaultWidth, defaultHeight-reservedHeight)
	vp.Style = lipgloss.NewStyle()

	tr, err := renderer.NewTerminalRenderer(defaultWidth - 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create glamour renderer: %w", err)
	}

	return &Model{
		ctx:           ctx,
		service:       svc,
		logger:        logger.Named("ui"),
		viewMode:      ViewScopes,
		scopeList:     scopes,
		templateList:  templates,
		viewport:      vp,
		help:          help.New(),
		keys:          keys,
		styles:        styles,
		loading:       true,
		glamourWidth:  defaultWidth - 4,
		termRenderer:  tr,
		copyFunc:      clipboard.CopyWithFallback,
		width:         defaultWidth,
		height:        defaultHeight,
	}, nil
}

func newList(styles Styles, title string) list.Model {
	l := list.New(nil, styles.Delegate(), defaultWidth, defaultHeight-reservedHeight)
	l.Title = title
	l.SetShowTitle(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return l
}

// Init loads the scope picker
func (m Model) Init() tea.Cmd {
	return loadScopesCmd(m.ctx, m.service)
}

// tickMsg is sent to count down the status message
type tickMsg time.Time

func clearStatusCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) setStatus(text string, kind statusKind) tea.Cmd {
	m.statusMsg = text
	m.statusKind = kind
	m.statusTimeout = statusSeconds
	return clearStatusCmd()
}

func (m *Model) setError(err error) tea.Cmd {
	appErr := errors.GetAppError(err)
	m.logger.Debug("browser operation failed",
		zap.String("code", string(appErr.Code)),
		zap.Error(appErr.Cause),
	)
	return m.setStatus(appErr.Message, statusError)
}

// Update handles messages and key presses
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		if m.statusTimeout > 0 {
			m.statusTimeout--
			if m.statusTimeout == 0 {
				m.statusMsg = ""
			} else {
				return m, clearStatusCmd()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case scopesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.setError(msg.err)
		}
		items := make([]list.Item, len(msg.scopes))
		for i, s := range msg.scopes {
			items[i] = s
		}
		return m, m.scopeList.SetItems(items)

	case templatesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.viewMode = ViewScopes
			return m, m.setError(msg.err)
		}
		items := make([]list.Item, len(msg.templates))
		for i, t := range msg.templates {
			items[i] = templateItem{summary: t}
		}
		m.templateList.ResetFilter()
		m.templateList.Select(0)
		return m, m.templateList.SetItems(items)

	case templateLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.viewMode = ViewTemplates
			return m, m.setError(msg.err)
		}
		m.selected = msg.template
		m.viewport.SetContent(m.renderTemplate(msg.template))
		m.viewport.GotoTop()
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, m.setError(msg.err)
		}
		return m, m.setStatus(msg.message, statusSuccess)

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	// Forward everything else to the active component
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewScopes:
		m.scopeList, cmd = m.scopeList.Update(msg)
	case ViewTemplates:
		m.templateList, cmd = m.templateList.Update(msg)
	case ViewDetail:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes browser-level key bindings. Keys typed while a list
// filter is being edited belong to the list.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return tea.Quit, true
	}
	if m.activeList() != nil && m.activeList().FilterState() == list.Filtering {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.showFullHelp = !m.showFullHelp
		return nil, true
	}

	switch m.viewMode {
	case ViewScopes:
		if key.Matches(msg, m.keys.Enter) {
			scope, ok := m.scopeList.SelectedItem().(scopeItem)
			if !ok {
				return nil, true
			}
			m.currentScope = scope
			m.viewMode = ViewTemplates
			m.loading = true
			return loadTemplatesCmd(m.ctx, m.service, scope), true
		}

	case ViewTemplates:
		switch {
		case key.Matches(msg, m.keys.Back):
			if m.templateList.FilterState() == list.FilterApplied {
				return nil, false
			}
			m.viewMode = ViewScopes
			return nil, true
		case key.Matches(msg, m.keys.Enter):
			item, ok := m.templateList.SelectedItem().(templateItem)
			if !ok {
				return nil, true
			}
			m.viewMode = ViewDetail
			m.selected = nil
			m.loading = true
			return loadTemplateCmd(m.ctx, m.service, m.currentScope.library, item.summary.Slug), true
		case key.Matches(msg, m.keys.Copy):
			item, ok := m.templateList.SelectedItem().(templateItem)
			if !ok {
				return nil, true
			}
			return copyTemplateCmd(m.ctx, m.service, m.copyFunc, m.currentScope.library, item.summary.Slug), true
		}

	case ViewDetail:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.viewMode = ViewTemplates
			return nil, true
		case key.Matches(msg, m.keys.Copy):
			if m.selected == nil {
				return nil, true
			}
			copyFn := m.copyFunc
			content := m.selected.Content
			return func() tea.Msg {
				message, err := copyFn(content)
				return copyResultMsg{message: message, err: err}
			}, true
		}
	}

	return nil, false
}

func (m *Model) activeList() *list.Model {
	switch m.viewMode {
	case ViewScopes:
		return &m.scopeList
	case ViewTemplates:
		return &m.templateList
	}
	return nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	available := height - reservedHeight
	if available < 5 {
		available = 5
	}
	m.scopeList.SetSize(width, available)
	m.templateList.SetSize(width, available)
	m.help.Width = width

	m.viewport.Width = width
	m.viewport.Height = available - 2

	wrap := width - 4
	if wrap < 40 {
		wrap = 40
	}
	if wrap != m.glamourWidth {
		if tr, err := renderer.NewTerminalRenderer(wrap); err == nil {
			m.termRenderer = tr
			m.glamourWidth = wrap
		}
	}
	if m.selected != nil {
		m.viewport.SetContent(m.renderTemplate(m.selected))
	}
}

// renderTemplate renders markdown for the viewport, falling back to the raw text
func (m *Model) renderTemplate(t *models.Template) string {
	rendered, err := m.termRenderer.Render(t.Content)
	if err != nil {
		m.logger.Debug("glamour rendering failed", zap.String("slug", t.Slug), zap.Error(err))
		return t.Content
	}
	return rendered
}

// View renders the current view
func (m Model) View() string {
	var body, header string

	switch m.viewMode {
	case ViewScopes:
		header = m.styles.Header("Memory Bank")
		body = m.scopeList.View()
	case ViewTemplates:
		header = m.styles.Header("Memory Bank", m.currentScope.name)
		body = m.templateList.View()
		if m.loading {
			body = m.styles.Loading.Render("Loading templates...")
		}
	case ViewDetail:
		header = m.styles.Header("Memory Bank", m.currentScope.name)
		switch {
		case m.loading || m.selected == nil:
			body = m.styles.Loading.Render("Loading template...")
		default:
			title := m.styles.AccentTitle(m.selected.Title, m.currentScope.accent)
			meta := m.styles.Metadata.Render(fmt.Sprintf("%s · %s priority · %s scope · %3.f%%",
				m.selected.Type, m.selected.Priority, m.selected.Scope, m.viewport.ScrollPercent()*100))
			body = lipgloss.JoinVertical(lipgloss.Left, title, meta, m.viewport.View())
		}
	}

	status := ""
	if m.statusMsg != "" {
		status = m.styles.Status(m.statusMsg, m.statusKind)
	}

	helpView := m.help.ShortHelpView(m.keys.ShortHelpFor(m.viewMode))
	if m.showFullHelp {
		helpView = m.help.FullHelpView(m.keys.FullHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		status,
		m.styles.Help.Render(helpView),
	)
}
