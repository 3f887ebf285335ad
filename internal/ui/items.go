package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/reputable-tech/memory-bank/internal/models"
	"github.com/reputable-tech/memory-bank/internal/service"
	"github.com/reputable-tech/memory-bank/internal/storage"
)

// scopeItem is one entry of the scope picker: the general library or a domain
type scopeItem struct {
	library     storage.Library
	name        string
	description string
	accent      string
	count       int
}

func (s scopeItem) Title() string {
	return fmt.Sprintf("%s (%d)", s.name, s.count)
}

func (s scopeItem) Description() string { return s.description }

func (s scopeItem) FilterValue() string { return s.name + " " + s.library.Domain }

// templateItem adapts a summary to list.DefaultItem. The summary's own Title
// and Description are fields, so it cannot satisfy the interface directly.
type templateItem struct {
	summary models.TemplateSummary
}

func (t templateItem) Title() string { return t.summary.Title }

func (t templateItem) Description() string {
	return fmt.Sprintf("%s · %s", t.summary.Type, t.summary.Description)
}

func (t templateItem) FilterValue() string {
	return t.summary.Title + " " + t.summary.Slug + " " + t.summary.Description
}

type scopesLoadedMsg struct {
	scopes []scopeItem
	err    error
}

type templatesLoadedMsg struct {
	scope     scopeItem
	templates []models.TemplateSummary
	err       error
}

type templateLoadedMsg struct {
	template *models.Template
	err      error
}

type copyResultMsg struct {
	message string
	err     error
}

// loadScopesCmd counts the general library and every domain
func loadScopesCmd(ctx context.Context, svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		templates, err := svc.ListTemplates(ctx, storage.Criteria{})
		if err != nil {
			return scopesLoadedMsg{err: err}
		}
		domains, err := svc.ListDomains(ctx)
		if err != nil {
			return scopesLoadedMsg{err: err}
		}

		scopes := make([]scopeItem, 0, len(domains)+1)
		scopes = append(scopes, scopeItem{
			library:     storage.GlobalLibrary,
			name:        "Memory Bank library",
			description: "General templates for any project",
			count:       len(templates),
		})
		for _, d := range domains {
			scopes = append(scopes, scopeItem{
				library:     storage.DomainLibrary(d.Slug),
				name:        d.Name,
				description: d.Description,
				accent:      d.AccentColor,
				count:       d.TemplateCount,
			})
		}
		return scopesLoadedMsg{scopes: scopes}
	}
}

// loadTemplatesCmd lists the templates of one scope
func loadTemplatesCmd(ctx context.Context, svc *service.Service, scope scopeItem) tea.Cmd {
	return func() tea.Msg {
		if scope.library.IsGlobal() {
			templates, err := svc.ListTemplates(ctx, storage.Criteria{})
			return templatesLoadedMsg{scope: scope, templates: templates, err: err}
		}
		_, templates, err := svc.ListDomainTemplates(ctx, scope.library.Domain, storage.Criteria{})
		return templatesLoadedMsg{scope: scope, templates: templates, err: err}
	}
}

func getTemplate(ctx context.Context, svc *service.Service, lib storage.Library, slug string) (*models.Template, error) {
	if lib.IsGlobal() {
		return svc.GetTemplate(ctx, slug)
	}
	_, template, err := svc.GetDomainTemplate(ctx, lib.Domain, slug)
	return template, err
}

// loadTemplateCmd reads one template for the detail view
func loadTemplateCmd(ctx context.Context, svc *service.Service, lib storage.Library, slug string) tea.Cmd {
	return func() tea.Msg {
		template, err := getTemplate(ctx, svc, lib, slug)
		return templateLoadedMsg{template: template, err: err}
	}
}

// copyTemplateCmd reads a template and copies its content
func copyTemplateCmd(ctx context.Context, svc *service.Service, copyFn func(string) (string, error), lib storage.Library, slug string) tea.Cmd {
	return func() tea.Msg {
		template, err := getTemplate(ctx, svc, lib, slug)
		if err != nil {
			return copyResultMsg{err: err}
		}
		message, err := copyFn(template.Content)
		return copyResultMsg{message: message, err: err}
	}
}
