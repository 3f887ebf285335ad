package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/reputable-tech/memory-bank/internal/catalog"
	"github.com/reputable-tech/memory-bank/internal/config"
	"github.com/reputable-tech/memory-bank/internal/errors"
	"github.com/reputable-tech/memory-bank/internal/models"
	"github.com/reputable-tech/memory-bank/internal/storage"
)

// Version is reported in response metadata and by the version command
const Version = "1.0.0"

// Service provides the read operations shared by the API, CLI and terminal browser
type Service struct {
	repo   *storage.Repository
	logger *zap.Logger
}

// NewService creates a service over an existing repository
func NewService(repo *storage.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		logger: logger.Named("service"),
	}
}

// FromConfig builds the repository described by cfg and wraps it in a service
func FromConfig(cfg *config.Config, logger *zap.Logger) *Service {
	repo := storage.NewRepository(storage.Options{
		LibraryRoot:     cfg.Library.Root,
		DomainsRoot:     cfg.Library.DomainsRoot,
		GuideRoot:       cfg.Library.GuideRoot,
		LoadConcurrency: cfg.Library.LoadConcurrency,
		Logger:          logger,
	})
	return NewService(repo, logger)
}

// ListTemplates returns the general library, optionally filtered
func (s *Service) ListTemplates(ctx context.Context, criteria storage.Criteria) ([]models.TemplateSummary, error) {
	templates, err := s.repo.LoadAll(ctx, storage.GlobalLibrary)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTemplatesFetchFailed, "Failed to load templates.")
	}
	return storage.Filter(templates, criteria), nil
}

// GetTemplate returns a template from the general library
func (s *Service) GetTemplate(ctx context.Context, slug string) (*models.Template, error) {
	template, err := s.lookup(ctx, storage.GlobalLibrary, slug)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, errors.TemplateNotFound(slug)
	}
	return template, nil
}

// ListDomains returns every domain with the live number of templates on disk
func (s *Service) ListDomains(ctx context.Context) ([]models.DomainWithCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBanksFetchFailed, "Failed to load memory banks.")
	}

	domains := catalog.Domains()
	result := make([]models.DomainWithCount, 0, len(domains))
	for _, d := range domains {
		result = append(result, models.DomainWithCount{
			Domain:        d,
			TemplateCount: s.repo.Count(storage.DomainLibrary(d.Slug)),
		})
	}
	return result, nil
}

// GetDomain returns the catalog entry for slug
func (s *Service) GetDomain(slug string) (models.Domain, error) {
	domain, ok := catalog.Domain(slug)
	if !ok {
		return models.Domain{}, errors.DomainNotFound(slug)
	}
	return domain, nil
}

// ListDomainTemplates returns the templates of one domain, optionally filtered
func (s *Service) ListDomainTemplates(ctx context.Context, domainSlug string, criteria storage.Criteria) (models.Domain, []models.TemplateSummary, error) {
	domain, err := s.GetDomain(domainSlug)
	if err != nil {
		return models.Domain{}, nil, err
	}

	templates, err := s.repo.LoadAll(ctx, storage.DomainLibrary(domain.Slug))
	if err != nil {
		return domain, nil, errors.Wrap(err, errors.ErrCodeTemplatesFetchFailed, "Failed to load domain templates.").
			WithContext("domain", domain.Slug)
	}
	return domain, storage.Filter(templates, criteria), nil
}

// GetDomainTemplate returns a template from a domain library
func (s *Service) GetDomainTemplate(ctx context.Context, domainSlug, slug string) (models.Domain, *models.Template, error) {
	domain, err := s.GetDomain(domainSlug)
	if err != nil {
		return models.Domain{}, nil, err
	}

	template, err := s.lookup(ctx, storage.DomainLibrary(domain.Slug), slug)
	if err != nil {
		return domain, nil, err
	}
	if template == nil {
		return domain, nil, errors.DomainTemplateNotFound(domain.Slug, slug)
	}
	return domain, template, nil
}

// Export returns the attachment file name and markdown body of a template
func (s *Service) Export(ctx context.Context, lib storage.Library, slug string) (string, []byte, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, errors.Wrap(err, errors.ErrCodeExportFailed, "Failed to export template.")
	}
	if !lib.IsGlobal() && !catalog.IsDomain(lib.Domain) {
		return "", nil, errors.DomainNotFound(lib.Domain)
	}

	template, ok := s.repo.LoadTemplate(ctx, lib, slug)
	if !ok {
		if !lib.IsGlobal() {
			return "", nil, errors.DomainTemplateNotFound(lib.Domain, slug)
		}
		return "", nil, errors.TemplateNotFound(slug)
	}
	return slug + ".md", []byte(template.Content), nil
}

// GuideSteps returns the guide table of contents
func (s *Service) GuideSteps() []models.GuideStep {
	return catalog.GuideSteps()
}

// GetGuidePage returns a guide step with its markdown and neighbours.
// A step without a file on disk is returned with empty content.
func (s *Service) GetGuidePage(ctx context.Context, slug string) (*models.GuidePage, error) {
	step, ok := catalog.GuideStep(slug)
	if !ok {
		return nil, errors.GuideStepNotFound(slug)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGuideFetchFailed, "Failed to load guide.")
	}

	content, found := s.repo.LoadGuide(ctx, step.Slug)
	if !found {
		s.logger.Info("guide page has no content", zap.String("step", step.Slug))
	}

	prev, next := catalog.AdjacentSteps(step.Slug)
	return &models.GuidePage{
		GuideStep: step,
		Content:   content,
		Total:     len(catalog.GuideSteps()),
		Prev:      prev,
		Next:      next,
	}, nil
}

// Search ranks templates by fuzzy match against title, description, slug and type.
// An empty domain searches the general library.
func (s *Service) Search(ctx context.Context, query, domainSlug string) ([]models.TemplateSummary, error) {
	lib := storage.GlobalLibrary
	if domainSlug != "" {
		domain, err := s.GetDomain(domainSlug)
		if err != nil {
			return nil, err
		}
		lib = storage.DomainLibrary(domain.Slug)
	}

	templates, err := s.repo.LoadAll(ctx, lib)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTemplatesFetchFailed, "Failed to load templates.")
	}

	return FuzzyRank(templates, query), nil
}

// FuzzyRank orders templates by how well they match query. Non-matching templates are dropped.
func FuzzyRank(templates []models.TemplateSummary, query string) []models.TemplateSummary {
	if query == "" {
		return templates
	}

	searchStrings := make([]string, 0, len(templates))
	for _, t := range templates {
		searchStrings = append(searchStrings, fmt.Sprintf("%s %s %s %s",
			t.Title,
			t.Description,
			t.Slug,
			t.Type,
		))
	}

	matches := fuzzy.Find(query, searchStrings)

	results := make([]models.TemplateSummary, 0, len(matches))
	for _, match := range matches {
		results = append(results, templates[match.Index])
	}
	return results
}

// Health summarizes what the service can currently see on disk
type Health struct {
	Templates       int    `json:"templates"`
	Domains         int    `json:"domains"`
	DomainTemplates int    `json:"domainTemplates"`
	Version         string `json:"version"`
}

// Health counts the template files of every library
func (s *Service) Health(ctx context.Context) (Health, error) {
	domains, err := s.ListDomains(ctx)
	if err != nil {
		return Health{}, err
	}

	health := Health{
		Templates: s.repo.Count(storage.GlobalLibrary),
		Domains:   len(domains),
		Version:   Version,
	}
	for _, d := range domains {
		health.DomainTemplates += d.TemplateCount
	}
	return health, nil
}

// lookup collapses load errors into absence after logging the outcome
func (s *Service) lookup(ctx context.Context, lib storage.Library, slug string) (*models.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTemplateFetchFailed, "Failed to load template.")
	}

	result := s.repo.Lookup(ctx, lib, slug)
	switch result.Status {
	case storage.StatusFound:
		return result.Template, nil
	case storage.StatusLoadError:
		s.logger.Debug("template unreadable, reporting as not found",
			zap.Stringer("library", lib),
			zap.String("slug", slug),
			zap.Error(result.Err),
		)
	}
	return nil, nil
}

// ParseLibrary maps an optional domain flag to a library
func ParseLibrary(domain string) storage.Library {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return storage.GlobalLibrary
	}
	return storage.DomainLibrary(domain)
}
