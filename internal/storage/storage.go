// Package storage reads memory templates from the filesystem.
//
// Templates live in two kinds of libraries: the flat general library
// (<libraryRoot>/<slug>.md) and one directory per domain
// (<domainsRoot>/<domain>/<slug>.md). Every call reads the disk again;
// nothing is cached between calls.
package storage

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/reputable-tech/memory-bank/internal/models"
)

const (
	templateExt = ".md"

	defaultGlobalDescription = "Memory Bank cognitive template"
	defaultDomainDescription = "Domain-specific cognitive template"

	defaultLoadConcurrency = 8
)

// Library addresses either the general library or one domain library
type Library struct {
	Domain string
}

// GlobalLibrary is the flat general library
var GlobalLibrary = Library{}

// DomainLibrary addresses the library of a single domain
func DomainLibrary(domain string) Library {
	return Library{Domain: domain}
}

// IsGlobal reports whether l is the general library
func (l Library) IsGlobal() bool {
	return l.Domain == ""
}

func (l Library) String() string {
	if l.IsGlobal() {
		return "global"
	}
	return l.Domain
}

// Options configures a Repository
type Options struct {
	LibraryRoot     string
	DomainsRoot     string
	GuideRoot       string
	LoadConcurrency int
	Logger          *zap.Logger
}

// Repository loads templates and guide pages from disk
type Repository struct {
	libraryRoot string
	domainsRoot string
	guideRoot   string
	concurrency int
	logger      *zap.Logger
	now         func() time.Time
}

// NewRepository creates a repository over the configured roots
func NewRepository(opts Options) *Repository {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	concurrency := opts.LoadConcurrency
	if concurrency <= 0 {
		concurrency = defaultLoadConcurrency
	}

	return &Repository{
		libraryRoot: opts.LibraryRoot,
		domainsRoot: opts.DomainsRoot,
		guideRoot:   opts.GuideRoot,
		concurrency: concurrency,
		logger:      logger.Named("storage"),
		now:         time.Now,
	}
}

// Dir returns the directory holding the templates of lib
func (r *Repository) Dir(lib Library) string {
	if lib.IsGlobal() {
		return r.libraryRoot
	}
	return filepath.Join(r.domainsRoot, lib.Domain)
}

// Lookup loads a single template and reports how the lookup ended
func (r *Repository) Lookup(ctx context.Context, lib Library, slug string) LoadResult {
	if err := ctx.Err(); err != nil {
		return loadError(err)
	}
	if !isSafeSegment(slug) || (!lib.IsGlobal() && !isSafeSegment(lib.Domain)) {
		return notFound()
	}

	path := filepath.Join(r.Dir(lib), slug+templateExt)
	raw, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return notFound()
		}
		r.logger.Warn("failed to read template",
			zap.String("op", "load"),
			zap.Stringer("library", lib),
			zap.String("slug", slug),
			zap.String("path", path),
			zap.Error(err),
		)
		return loadError(err)
	}

	template, err := r.parseTemplate(lib, slug, raw)
	if err != nil {
		r.logger.Warn("failed to parse template",
			zap.String("op", "load"),
			zap.Stringer("library", lib),
			zap.String("slug", slug),
			zap.String("path", path),
			zap.Error(err),
		)
		return loadError(err)
	}

	return found(template)
}

// LoadTemplate returns the template for slug, or false when it is absent or unreadable
func (r *Repository) LoadTemplate(ctx context.Context, lib Library, slug string) (*models.Template, bool) {
	result := r.Lookup(ctx, lib, slug)
	if !result.Found() {
		return nil, false
	}
	return result.Template, true
}

// LoadAll returns the summary of every template directly under the library
// directory, in directory listing order. Files that fail to load are omitted.
// The only error returned is the context error when ctx is done.
func (r *Repository) LoadAll(ctx context.Context, lib Library) ([]models.TemplateSummary, error) {
	slugs := r.listSlugs(lib, "list")
	if len(slugs) == 0 {
		return []models.TemplateSummary{}, ctx.Err()
	}

	loaded := make([]*models.Template, len(slugs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, slug := range slugs {
		i, slug := i, slug
		g.Go(func() error {
			result := r.Lookup(gctx, lib, slug)
			if result.Found() {
				loaded[i] = result.Template
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]models.TemplateSummary, 0, len(slugs))
	for _, t := range loaded {
		if t != nil {
			summaries = append(summaries, t.Summary())
		}
	}
	return summaries, nil
}

// Count returns the number of template files in the library without parsing them
func (r *Repository) Count(lib Library) int {
	return len(r.listSlugs(lib, "count"))
}

// LoadGuide returns the markdown body of a guide page. Front matter, if any, is stripped.
func (r *Repository) LoadGuide(ctx context.Context, slug string) (string, bool) {
	if ctx.Err() != nil || !isSafeSegment(slug) {
		return "", false
	}

	path := filepath.Join(r.guideRoot, slug+templateExt)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("failed to read guide page",
				zap.String("op", "guide"),
				zap.String("slug", slug),
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return "", false
	}

	_, body, err := ParseFrontMatter(raw)
	if err != nil {
		// Guide pages are plain markdown; an odd header is shown as-is.
		return string(raw), true
	}
	return body, true
}

func (r *Repository) listSlugs(lib Library, op string) []string {
	if !lib.IsGlobal() && !isSafeSegment(lib.Domain) {
		return nil
	}

	dir := r.Dir(lib)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("failed to list templates",
				zap.String("op", op),
				zap.Stringer("library", lib),
				zap.String("path", dir),
				zap.Error(err),
			)
		}
		return nil
	}

	var slugs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, templateExt) {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, templateExt))
	}
	return slugs
}

func (r *Repository) parseTemplate(lib Library, slug string, raw []byte) (*models.Template, error) {
	header, body, err := ParseFrontMatter(raw)
	if err != nil {
		return nil, err
	}

	description := header.UseCase
	if description == "" {
		description = defaultGlobalDescription
		if !lib.IsGlobal() {
			description = defaultDomainDescription
		}
	}

	templateType := models.TemplateType(header.MemoryType)
	if templateType == "" {
		templateType = models.DefaultType
	}
	priority := models.Priority(header.Priority)
	if priority == "" {
		priority = models.DefaultPriority
	}
	scope := models.Scope(header.Scope)
	if scope == "" {
		scope = models.DefaultScope
	}

	stamp := r.now().UTC().Format(time.RFC3339)

	return &models.Template{
		TemplateSummary: models.TemplateSummary{
			Slug:        slug,
			Title:       ResolveTitle(header.Title, slug),
			Description: description,
			Type:        templateType,
			Priority:    priority,
			Scope:       scope,
		},
		Content:   body,
		Version:   models.DefaultVersion,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}, nil
}

// isSafeSegment reports whether s can be used as a single path element
func isSafeSegment(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`) && !strings.Contains(s, "..")
}
