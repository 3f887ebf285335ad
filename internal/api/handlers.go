package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/reputable-tech/memory-bank/internal/errors"
	"github.com/reputable-tech/memory-bank/internal/storage"
	"github.com/reputable-tech/memory-bank/internal/validation"
)

// handleListTemplates handles GET /api/templates
func (s *APIServer) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	params := validation.ParseListParams(r.URL.Query())

	templates, err := s.service.ListTemplates(r.Context(), storage.Criteria{Type: params.Type, Query: params.Query})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeResponse(w, templates, s.newMeta().withCount(len(templates)))
}

// handleGetTemplate handles GET /api/templates/{slug}
func (s *APIServer) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := s.service.GetTemplate(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeResponse(w, template, s.newMeta())
}

// handleGetTemplateHTML handles GET /api/templates/{slug}/html
func (s *APIServer) handleGetTemplateHTML(w http.ResponseWriter, r *http.Request) {
	template, err := s.service.GetTemplate(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeHTML(w, template.Content)
}

// handleListLibraries handles GET /api/libraries
func (s *APIServer) handleListLibraries(w http.ResponseWriter, r *http.Request) {
	domains, err := s.service.ListDomains(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeResponse(w, domains, s.newMeta().withCount(len(domains)))
}

// handleListDomainTemplates handles GET /api/libraries/{domain}
func (s *APIServer) handleListDomainTemplates(w http.ResponseWriter, r *http.Request) {
	params := validation.ParseListParams(r.URL.Query())

	domain, templates, err := s.service.ListDomainTemplates(r.Context(), chi.URLParam(r, "domain"),
		storage.Criteria{Type: params.Type, Query: params.Query})
	if err != nil {
		s.writeError(w, err)
		return
	}

	meta := s.newMeta().withCount(len(templates))
	meta.Domain = domain.Name
	s.writeResponse(w, templates, meta)
}

// handleGetDomainTemplate handles GET /api/libraries/{domain}/{slug}
func (s *APIServer) handleGetDomainTemplate(w http.ResponseWriter, r *http.Request) {
	domain, template, err := s.service.GetDomainTemplate(r.Context(), chi.URLParam(r, "domain"), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	meta := s.newMeta()
	meta.Domain = domain.Name
	s.writeResponse(w, template, meta)
}

// handleGetDomainTemplateHTML handles GET /api/libraries/{domain}/{slug}/html
func (s *APIServer) handleGetDomainTemplateHTML(w http.ResponseWriter, r *http.Request) {
	_, template, err := s.service.GetDomainTemplate(r.Context(), chi.URLParam(r, "domain"), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeHTML(w, template.Content)
}

// handleExport handles GET /api/export/{slug}
func (s *APIServer) handleExport(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	filename, body, err := s.service.Export(r.Context(), storage.GlobalLibrary, slug)
	if err != nil {
		if !errors.IsNotFound(err) {
			err = errors.Wrap(err, errors.ErrCodeExportFailed, "Failed to export template.").
				WithContext("slug", slug)
		}
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("failed to write export", zap.String("slug", slug), zap.Error(err))
	}
}

// handleSearch handles GET /api/search
func (s *APIServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	params, err := validation.ParseSearchParams(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}

	results, err := s.service.Search(r.Context(), params.Query, params.Domain)
	if err != nil {
		s.writeError(w, err)
		return
	}

	meta := s.newMeta().withCount(len(results))
	if params.Domain != "" {
		if domain, err := s.service.GetDomain(params.Domain); err == nil {
			meta.Domain = domain.Name
		}
	}
	s.writeResponse(w, results, meta)
}

// handleListGuide handles GET /api/guide
func (s *APIServer) handleListGuide(w http.ResponseWriter, r *http.Request) {
	steps := s.service.GuideSteps()
	s.writeResponse(w, steps, s.newMeta().withCount(len(steps)))
}

// handleGetGuide handles GET /api/guide/{step}
func (s *APIServer) handleGetGuide(w http.ResponseWriter, r *http.Request) {
	page, err := s.service.GetGuidePage(r.Context(), chi.URLParam(r, "step"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeResponse(w, page, s.newMeta())
}

// handleHealth handles GET /api/health
func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	health, err := s.service.Health(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeResponse(w, health, s.newMeta())
}

// writeHTML renders markdown to a sanitized HTML fragment
func (s *APIServer) writeHTML(w http.ResponseWriter, markdown string) {
	html, err := s.renderer.RenderHTML(markdown)
	if err != nil {
		s.writeError(w, errors.Wrap(err, errors.ErrCodeTemplateFetchFailed, "Failed to load template."))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
