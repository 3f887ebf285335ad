package api

import (
	"encoding/json"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/reputable-tech/memory-bank/internal/errors"
	"github.com/reputable-tech/memory-bank/internal/models"
	"github.com/reputable-tech/memory-bank/internal/service"
)

// handleOpenAPI serves the OpenAPI documentation interface
func (s *APIServer) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Memory Bank API Documentation</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui.css" />
    <style>
        body { margin:0; background: #fafafa; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4.15.5/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            SwaggerUIBundle({
                url: '/api/openapi.json',
                dom_id: '#swagger-ui',
                deepLinking: true
            });
        };
    </script>
</body>
</html>`

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// handleOpenAPISpec serves the OpenAPI JSON document
func (s *APIServer) handleOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	body, err := json.Marshal(OpenAPIDocument())
	if err != nil {
		s.writeError(w, errors.Wrap(err, errors.ErrCodeInternalError, "Internal error occurred."))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// OpenAPIDocument describes every route served by APIServer
func OpenAPIDocument() *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Memory Bank API",
			Description: "Browse memory templates of the general library and the domain libraries.",
			Version:     service.Version,
		},
		Paths: openapi3.NewPaths(),
	}

	typeValues := make([]interface{}, 0, len(models.TemplateTypes))
	for _, t := range models.TemplateTypes {
		typeValues = append(typeValues, string(t))
	}

	summary := openapi3.NewObjectSchema().
		WithProperty("slug", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("type", openapi3.NewStringSchema()).
		WithProperty("priority", openapi3.NewStringSchema().WithEnum("high", "medium", "low")).
		WithProperty("scope", openapi3.NewStringSchema().WithEnum("project", "session", "system"))

	template := openapi3.NewObjectSchema().
		WithProperty("slug", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("type", openapi3.NewStringSchema()).
		WithProperty("priority", openapi3.NewStringSchema()).
		WithProperty("scope", openapi3.NewStringSchema()).
		WithProperty("content", openapi3.NewStringSchema()).
		WithProperty("version", openapi3.NewStringSchema()).
		WithProperty("createdAt", openapi3.NewDateTimeSchema()).
		WithProperty("updatedAt", openapi3.NewDateTimeSchema())

	domain := openapi3.NewObjectSchema().
		WithProperty("slug", openapi3.NewStringSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("accentColor", openapi3.NewStringSchema()).
		WithProperty("focus", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("templateCount", openapi3.NewIntegerSchema())

	guideStep := openapi3.NewObjectSchema().
		WithProperty("step", openapi3.NewStringSchema()).
		WithProperty("slug", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema())

	guidePage := openapi3.NewObjectSchema().
		WithProperty("step", openapi3.NewStringSchema()).
		WithProperty("slug", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("content", openapi3.NewStringSchema()).
		WithProperty("total", openapi3.NewIntegerSchema()).
		WithProperty("prev", guideStep).
		WithProperty("next", guideStep)

	health := openapi3.NewObjectSchema().
		WithProperty("templates", openapi3.NewIntegerSchema()).
		WithProperty("domains", openapi3.NewIntegerSchema()).
		WithProperty("domainTemplates", openapi3.NewIntegerSchema()).
		WithProperty("version", openapi3.NewStringSchema())

	typeParam := openapi3.NewQueryParameter("type").
		WithDescription("Keep only templates of this memory type").
		WithSchema(openapi3.NewStringSchema().WithEnum(typeValues...))
	queryParam := openapi3.NewQueryParameter("q").
		WithDescription("Case-insensitive substring of title or description").
		WithSchema(openapi3.NewStringSchema().WithMaxLength(200))
	slugParam := openapi3.NewPathParameter("slug").WithSchema(openapi3.NewStringSchema())
	domainParam := openapi3.NewPathParameter("domain").WithSchema(openapi3.NewStringSchema())

	doc.AddOperation("/api/templates", http.MethodGet, operation("listTemplates", "List library templates",
		okJSON(envelopeSchema(openapi3.NewArraySchema().WithItems(summary))),
		withParams(typeParam, queryParam),
		withErrors(http.StatusInternalServerError)))

	doc.AddOperation("/api/templates/{slug}", http.MethodGet, operation("getTemplate", "Get a library template",
		okJSON(envelopeSchema(template)),
		withParams(slugParam),
		withErrors(http.StatusNotFound, http.StatusInternalServerError)))

	doc.AddOperation("/api/templates/{slug}/html", http.MethodGet, operation("getTemplateHTML", "Render a library template as HTML",
		okContent("text/html", openapi3.NewStringSchema()),
		withParams(slugParam),
		withErrors(http.StatusNotFound)))

	doc.AddOperation("/api/libraries", http.MethodGet, operation("listLibraries", "List domains with template counts",
		okJSON(envelopeSchema(openapi3.NewArraySchema().WithItems(domain))),
		withErrors(http.StatusInternalServerError)))

	doc.AddOperation("/api/libraries/{domain}", http.MethodGet, operation("listDomainTemplates", "List the templates of a domain",
		okJSON(envelopeSchema(openapi3.NewArraySchema().WithItems(summary))),
		withParams(domainParam, typeParam, queryParam),
		withErrors(http.StatusNotFound, http.StatusInternalServerError)))

	doc.AddOperation("/api/libraries/{domain}/{slug}", http.MethodGet, operation("getDomainTemplate", "Get a domain template",
		okJSON(envelopeSchema(template)),
		withParams(domainParam, slugParam),
		withErrors(http.StatusNotFound, http.StatusInternalServerError)))

	doc.AddOperation("/api/libraries/{domain}/{slug}/html", http.MethodGet, operation("getDomainTemplateHTML", "Render a domain template as HTML",
		okContent("text/html", openapi3.NewStringSchema()),
		withParams(domainParam, slugParam),
		withErrors(http.StatusNotFound)))

	doc.AddOperation("/api/export/{slug}", http.MethodGet, operation("exportTemplate", "Download a library template as markdown",
		okContent("text/markdown", openapi3.NewStringSchema()),
		withParams(slugParam),
		withErrors(http.StatusNotFound, http.StatusInternalServerError)))

	doc.AddOperation("/api/search", http.MethodGet, operation("searchTemplates", "Fuzzy search templates",
		okJSON(envelopeSchema(openapi3.NewArraySchema().WithItems(summary))),
		withParams(
			openapi3.NewQueryParameter("q").WithRequired(true).WithSchema(openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(200)),
			openapi3.NewQueryParameter("domain").WithSchema(openapi3.NewStringSchema()),
		),
		withErrors(http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError)))

	doc.AddOperation("/api/guide", http.MethodGet, operation("listGuideSteps", "List guide steps",
		okJSON(envelopeSchema(openapi3.NewArraySchema().WithItems(guideStep)))))

	doc.AddOperation("/api/guide/{step}", http.MethodGet, operation("getGuideStep", "Get a guide step with content",
		okJSON(envelopeSchema(guidePage)),
		withParams(openapi3.NewPathParameter("step").WithSchema(openapi3.NewStringSchema())),
		withErrors(http.StatusNotFound)))

	doc.AddOperation("/api/health", http.MethodGet, operation("health", "Service health",
		okJSON(envelopeSchema(health))))

	return doc
}

type operationOption func(*openapi3.Operation)

func operation(id, summary string, opts ...operationOption) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.Responses = openapi3.NewResponsesWithCapacity(4)
	for _, opt := range opts {
		opt(op)
	}
	return op
}

func okJSON(schema *openapi3.Schema) operationOption {
	return func(op *openapi3.Operation) {
		op.AddResponse(http.StatusOK, openapi3.NewResponse().WithDescription("OK").WithJSONSchema(schema))
	}
}

func okContent(mediaType string, schema *openapi3.Schema) operationOption {
	return func(op *openapi3.Operation) {
		op.AddResponse(http.StatusOK, openapi3.NewResponse().
			WithDescription("OK").
			WithContent(openapi3.NewContentWithSchema(schema, []string{mediaType})))
	}
}

func withParams(params ...*openapi3.Parameter) operationOption {
	return func(op *openapi3.Operation) {
		for _, p := range params {
			op.AddParameter(p)
		}
	}
}

func withErrors(statuses ...int) operationOption {
	return func(op *openapi3.Operation) {
		for _, status := range statuses {
			op.AddResponse(status, openapi3.NewResponse().
				WithDescription(http.StatusText(status)).
				WithJSONSchema(errorEnvelope()))
		}
	}
}

func envelopeSchema(data *openapi3.Schema) *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema().WithEnum("ok")).
		WithProperty("data", data).
		WithProperty("meta", openapi3.NewObjectSchema().
			WithProperty("count", openapi3.NewIntegerSchema()).
			WithProperty("domain", openapi3.NewStringSchema()).
			WithProperty("version", openapi3.NewStringSchema()).
			WithProperty("timestamp", openapi3.NewDateTimeSchema()))
}

func errorEnvelope() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema().WithEnum("error")).
		WithProperty("error", openapi3.NewObjectSchema().
			WithProperty("code", openapi3.NewStringSchema()).
			WithProperty("message", openapi3.NewStringSchema()))
}
