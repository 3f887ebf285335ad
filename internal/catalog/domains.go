// Package catalog holds the compiled-in collections the site is organised
// around: the domain libraries and the ordered guide steps.
package catalog

import "github.com/reputable-tech/memory-bank/internal/models"

var domainList = []models.Domain{
	{
		Slug:        "web-app",
		Name:        "Web App",
		Description: "Classic web applications with frontend-heavy, static + dynamic hybrid architecture",
		AccentColor: "#B7A9D9",
		Focus:       []string{"clarity", "UI logic", "routing", "component structure"},
	},
	{
		Slug:        "saas",
		Name:        "SaaS Platform",
		Description: "Multi-tenant applications with subscriptions, dashboards, and user management",
		AccentColor: "#DAF064",
		Focus:       []string{"auth", "billing", "infrastructure", "user roles"},
	},
	{
		Slug:        "ai-tool",
		Name:        "AI Tool",
		Description: "LLM-powered interfaces, assistants, and reasoning layers",
		AccentColor: "#2A2D22",
		Focus:       []string{"context memory", "prompt logic", "structured reasoning"},
	},
	{
		Slug:        "crypto-app",
		Name:        "Crypto App",
		Description: "On-chain dashboards, staking, custody, and validator infrastructure",
		AccentColor: "#D1B67A",
		Focus:       []string{"security", "node architecture", "RPCs", "wallet interactions"},
	},
	{
		Slug:        "data-dashboard",
		Name:        "Data Dashboard",
		Description: "Internal analytics tools and business intelligence dashboards",
		AccentColor: "#9EB9E8",
		Focus:       []string{"data visualization", "schema", "metrics", "interactions"},
	},
	{
		Slug:        "landing",
		Name:        "Landing Page",
		Description: "Single-page marketing sites with conversion-focused structure",
		AccentColor: "#E8E7E3",
		Focus:       []string{"copy clarity", "conversion structure", "page rhythm"},
	},
}

var domainIndex = func() map[string]int {
	index := make(map[string]int, len(domainList))
	for i, d := range domainList {
		index[d.Slug] = i
	}
	return index
}()

// Domains returns every domain in display order. The result is a copy.
func Domains() []models.Domain {
	out := make([]models.Domain, len(domainList))
	for i, d := range domainList {
		out[i] = cloneDomain(d)
	}
	return out
}

// Domain looks up a domain by slug
func Domain(slug string) (models.Domain, bool) {
	i, ok := domainIndex[slug]
	if !ok {
		return models.Domain{}, false
	}
	return cloneDomain(domainList[i]), true
}

// IsDomain reports whether slug names a known domain
func IsDomain(slug string) bool {
	_, ok := domainIndex[slug]
	return ok
}

func cloneDomain(d models.Domain) models.Domain {
	d.Focus = append([]string(nil), d.Focus...)
	return d
}
