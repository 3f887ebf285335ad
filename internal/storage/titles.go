package storage

// templateTitles maps well-known template slugs to display titles
var templateTitles = map[string]string{
	"architecture":           "System Architecture",
	"design-doc":             "Design Document",
	"tech-stack":             "Technology Stack",
	"folder-structure":       "Folder Structure",
	"development-guidelines": "Development Guidelines",
	"implementation-plan":    "Implementation Plan",
	"development-progress":   "Development Progress",
	"deployment-checklist":   "Deployment Checklist",
	"user-flow":              "User Flow",
	"data-model":             "Data Model",
	"api-design":             "API Design",
	"security-model":         "Security Model",
}

// ResolveTitle picks the explicit title, then the well-known title, then the slug.
func ResolveTitle(explicit, slug string) string {
	if explicit != "" {
		return explicit
	}
	if title, ok := templateTitles[slug]; ok {
		return title
	}
	return slug
}
