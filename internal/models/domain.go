package models

// Domain is a named collection of templates stored in its own subdirectory
type Domain struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	AccentColor string   `json:"accentColor"`
	Focus       []string `json:"focus"`
}

// DomainWithCount pairs a domain with the number of templates on disk
type DomainWithCount struct {
	Domain
	TemplateCount int `json:"templateCount"`
}
