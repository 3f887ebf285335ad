package models

// TemplateType is the memory category a template belongs to
type TemplateType string

const (
	TypeArchitecture TemplateType = "architecture"
	TypeDesign       TemplateType = "design"
	TypeDevelopment  TemplateType = "development"
	TypeDeployment   TemplateType = "deployment"
	TypeStructure    TemplateType = "structure"
	TypeTech         TemplateType = "tech"
)

// TemplateTypes lists the known categories in display order
var TemplateTypes = []TemplateType{
	TypeArchitecture,
	TypeDesign,
	TypeDevelopment,
	TypeDeployment,
	TypeStructure,
	TypeTech,
}

// IsKnown reports whether t is one of the built-in categories.
// Unknown categories are still accepted when loading files.
func (t TemplateType) IsKnown() bool {
	for _, known := range TemplateTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Priority ranks how important a template is to load first
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Scope is the applicability level declared by a template
type Scope string

const (
	ScopeProject Scope = "project"
	ScopeSession Scope = "session"
	ScopeSystem  Scope = "system"
)

// Defaults applied when front matter omits a field
const (
	DefaultType     = TypeStructure
	DefaultPriority = PriorityMedium
	DefaultScope    = ScopeProject
	DefaultVersion  = "1.0.0"
)

// TemplateSummary is the listing view of a template
type TemplateSummary struct {
	Slug        string       `json:"slug"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        TemplateType `json:"type"`
	Priority    Priority     `json:"priority"`
	Scope       Scope        `json:"scope"`
}

// Template is a markdown file with its parsed front matter
type Template struct {
	TemplateSummary

	Content   string `json:"content"`
	Version   string `json:"version"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Summary returns the listing projection of the template
func (t *Template) Summary() TemplateSummary {
	return t.TemplateSummary
}
