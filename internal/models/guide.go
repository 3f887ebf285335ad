package models

// GuideStep describes one page of the getting-started guide
type GuideStep struct {
	Step        string `json:"step"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GuidePage is a guide step with its markdown and neighbours
type GuidePage struct {
	GuideStep
	Content string     `json:"content"`
	Total   int        `json:"total"`
	Prev    *GuideStep `json:"prev,omitempty"`
	Next    *GuideStep `json:"next,omitempty"`
}
