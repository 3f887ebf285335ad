package catalog

import "github.com/reputable-tech/memory-bank/internal/models"

var guideSteps = []models.GuideStep{
	{Step: "01", Slug: "01_introduction", Title: "Introduction", Description: "What is the Memory Bank and how does it work?"},
	{Step: "02", Slug: "02_installation", Title: "Installation", Description: "Set up your development environment and install dependencies."},
	{Step: "03", Slug: "03_activation", Title: "Activation", Description: "Activate the systemic architect mode and internalize memory modules."},
	{Step: "04", Slug: "04_phases", Title: "Development Phases", Description: "Understand the four phases of Memory Bank development."},
	{Step: "05", Slug: "05_operational_protocol", Title: "Operational Protocol", Description: "Learn how to interact with the Memory Bank system."},
	{Step: "06", Slug: "06_runtime_verification", Title: "Runtime Verification", Description: "Verify your implementation and test deployment readiness."},
	{Step: "07", Slug: "07_domain_expansion", Title: "Domain Expansion", Description: "Extend the system with domain-oriented Memory Banks."},
	{Step: "08", Slug: "08_troubleshooting", Title: "Troubleshooting", Description: "Common issues and their solutions."},
}

// GuideSteps returns all guide steps in reading order
func GuideSteps() []models.GuideStep {
	return append([]models.GuideStep(nil), guideSteps...)
}

// GuideStep returns the step with the given slug
func GuideStep(slug string) (models.GuideStep, bool) {
	for _, step := range guideSteps {
		if step.Slug == slug {
			return step, true
		}
	}
	return models.GuideStep{}, false
}

// AdjacentSteps returns the steps before and after slug.
// Both are nil when slug is unknown.
func AdjacentSteps(slug string) (prev, next *models.GuideStep) {
	for i, step := range guideSteps {
		if step.Slug != slug {
			continue
		}
		if i > 0 {
			p := guideSteps[i-1]
			prev = &p
		}
		if i < len(guideSteps)-1 {
			n := guideSteps[i+1]
			next = &n
		}
		return prev, next
	}
	return nil, nil
}
