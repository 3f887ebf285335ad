package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLookup(t *testing.T) {
	d, ok := Domain("saas")
	require.True(t, ok)
	assert.Equal(t, "SaaS Platform", d.Name)
	assert.Equal(t, "#DAF064", d.AccentColor)

	_, ok = Domain("mainframe")
	assert.False(t, ok)
	assert.False(t, IsDomain(""))
}

func TestDomainsAreCopies(t *testing.T) {
	all := Domains()
	require.Len(t, all, 6)

	all[0].Name = "changed"
	all[0].Focus[0] = "changed"

	d, ok := Domain(all[0].Slug)
	require.True(t, ok)
	assert.Equal(t, "Web App", d.Name)
	assert.Equal(t, "clarity", d.Focus[0])
}

func TestDomainSlugsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Domains() {
		assert.False(t, seen[d.Slug], "duplicate slug %s", d.Slug)
		seen[d.Slug] = true
	}
}

func TestAdjacentSteps(t *testing.T) {
	testCases := []struct {
		slug string
		prev string
		next string
	}{
		{slug: "01_introduction", prev: "", next: "02_installation"},
		{slug: "04_phases", prev: "03_activation", next: "05_operational_protocol"},
		{slug: "08_troubleshooting", prev: "07_domain_expansion", next: ""},
		{slug: "99_unknown", prev: "", next: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.slug, func(t *testing.T) {
			prev, next := AdjacentSteps(tc.slug)
			if tc.prev == "" {
				assert.Nil(t, prev)
			} else {
				require.NotNil(t, prev)
				assert.Equal(t, tc.prev, prev.Slug)
			}
			if tc.next == "" {
				assert.Nil(t, next)
			} else {
				require.NotNil(t, next)
				assert.Equal(t, tc.next, next.Slug)
			}
		})
	}
}

func TestGuideStep(t *testing.T) {
	step, ok := GuideStep("03_activation")
	require.True(t, ok)
	assert.Equal(t, "03", step.Step)
	assert.Len(t, GuideSteps(), 8)
}
