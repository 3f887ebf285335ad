package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/reputable-tech/memory-bank/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func newTestRepository(t *testing.T) (*Repository, string) {
	t.Helper()
	root := t.TempDir()
	repo := NewRepository(Options{
		LibraryRoot: filepath.Join(root, "library"),
		DomainsRoot: filepath.Join(root, "domains"),
		GuideRoot:   filepath.Join(root, "guide"),
		Logger:      zap.NewNop(),
	})
	repo.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return repo, root
}

func TestLoadTemplateArchitectureDefaults(t *testing.T) {
	repo, root := newTestRepository(t)
	writeFile(t, filepath.Join(root, "library"), "architecture.md",
		"---\nmemory-type: architecture\npriority: high\n---\n# Architecture\n\nBody text.\n")

	template, ok := repo.LoadTemplate(context.Background(), GlobalLibrary, "architecture")
	require.True(t, ok)

	assert.Equal(t, "architecture", template.Slug)
	assert.Equal(t, "System Architecture", template.Title)
	assert.Equal(t, models.TypeArchitecture, template.Type)
	assert.Equal(t, models.PriorityHigh, template.Priority)
	assert.Equal(t, models.ScopeProject, template.Scope)
	assert.Equal(t, "Memory Bank cognitive template", template.Description)
	assert.Equal(t, "# Architecture\n\nBody text.\n", template.Content)
	assert.Equal(t, "1.0.0", template.Version)
	assert.Equal(t, "2024-05-01T12:00:00Z", template.CreatedAt)
	assert.Equal(t, template.CreatedAt, template.UpdatedAt)
}

func TestLoadTemplateMissing(t *testing.T) {
	repo, root := newTestRepository(t)
	writeFile(t, filepath.Join(root, "library"), "architecture.md", "# Architecture\n")

	template, ok := repo.LoadTemplate(context.Background(), GlobalLibrary, "nonexistent")
	assert.False(t, ok)
	assert.Nil(t, template)

	result := repo.Lookup(context.Background(), GlobalLibrary, "nonexistent")
	assert.Equal(t, StatusNotFound, result.Status)
	assert.NoError(t, result.Err)
}

func TestLookupRejectsUnsafeSlugs(t *testing.T) {
	repo, root := newTestRepository(t)
	writeFile(t, root, "secret.md", "---\ntitle: Secret\n---\nhidden\n")
	writeFile(t, filepath.Join(root, "library"), "ok.md", "fine\n")

	for _, slug := range []string{"", "..", "../secret", `..\secret`, "a/b", "."} {
		t.Run(slug, func(t *testing.T) {
			result := repo.Lookup(context.Background(), GlobalLibrary, slug)
			assert.Equal(t, StatusNotFound, result.Status)
		})
	}

	result := repo.Lookup(context.Background(), DomainLibrary(".."), "secret")
	assert.Equal(t, StatusNotFound, result.Status)
}

func TestLookupMalformedFrontMatterIsLoadError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	repo, root := newTestRepository(t)
	repo.logger = zap.New(core)

	writeFile(t, filepath.Join(root, "library"), "broken.md", "---\ntitle: [unclosed\n---\nbody\n")

	result := repo.Lookup(context.Background(), GlobalLibrary, "broken")
	assert.Equal(t, StatusLoadError, result.Status)
	assert.Error(t, result.Err)

	_, ok := repo.LoadTemplate(context.Background(), GlobalLibrary, "broken")
	assert.False(t, ok)

	entries := logs.FilterMessage("failed to parse template").All()
	require.NotEmpty(t, entries)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "broken", entries[0].ContextMap()["slug"])
}

func TestTitleResolution(t *testing.T) {
	repo, root := newTestRepository(t)
	dir := filepath.Join(root, "library")
	writeFile(t, dir, "tech-stack.md", "---\nmemory-type: tech\n---\nstack\n")
	writeFile(t, dir, "custom-notes.md", "no header at all\n")
	writeFile(t, dir, "api-design.md", "---\ntitle: Public API\n---\napi\n")

	testCases := []struct {
		slug  string
		title string
	}{
		{slug: "tech-stack", title: "Technology Stack"},
		{slug: "custom-notes", title: "custom-notes"},
		{slug: "api-design", title: "Public API"},
	}

	for _, tc := range testCases {
		t.Run(tc.slug, func(t *testing.T) {
			template, ok := repo.LoadTemplate(context.Background(), GlobalLibrary, tc.slug)
			require.True(t, ok)
			assert.Equal(t, tc.slug, template.Slug)
			assert.Equal(t, tc.title, template.Title)
		})
	}
}

func TestDomainLibraryCountAndLoadAll(t *testing.T) {
	repo, root := newTestRepository(t)
	dir := filepath.Join(root, "domains", "saas")
	writeFile(t, dir, "architecture.md", "---\nmemory-type: architecture\n---\na\n")
	writeFile(t, dir, "data-model.md", "---\nmemory-type: design\nuse-case: Tenancy model\n---\nb\n")
	writeFile(t, dir, "user-flow.md", "c\n")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested.md"), 0755))

	lib := DomainLibrary("saas")
	assert.Equal(t, 3, repo.Count(lib))

	summaries, err := repo.LoadAll(context.Background(), lib)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	slugs := []string{summaries[0].Slug, summaries[1].Slug, summaries[2].Slug}
	assert.Equal(t, []string{"architecture", "data-model", "user-flow"}, slugs)
	assert.Equal(t, "Domain-specific cognitive template", summaries[2].Description)
	assert.Equal(t, "Tenancy model", summaries[1].Description)
}

func TestLoadAllMatchesLoadTemplate(t *testing.T) {
	repo, root := newTestRepository(t)
	dir := filepath.Join(root, "library")
	writeFile(t, dir, "architecture.md", "---\nmemory-type: architecture\npriority: high\n---\na\n")
	writeFile(t, dir, "design-doc.md", "---\nmemory-type: design\nscope: session\nuse-case: Product intent\n---\nb\n")
	writeFile(t, dir, "misc.md", "---\nmemory-type: rituals\npriority: urgent\n---\nc\n")

	ctx := context.Background()
	summaries, err := repo.LoadAll(ctx, GlobalLibrary)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, repo.Count(GlobalLibrary), len(summaries))

	for _, summary := range summaries {
		template, ok := repo.LoadTemplate(ctx, GlobalLibrary, summary.Slug)
		require.True(t, ok)
		if diff := cmp.Diff(template.Summary(), summary); diff != "" {
			t.Errorf("summary for %s differs from full record (-full +summary):\n%s", summary.Slug, diff)
		}
	}

	assert.Equal(t, models.TemplateType("rituals"), summaries[2].Type)
	assert.Equal(t, models.Priority("urgent"), summaries[2].Priority)
}

func TestLoadAllOmitsBrokenFiles(t *testing.T) {
	repo, root := newTestRepository(t)
	dir := filepath.Join(root, "library")
	writeFile(t, dir, "good.md", "fine\n")
	writeFile(t, dir, "bad.md", "---\ntitle: [unclosed\n---\nbody\n")

	summaries, err := repo.LoadAll(context.Background(), GlobalLibrary)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "good", summaries[0].Slug)
	assert.Equal(t, 2, repo.Count(GlobalLibrary))
}

func TestMissingRoots(t *testing.T) {
	repo, _ := newTestRepository(t)

	assert.Equal(t, 0, repo.Count(GlobalLibrary))
	assert.Equal(t, 0, repo.Count(DomainLibrary("web-app")))

	summaries, err := repo.LoadAll(context.Background(), DomainLibrary("web-app"))
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestLoadAllCancelled(t *testing.T) {
	repo, root := newTestRepository(t)
	writeFile(t, filepath.Join(root, "library"), "architecture.md", "a\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.LoadAll(ctx, GlobalLibrary)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadGuide(t *testing.T) {
	repo, root := newTestRepository(t)
	dir := filepath.Join(root, "guide")
	writeFile(t, dir, "01_introduction.md", "---\ntitle: Intro\n---\n# Welcome\n")
	writeFile(t, dir, "02_setup.md", "# Setup\n")

	content, ok := repo.LoadGuide(context.Background(), "01_introduction")
	require.True(t, ok)
	assert.Equal(t, "# Welcome\n", content)

	content, ok = repo.LoadGuide(context.Background(), "02_setup")
	require.True(t, ok)
	assert.Equal(t, "# Setup\n", content)

	_, ok = repo.LoadGuide(context.Background(), "99_missing")
	assert.False(t, ok)
}
