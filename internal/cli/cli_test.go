package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reputable-tech/memory-bank/internal/errors"
	"github.com/reputable-tech/memory-bank/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// newFixture writes a small library and a config file pointing at it
func newFixture(t *testing.T) (root, configPath string) {
	t.Helper()
	color.NoColor = true
	t.Setenv("GLAMOUR_STYLE", "notty")

	root = t.TempDir()
	writeFile(t, filepath.Join(root, "library", "architecture.md"),
		"---\nmemory-type: architecture\npriority: high\n---\n# Architecture\n\nLayers.\n")
	writeFile(t, filepath.Join(root, "library", "api-design.md"),
		"---\nmemory-type: design\nuse-case: Contract first endpoints\n---\n# API\n")
	writeFile(t, filepath.Join(root, "domains", "saas", "architecture.md"), "multi-tenant\n")
	writeFile(t, filepath.Join(root, "domains", "saas", "data-model.md"), "tenants\n")
	writeFile(t, filepath.Join(root, "guide", "01_introduction.md"), "---\ntitle: ignored\n---\n# Welcome\n")

	configPath = filepath.Join(root, "memory-bank.yaml")
	writeFile(t, configPath, "library:\n"+
		"  root: "+filepath.Join(root, "library")+"\n"+
		"  domains_root: "+filepath.Join(root, "domains")+"\n"+
		"  guide_root: "+filepath.Join(root, "guide")+"\n"+
		"log:\n  level: error\n")
	return root, configPath
}

func execute(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "memory-bank", cmd.Use)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"serve", "list", "show", "copy", "export", "search", "domains", "guide", "browse", "slugify", "version"} {
		assert.True(t, names[expected], "missing command %s", expected)
	}
}

func TestList(t *testing.T) {
	_, cfg := newFixture(t)

	out, err := execute(t, cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Memory Bank library (2)")
	assert.Contains(t, out, "api-design")
	assert.Contains(t, out, "System Architecture")

	out, err = execute(t, cfg, "list", "--type", "design", "--format", "json")
	require.NoError(t, err)
	var templates []models.TemplateSummary
	require.NoError(t, json.Unmarshal([]byte(out), &templates))
	require.Len(t, templates, 1)
	assert.Equal(t, "api-design", templates[0].Slug)

	out, err = execute(t, cfg, "list", "--domain", "saas")
	require.NoError(t, err)
	assert.Contains(t, out, "SaaS Platform (2)")
	assert.Contains(t, out, "data-model")

	out, err = execute(t, cfg, "list", "--query", "nothing-matches")
	require.NoError(t, err)
	assert.Contains(t, out, "No templates found.")
}

func TestListErrors(t *testing.T) {
	_, cfg := newFixture(t)

	_, err := execute(t, cfg, "list", "--domain", "unknown")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDomainNotFound, errors.GetAppError(err).Code)

	_, err = execute(t, cfg, "list", "--format", "yaml")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.GetAppError(err).Code)

	out, err := execute(t, cfg, "list", "--type", "bad type")
	require.NoError(t, err)
	assert.Contains(t, out, "No templates found.")
}

func TestShow(t *testing.T) {
	_, cfg := newFixture(t)

	out, err := execute(t, cfg, "show", "architecture", "--raw")
	require.NoError(t, err)
	assert.Equal(t, "# Architecture\n\nLayers.\n", out)

	out, err = execute(t, cfg, "show", "architecture")
	require.NoError(t, err)
	assert.Contains(t, out, "System Architecture")
	assert.Contains(t, out, "architecture · high priority · project scope")
	assert.Contains(t, out, "Layers.")

	out, err = execute(t, cfg, "show", "data-model", "--domain", "saas", "--raw")
	require.NoError(t, err)
	assert.Equal(t, "tenants\n", out)

	_, err = execute(t, cfg, "show", "missing")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTemplateNotFound, errors.GetAppError(err).Code)

	_, err = execute(t, cfg, "show")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.GetAppError(err).Code)
}

func TestCopyMissingTemplate(t *testing.T) {
	_, cfg := newFixture(t)

	_, err := execute(t, cfg, "copy", "missing")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTemplateNotFound, errors.GetAppError(err).Code)
}

func TestExport(t *testing.T) {
	root, cfg := newFixture(t)

	out, err := execute(t, cfg, "export", "architecture")
	require.NoError(t, err)
	assert.Equal(t, "# Architecture\n\nLayers.\n", out)

	dir := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(dir, 0755))
	out, err = execute(t, cfg, "export", "architecture", "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported architecture to")

	data, err := os.ReadFile(filepath.Join(dir, "architecture.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Architecture\n\nLayers.\n", string(data))

	file := filepath.Join(root, "tenants.md")
	_, err = execute(t, cfg, "export", "data-model", "--domain", "saas", "-o", file)
	require.NoError(t, err)
	data, err = os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "tenants\n", string(data))

	_, err = execute(t, cfg, "export", "missing")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTemplateNotFound, errors.GetAppError(err).Code)
}

func TestSearch(t *testing.T) {
	_, cfg := newFixture(t)

	out, err := execute(t, cfg, "search", "contract", "--format", "json")
	require.NoError(t, err)
	var results []models.TemplateSummary
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.NotEmpty(t, results)
	assert.Equal(t, "api-design", results[0].Slug)

	_, err = execute(t, cfg, "search", "x", "--domain", "unknown")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDomainNotFound, errors.GetAppError(err).Code)
}

func TestDomains(t *testing.T) {
	_, cfg := newFixture(t)

	out, err := execute(t, cfg, "domains")
	require.NoError(t, err)
	assert.Contains(t, out, "Memory Banks (6)")
	assert.Contains(t, out, "SaaS Platform")

	out, err = execute(t, cfg, "domains", "--format", "json")
	require.NoError(t, err)
	var domains []models.DomainWithCount
	require.NoError(t, json.Unmarshal([]byte(out), &domains))
	require.Len(t, domains, 6)
	for _, d := range domains {
		if d.Slug == "saas" {
			assert.Equal(t, 2, d.TemplateCount)
		}
	}
}

func TestGuide(t *testing.T) {
	_, cfg := newFixture(t)

	out, err := execute(t, cfg, "guide")
	require.NoError(t, err)
	assert.Contains(t, out, "01_introduction")
	assert.Contains(t, out, "08_troubleshooting")

	out, err = execute(t, cfg, "guide", "01_introduction", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "# Welcome")
	assert.NotContains(t, out, "ignored")
	assert.Contains(t, out, "02_installation →")

	out, err = execute(t, cfg, "guide", "02_installation")
	require.NoError(t, err)
	assert.Contains(t, out, "This step has no content yet.")

	_, err = execute(t, cfg, "guide", "99_missing")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeGuideStepNotFound, errors.GetAppError(err).Code)
}

func TestSlugifyAndVersionSkipConfig(t *testing.T) {
	color.NoColor = true
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	out, err := execute(t, missing, "slugify", "Hello,", "World!")
	require.NoError(t, err)
	assert.Equal(t, "hello-world\n", out)

	out, err = execute(t, missing, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "memory-bank version: 1.0.0")

	_, err = execute(t, missing, "slugify", "!!!")
	require.Error(t, err)

	_, err = execute(t, missing, "list")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetAppError(err).Code)
}

func TestFormatError(t *testing.T) {
	c := NewCLI()

	assert.Equal(t, "⚠️  WARNING: unknown flag: --nope", c.FormatError(assertError("unknown flag: --nope")))
	assert.Equal(t, "ℹ️  No template found for slug 'x'.", c.FormatError(errors.TemplateNotFound("x")))
}

type assertError string

func (e assertError) Error() string { return string(e) }

func TestListMarksCustomTypes(t *testing.T) {
	root, cfg := newFixture(t)
	writeFile(t, filepath.Join(root, "library", "rituals.md"), "---\nmemory-type: rituals\n---\n# Rituals\n")

	out, err := execute(t, cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "rituals (custom)")
	assert.NotContains(t, out, "design (custom)")

	out, err = execute(t, cfg, "list", "--type", "rituals", "--format", "json")
	require.NoError(t, err)
	var templates []models.TemplateSummary
	require.NoError(t, json.Unmarshal([]byte(out), &templates))
	require.Len(t, templates, 1)
	assert.Equal(t, models.TemplateType("rituals"), templates[0].Type)
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "tech", typeLabel(models.TypeTech))
	assert.Equal(t, "", typeLabel(""))
	assert.Equal(t, "api design (custom)", typeLabel("api design"))
}
