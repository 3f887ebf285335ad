package storage

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

const headerDelimiter = "---"

var (
	// yamlFormat matches a "---" delimited YAML block at the top of a file.
	yamlFormat = frontmatter.NewFormat(headerDelimiter, headerDelimiter, yaml.Unmarshal)

	byteOrderMark = []byte("\ufeff")
)

// Header holds the front-matter keys a template may declare
type Header struct {
	Title      string `yaml:"title"`
	UseCase    string `yaml:"use-case"`
	MemoryType string `yaml:"memory-type"`
	Priority   string `yaml:"priority"`
	Scope      string `yaml:"scope"`
}

// ParseFrontMatter splits raw file content into its header and markdown body.
// Content without a header block (or with an unterminated one) is returned
// whole with an empty header. The block must start at the first byte, after
// an optional byte order mark. Malformed YAML inside the block is an error.
func ParseFrontMatter(raw []byte) (Header, string, error) {
	var header Header

	raw = bytes.TrimPrefix(raw, byteOrderMark)
	if !bytes.HasPrefix(raw, []byte(headerDelimiter)) {
		return header, string(raw), nil
	}

	body, err := frontmatter.Parse(bytes.NewReader(raw), &header, yamlFormat)
	if err != nil {
		return Header{}, "", fmt.Errorf("failed to parse front matter: %w", err)
	}

	return header, string(body), nil
}
