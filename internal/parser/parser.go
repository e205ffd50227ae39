// Package parser reads markdown character sheets: a YAML frontmatter block
// delimited by "---" lines, followed by free-form notes.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SheetType is the frontmatter type value that marks a character sheet.
const SheetType = "character"

type Document struct {
	Frontmatter map[string]any
	Title       string
	Type        string
	Body        string
	SourceFile  string
}

var (
	ErrNoFrontmatter = errors.New("no frontmatter found")
	ErrInvalidYAML   = errors.New("invalid YAML in frontmatter")
	ErrMissingTitle  = errors.New("frontmatter missing required 'title' field")
	ErrMissingType   = errors.New("frontmatter missing required 'type' field")
)

var delimiter = []byte("---\n")

func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc.SourceFile = path
	return doc, nil
}

func Parse(content []byte) (*Document, error) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	trimmed := bytes.TrimLeft(content, "\ufeff\n\t ")
	rest, ok := bytes.CutPrefix(trimmed, delimiter)
	if !ok {
		return nil, ErrNoFrontmatter
	}

	head, body, ok := bytes.Cut(rest, delimiter)
	if !ok {
		return nil, ErrNoFrontmatter
	}

	var frontmatter map[string]any
	if err := yaml.Unmarshal(head, &frontmatter); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	title := stringField(frontmatter, "title")
	if title == "" {
		return nil, ErrMissingTitle
	}
	docType := stringField(frontmatter, "type")
	if docType == "" {
		return nil, ErrMissingType
	}

	return &Document{
		Frontmatter: frontmatter,
		Title:       title,
		Type:        strings.ToLower(docType),
		Body:        strings.TrimSpace(string(body)),
	}, nil
}

// IsSheet reports whether the document describes a character.
func (d *Document) IsSheet() bool {
	return d.Type == SheetType
}

func stringField(frontmatter map[string]any, key string) string {
	s, _ := frontmatter[key].(string)
	return strings.TrimSpace(s)
}
