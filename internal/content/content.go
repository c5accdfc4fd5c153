// Package content loads the static site data: projects and the progress log.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"portfolioAPI/internal/progress"
)

//go:embed default.yaml
var defaultContent []byte

// Project is a portfolio entry.
type Project struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Date        string   `json:"date" yaml:"date"`
	Tags        []string `json:"tags" yaml:"tags"`
	GitHub      string   `json:"github" yaml:"github"`
	Visit       string   `json:"visit" yaml:"visit"`
	Images      []string `json:"images,omitempty" yaml:"images"`
}

// Content is the decoded content file.
type Content struct {
	Projects []Project                 `yaml:"projects"`
	Progress []progress.ActivityRecord `yaml:"progress"`
}

// Load decodes the content file at path, or the embedded default when path
// is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Decode(bytes.NewReader(defaultContent))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open content file: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode reads YAML content, rejecting unknown fields.
func Decode(r io.Reader) (*Content, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Content
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	return &c, nil
}
