package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cimtab/internal/testutil"
)

// Scenario defines a conversion test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Namespaces selects the prefix/URI set used to render Resources:
	// "cim16" (default) or "cim100".
	Namespaces string `yaml:"namespaces,omitempty"`

	// Document is a literal RDF/XML document. When set, Resources is ignored.
	Document string `yaml:"document,omitempty"`

	// Resources are rendered into a document with testutil.
	Resources []ResourceSpec `yaml:"resources,omitempty"`

	// Options override the default run configuration.
	Options RunOptions `yaml:"options,omitempty"`

	// Assertions validate the resulting tables and diagnostics.
	Assertions []Assertion `yaml:"assertions"`
}

// ResourceSpec is one object element of a rendered document.
type ResourceSpec struct {
	Class       string         `yaml:"class"`
	ID          string         `yaml:"id"`
	About       bool           `yaml:"about,omitempty"`
	Description bool           `yaml:"description,omitempty"`
	Props       []PropertySpec `yaml:"props,omitempty"`
}

// PropertySpec is a child element: a scalar Value, or a reference when Ref is set.
type PropertySpec struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value,omitempty"`
	Ref   string `yaml:"ref,omitempty"`
}

// RunOptions mirrors the run configuration keys a scenario may set.
type RunOptions struct {
	// MaxDepth overrides the hop bound when non-nil.
	MaxDepth *int `yaml:"max_depth,omitempty"`

	// Workers sets resolver concurrency. Zero means sequential.
	Workers int `yaml:"workers,omitempty"`

	DropEnrichment bool `yaml:"drop_enrichment,omitempty"`
}

// Assertion types.
const (
	AssertCell            = "cell"
	AssertAbsentColumn    = "absent_column"
	AssertHeader          = "header"
	AssertRowCount        = "row_count"
	AssertDiagnosticCount = "diagnostic_count"
)

// Assertion is a single check against the run result.
// Which fields are used depends on Type.
type Assertion struct {
	Type    string   `yaml:"type"`
	Class   string   `yaml:"class,omitempty"`
	View    string   `yaml:"view,omitempty"`
	ID      string   `yaml:"id,omitempty"`
	Column  string   `yaml:"column,omitempty"`
	Equals  *string  `yaml:"equals,omitempty"`
	Columns []string `yaml:"columns,omitempty"`
	Kind    string   `yaml:"kind,omitempty"`
	Count   *int     `yaml:"count,omitempty"`
}

// LoadScenario reads and validates a scenario file. Unknown keys are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", filepath.Base(path), err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", filepath.Base(path), err)
	}
	return &s, nil
}

// Validate checks required fields and assertion shapes.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Document == "" && len(s.Resources) == 0 {
		return fmt.Errorf("either document or resources is required")
	}
	if _, err := s.namespaces(); err != nil {
		return err
	}

	for i, a := range s.Assertions {
		if err := a.validate(); err != nil {
			return fmt.Errorf("assertion %d: %w", i, err)
		}
	}
	return nil
}

func (a Assertion) validate() error {
	switch a.View {
	case "", "enriched", "clean":
	default:
		return fmt.Errorf("view must be enriched or clean, got %q", a.View)
	}

	switch a.Type {
	case AssertCell:
		if a.Class == "" || a.ID == "" || a.Column == "" || a.Equals == nil {
			return fmt.Errorf("cell needs class, id, column and equals")
		}
	case AssertAbsentColumn:
		if a.Class == "" || a.Column == "" {
			return fmt.Errorf("absent_column needs class and column")
		}
	case AssertHeader:
		if a.Class == "" || a.Columns == nil {
			return fmt.Errorf("header needs class and columns")
		}
	case AssertRowCount:
		if a.Class == "" || a.Count == nil {
			return fmt.Errorf("row_count needs class and count")
		}
	case AssertDiagnosticCount:
		if a.Kind == "" || a.Count == nil {
			return fmt.Errorf("diagnostic_count needs kind and count")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func (s *Scenario) namespaces() (testutil.Namespaces, error) {
	switch strings.ToLower(s.Namespaces) {
	case "", "cim16":
		return testutil.CIM16, nil
	case "cim100":
		return testutil.CIM100, nil
	default:
		return testutil.Namespaces{}, fmt.Errorf("unknown namespaces %q (want cim16 or cim100)", s.Namespaces)
	}
}

// Render returns the document the scenario runs against.
func (s *Scenario) Render() (string, error) {
	if s.Document != "" {
		return s.Document, nil
	}

	ns, err := s.namespaces()
	if err != nil {
		return "", err
	}

	resources := make([]testutil.Resource, len(s.Resources))
	for i, r := range s.Resources {
		res := testutil.Resource{Class: r.Class, ID: r.ID, About: r.About, Description: r.Description}
		for _, p := range r.Props {
			if p.Ref != "" {
				res.Props = append(res.Props, testutil.Ref(p.Name, p.Ref))
			} else {
				res.Props = append(res.Props, testutil.Scalar(p.Name, p.Value))
			}
		}
		resources[i] = res
	}
	return ns.Document(resources...), nil
}

// FindScenarios returns the .yaml/.yml files under dir, sorted by path.
// A non-empty filter is a glob matched against the file name without extension.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}
