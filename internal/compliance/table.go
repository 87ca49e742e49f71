// Package compliance scores agent utterances against the response manual.
package compliance

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
)

//go:embed keywords.yaml
var defaultTableYAML []byte

// ManualKeywords is the manual for one (emotion, customer label) pair.
type ManualKeywords struct {
	Greeting   []string `json:"greeting_keywords"   yaml:"greeting_keywords"`
	Closing    []string `json:"closing_keywords"    yaml:"closing_keywords"`
	Required   []string `json:"required_keywords"   yaml:"required_keywords"`
	Optional   []string `json:"optional_keywords"   yaml:"optional_keywords"`
	Prohibited []string `json:"prohibited_keywords" yaml:"prohibited_keywords"`
	Response   []string `json:"response_phrases"    yaml:"response_phrases"`
	Empathy    []string `json:"empathy_phrases"     yaml:"empathy_phrases"`
	Solution   []string `json:"solution_phrases"    yaml:"solution_phrases"`
}

// tableFile is the YAML layout of a keyword table.
type tableFile struct {
	Default ManualKeywords `yaml:"default"`
	Entries []tableEntry   `yaml:"entries"`
}

type tableEntry struct {
	Emotions       []string     `yaml:"emotions"`
	Labels         []string     `yaml:"labels"`
	ManualKeywords `yaml:",inline"`
}

type tableKey struct {
	emotion string
	label   domain.Label
}

// Table is the immutable manual keyword lookup. Each entry is compiled once
// so lookups during scoring do not allocate matchers.
type Table struct {
	entries  map[tableKey]*manual
	fallback *manual
}

// DefaultTable returns the built-in table.
func DefaultTable() *Table {
	t, err := ParseTable(defaultTableYAML)
	if err != nil {
		panic(fmt.Sprintf("compliance: invalid built-in keyword table: %v", err))
	}
	return t
}

// LoadTable reads a YAML table from path. An empty path yields the built-in table.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword table %s: %w", path, err)
	}
	return ParseTable(data)
}

// ParseTable parses a YAML keyword table.
func ParseTable(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse keyword table: %w", err)
	}

	t := &Table{
		entries:  make(map[tableKey]*manual),
		fallback: compile(file.Default),
	}
	for i, e := range file.Entries {
		if len(e.Emotions) == 0 || len(e.Labels) == 0 {
			return nil, fmt.Errorf("keyword table entry %d: emotions and labels are required", i)
		}
		m := compile(e.ManualKeywords)
		for _, emotion := range e.Emotions {
			for _, label := range e.Labels {
				key := tableKey{
					emotion: strings.ToUpper(strings.TrimSpace(emotion)),
					label:   domain.Label(strings.ToUpper(strings.TrimSpace(label))),
				}
				t.entries[key] = m
			}
		}
	}
	return t, nil
}

// Lookup returns the manual for (emotion, label), or the default entry.
func (t *Table) Lookup(emotion string, label domain.Label) ManualKeywords {
	return t.lookup(emotion, label).keywords
}

// Len returns the number of (emotion, label) pairs with a dedicated entry.
func (t *Table) Len() int {
	return len(t.entries)
}

func (t *Table) lookup(emotion string, label domain.Label) *manual {
	if m, ok := t.entries[tableKey{emotion: strings.ToUpper(emotion), label: label}]; ok {
		return m
	}
	return t.fallback
}
