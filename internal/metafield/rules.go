package metafield

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// Rules is the editable synonym and flag-group knowledge used by the Consolidator.
type Rules struct {
	KeyMapping    map[string]string   `yaml:"key_mapping"`
	ValueMapping  map[string][]string `yaml:"value_mapping"`
	Consolidation map[string]string   `yaml:"consolidation"`
	ScalarOnly    []string            `yaml:"scalar_only"`
	Definitions   []string            `yaml:"definitions"`
}

// DefaultRules returns the rules compiled into the binary.
func DefaultRules() (*Rules, error) {
	return ParseRules(defaultRules)
}

// LoadRules reads rules from path, or the built-in rules when path is empty.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	return ParseRules(data)
}

// ParseRules parses YAML rules data.
func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}
	if r.KeyMapping == nil {
		r.KeyMapping = map[string]string{}
	}
	if r.ValueMapping == nil {
		r.ValueMapping = map[string][]string{}
	}
	if r.Consolidation == nil {
		r.Consolidation = map[string]string{}
	}
	return &r, nil
}
