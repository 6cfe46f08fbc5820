package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RulesFileName is the per-project rules file consulted at the project root.
const RulesFileName = ".clionrules.yaml"

// Rules is the project-local rules file: build command, scan tweaks and
// relevance tuning checked into the repository itself.
type Rules struct {
	BuildCommand       string   `yaml:"build_command"`
	IncludeExtensions  []string `yaml:"include_extensions"`
	ExcludePatterns    []string `yaml:"exclude_patterns"`
	RelevanceThreshold float64  `yaml:"relevance_threshold"`
}

// LoadRules reads the rules file at the project root. A missing file yields
// (nil, nil).
func LoadRules(projectRoot string) (*Rules, error) {
	data, err := os.ReadFile(filepath.Join(projectRoot, RulesFileName))
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, err
	}
	return &rules, nil
}
