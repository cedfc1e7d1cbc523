package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CategoryRule maps a category name to the keywords that identify it.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// RuleFile is the optional YAML file that overrides the built-in keyword
// rules and fixed-cost patterns.
//
//	categories:
//	  - name: Housing
//	    keywords: [aluguel, condominio]
//	fixed_costs:
//	  Housing: [ALUGUEL, CONDOMINIO]
type RuleFile struct {
	Categories        []CategoryRule      `yaml:"categories"`
	FixedCostPatterns map[string][]string `yaml:"fixed_costs"`
}

// LoadRuleFile reads a rule override file. A missing file is not an error:
// it returns nil and the built-in defaults apply. A malformed file is a
// configuration error and aborts the run.
func LoadRuleFile(path string) (*RuleFile, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading rule file %s: %w", path, err)
	}

	var rules RuleFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("error parsing rule file %s: %w", path, err)
	}

	return &rules, nil
}
