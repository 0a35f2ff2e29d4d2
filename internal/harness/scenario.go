package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario is a set of finder cases compiled against one schema.
type Scenario struct {
	// Name uniquely identifies this scenario; also the golden file name.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Schema is the CUE file declaring the entities.
	// Relative paths resolve against the scenario file's directory.
	Schema string `yaml:"schema"`

	// StrictPaths compiles with unresolvable properties as errors.
	StrictPaths bool `yaml:"strict_paths,omitempty"`

	// Strategies restricts the enabled finder strategies.
	Strategies []string `yaml:"strategies,omitempty"`

	Cases []Case `yaml:"cases"`
}

// Case is one method to compile.
type Case struct {
	Entity  string   `yaml:"entity"`
	Method  string   `yaml:"method"`
	Params  []string `yaml:"params,omitempty"`
	Returns string   `yaml:"returns,omitempty"`
	Expect  Expect   `yaml:"expect"`
}

// Expect states what a case must produce. Nil or empty fields are skipped,
// except Criterion, where a present empty string asserts no criterion.
type Expect struct {
	// Error is the diagnostic code the method must fail with, e.g. "E201".
	Error string `yaml:"error,omitempty"`

	Operation   string   `yaml:"operation,omitempty"`
	Criterion   *string  `yaml:"criterion,omitempty"`
	Orders      []string `yaml:"orders,omitempty"`
	Projections []string `yaml:"projections,omitempty"`
	Result      string   `yaml:"result,omitempty"`
	// Parameters is the bound parameter order.
	Parameters []string `yaml:"parameters,omitempty"`
	// Warnings lists the warning codes, in report order.
	Warnings []string `yaml:"warnings,omitempty"`
}

// LoadScenario loads a scenario, resolving its schema path against the
// scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath loads a scenario, resolving the schema path
// relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos in expectation keys.
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) && basePath != "" {
		scenario.Schema = filepath.Join(basePath, scenario.Schema)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("scan scenarios: %w", err)
	}
	sort.Strings(matches)

	scenarios := make([]*Scenario, 0, len(matches))
	for _, m := range matches {
		s, err := LoadScenario(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(m), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Schema == "" {
		return fmt.Errorf("schema is required")
	}
	if _, err := os.Stat(s.Schema); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", s.Schema)
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for i, c := range s.Cases {
		if c.Entity == "" {
			return fmt.Errorf("cases[%d]: entity is required", i)
		}
		if c.Method == "" {
			return fmt.Errorf("cases[%d]: method is required", i)
		}
		if c.Expect.Error != "" && c.Expect.Operation != "" {
			return fmt.Errorf("cases[%d]: expect.error excludes plan expectations", i)
		}
	}

	return nil
}
