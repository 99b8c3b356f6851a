package policy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// The two recognized configuration file names at the repository root.
const (
	ConfigFileYAML = ".check-commits.yaml"
	ConfigFileYML  = ".check-commits.yml"
)

// Load reads and validates a rule set from a YAML file. Unknown keys and
// duplicate trailer keys are schema errors.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var rules RuleSet
	if err := dec.Decode(&rules); err != nil {
		if errors.Is(err, io.EOF) {
			// An empty file is an empty policy.
			return &RuleSet{}, nil
		}
		return nil, fmt.Errorf("parsing configuration YAML: %w", err)
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &rules, nil
}

// Discover locates the configuration file at the repository root. Finding
// both recognized variants is a hard error rather than a precedence rule, so
// the user is never surprised by which file won.
func Discover(root string) (string, error) {
	yamlPath := filepath.Join(root, ConfigFileYAML)
	ymlPath := filepath.Join(root, ConfigFileYML)

	yamlExists := fileExists(yamlPath)
	ymlExists := fileExists(ymlPath)

	switch {
	case yamlExists && ymlExists:
		return "", fmt.Errorf("found both %s and %s at %s: remove one or pass an explicit --config",
			ConfigFileYAML, ConfigFileYML, root)
	case yamlExists:
		return yamlPath, nil
	case ymlExists:
		return ymlPath, nil
	default:
		return "", fmt.Errorf("no %s found at %s: create one or pass an explicit --config",
			ConfigFileYAML, root)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
