package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "tree-report.yaml"

// DefaultIgnoreDirs are always skipped, whatever the config file or -e say.
var DefaultIgnoreDirs = []string{
	".git",
	".svn",
	".hg",
	"venv",
	".venv",
	"env",
	".idea",
	".vscode",
	"node_modules",
	"build",
	"dist",
	"__pycache__",
	".pytest_cache",
	".mypy_cache",
	".tox",
	".eggs",
	"runtime",
}

var DefaultExtensions = []string{
	".py",
	".txt",
	".yaml",
	".yml",
	".xml",
	".json",
	".ui",
}

type Config struct {
	Exclude    []string `yaml:"exclude"`
	Extensions []string `yaml:"extensions"`
	Output     string   `yaml:"output"`
}

func DefaultConfig() *Config {
	return &Config{
		Exclude:    []string{},
		Extensions: []string{},
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// Initialize slices if nil (for empty configs)
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}
	if cfg.Extensions == nil {
		cfg.Extensions = []string{}
	}

	return &cfg, nil
}

// IgnoreSet merges the built-in directory names with the config file's
// exclusions and any extra names given on the command line.
func (c *Config) IgnoreSet(extra []string) NameSet {
	set := NewNameSet(DefaultIgnoreDirs)
	set.add(c.Exclude)
	set.add(extra)
	return set
}

// ExtensionSet returns the recognized extensions, lower-cased with a leading dot.
func (c *Config) ExtensionSet() NameSet {
	set := make(NameSet, len(DefaultExtensions)+len(c.Extensions))
	for _, ext := range append(append([]string{}, DefaultExtensions...), c.Extensions...) {
		ext = NormalizeExt(ext)
		if ext == "" {
			continue
		}
		set[ext] = struct{}{}
	}
	return set
}

func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// NameSet is an exact-match lookup set. It is never mutated once built.
type NameSet map[string]struct{}

func NewNameSet(names []string) NameSet {
	set := make(NameSet, len(names))
	set.add(names)
	return set
}

func (s NameSet) add(names []string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		s[name] = struct{}{}
	}
}

func (s NameSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}
