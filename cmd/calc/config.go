package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calc"
)

// fileConfig is the YAML settings file. Every field is optional; flags
// override it.
//
//	base: 16
//	timeout: 2s
//	limits:
//	  max_depth: 64
//	  precision: 30
//	vars:
//	  kib: 1 << 10
//	  rate: 0.075
//	funcs:
//	  hyp(a, b): sqrt(a a + b b)
type fileConfig struct {
	Limits  calc.Limits       `yaml:"limits"`
	Vars    map[string]string `yaml:"vars"`
	Funcs   map[string]string `yaml:"funcs"`
	Base    int               `yaml:"base"`
	Timeout time.Duration     `yaml:"timeout"`
}

// readConfig loads the settings file at path. An empty path gives empty
// settings.
func readConfig(path string) (fileConfig, error) {
	if path == "" {
		return fileConfig{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fileConfig{}, err
	}
	defer f.Close()
	cfg, err := parseConfig(f)
	if err != nil {
		return fileConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func parseConfig(r io.Reader) (fileConfig, error) {
	var cfg fileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return fileConfig{}, err
	}
	return cfg, nil
}

// sortedKeys returns the keys of m in order, so that definitions are
// evaluated deterministically.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
