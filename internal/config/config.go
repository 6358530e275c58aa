// Package config loads mimir-go's configurable options (spec.md §6)
// from YAML with gopkg.in/yaml.v3: one struct per subsystem,
// `yaml:"..."` tags, and a single Load entry point that applies
// defaults before unmarshalling over them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MatchTreeOptions configures the match tree build algorithm
// (spec.md §4.4).
type MatchTreeOptions struct {
	Metric     string `yaml:"metric"`      // "max_cover", "gini", or "frequency"
	Direction  string `yaml:"direction"`    // "maximize" or "minimize"
	MaxNodes   int    `yaml:"max_nodes"`
	Stratified bool   `yaml:"stratified"`
}

// GrammarOptions selects a CNF feature grammar preset and its
// generation cap (spec.md §4.7).
type GrammarOptions struct {
	Preset        string `yaml:"preset"` // "frances_et_al_aaai2021" or "complete"
	MaxComplexity int    `yaml:"max_complexity"`
}

// SearchOptions configures which RPG heuristic a search uses and
// whether it consumes h_ff's preferred operators (spec.md §4.6).
type SearchOptions struct {
	Heuristic         string `yaml:"heuristic"` // "h_max", "h_add", "h_ff", "h_set_add"
	UsePreferredOps   bool   `yaml:"use_preferred_ops"`
}

// Config is the top-level configuration document.
type Config struct {
	MatchTree MatchTreeOptions `yaml:"match_tree"`
	Grammar   GrammarOptions   `yaml:"grammar"`
	Search    SearchOptions    `yaml:"search"`
}

// Default returns a Config with mimir-go's documented defaults:
// MAX_COVER/Maximize match trees (spec.md §9's resolved Open
// Question), the FRANCES_ET_AL_AAAI2021 grammar preset, and h_ff with
// preferred operators enabled.
func Default() Config {
	return Config{
		MatchTree: MatchTreeOptions{Metric: "max_cover", Direction: "maximize", MaxNodes: 1 << 20, Stratified: true},
		Grammar:   GrammarOptions{Preset: "frances_et_al_aaai2021", MaxComplexity: 4},
		Search:    SearchOptions{Heuristic: "h_ff", UsePreferredOps: true},
	}
}

// Load reads a YAML document from path and overlays it onto Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
