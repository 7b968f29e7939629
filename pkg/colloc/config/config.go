package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/colloc/pkg/colloc/measure"
	"github.com/cognicore/colloc/pkg/colloc/tabulate"
	"github.com/cognicore/colloc/pkg/colloc/vocab"
)

// Extraction is the YAML-backed configuration for one collocation run.
// Every numeric option the engine consults is explicit here; there are no
// ambient constants.
type Extraction struct {
	// Sizes lists the requested n-gram sizes (2 and/or 3).
	Sizes []int `yaml:"sizes"`
	// Measure selects the association statistic: g2, chi2, pmi, dice, all.
	Measure string `yaml:"measure"`
	// MinCount keeps candidates occurring at least this often.
	MinCount int64 `yaml:"min_count"`
	// Epsilon is the G2 smoothing constant; 0 means the default.
	Epsilon float64 `yaml:"epsilon"`
	// Workers shards candidate tabulation; 0 or 1 runs sequentially.
	Workers int `yaml:"workers"`
	// Features restricts the vocabulary admitted into candidates.
	Features FeatureSpec `yaml:"features"`
}

// FeatureSpec selects allowed tokens by pattern. An empty pattern list
// allows the whole vocabulary.
type FeatureSpec struct {
	Patterns []string `yaml:"patterns"`
	// Mode is fixed, glob, or regex; empty means glob.
	Mode string `yaml:"mode"`
}

// DefaultExtraction returns the engine defaults.
func DefaultExtraction() Extraction {
	return Extraction{
		Sizes:    []int{2},
		Measure:  measure.G2.String(),
		MinCount: 1,
		Epsilon:  measure.DefaultEpsilon,
	}
}

// LoadExtraction reads an extraction config from a YAML file, filling in
// defaults for omitted fields.
func LoadExtraction(path string) (Extraction, error) {
	cfg := DefaultExtraction()

	data, err := os.ReadFile(path)
	if err != nil {
		return Extraction{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Extraction{}, fmt.Errorf("parse extraction config: %w", err)
	}
	if len(cfg.Sizes) == 0 {
		cfg.Sizes = []int{2}
	}
	if cfg.MinCount < 0 {
		cfg.MinCount = 0
	}
	if err := cfg.Validate(); err != nil {
		return Extraction{}, err
	}
	return cfg, nil
}

// Validate checks the fields that fail fast at pipeline start.
func (c Extraction) Validate() error {
	if err := tabulate.ValidateSizes(c.Sizes); err != nil {
		return err
	}
	if _, err := measure.ParseKind(c.Measure); err != nil {
		return err
	}
	if _, err := vocab.ParseMatchMode(c.Features.Mode); err != nil {
		return err
	}
	return nil
}

// Kind returns the parsed measure kind. Validate first.
func (c Extraction) Kind() measure.Kind {
	k, _ := measure.ParseKind(c.Measure)
	return k
}

// MatchMode returns the parsed feature match mode. Validate first.
func (c Extraction) MatchMode() vocab.MatchMode {
	m, _ := vocab.ParseMatchMode(c.Features.Mode)
	return m
}

// Stoplist is a YAML stopword list.
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file.
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("parse stoplist: %w", err)
	}
	return &sl, nil
}
