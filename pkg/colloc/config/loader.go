package config

import (
	"fmt"

	"github.com/cognicore/colloc/pkg/colloc/ingest"
)

// Loader loads configuration files and constructs components.
type Loader struct {
	ExtractionPath string
	StoplistPath   string
}

// Components holds the loaded configuration and the tokenizer built from it.
type Components struct {
	Extraction Extraction
	Tokenizer  *ingest.Tokenizer
}

// Load reads the configuration files and returns initialized components.
// Either path may be empty, in which case defaults apply.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{Extraction: DefaultExtraction()}

	if l.ExtractionPath != "" {
		cfg, err := LoadExtraction(l.ExtractionPath)
		if err != nil {
			return nil, fmt.Errorf("load extraction config: %w", err)
		}
		comp.Extraction = cfg
	}

	if l.StoplistPath != "" {
		stoplist, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Tokenizer = ingest.NewTokenizer(stoplist.Terms)
	} else {
		comp.Tokenizer = ingest.NewTokenizer(nil)
	}

	return comp, nil
}
