package vocab

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cognicore/colloc/pkg/colloc/internalerr"
)

// MatchMode selects how feature patterns are resolved against the vocabulary.
type MatchMode int

const (
	// MatchFixed matches patterns as literal token strings.
	MatchFixed MatchMode = iota
	// MatchGlob interprets * and ? wildcards, anchored at both ends.
	MatchGlob
	// MatchRegex interprets patterns as Go regular expressions.
	MatchRegex
)

// ParseMatchMode converts a config string to a MatchMode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "glob":
		return MatchGlob, nil
	case "fixed":
		return MatchFixed, nil
	case "regex":
		return MatchRegex, nil
	}
	return 0, fmt.Errorf("%w: match mode %q", internalerr.ErrInvalidConfig, s)
}

// FeatureSet is the set of token ids admitted into candidate n-grams.
// The Boundary sentinel is never a member, even of an allow-all set.
type FeatureSet struct {
	all bool
	ids map[ID]struct{}
}

// AllFeatures returns the allow-all marker.
func AllFeatures() *FeatureSet {
	return &FeatureSet{all: true}
}

// NewFeatureSet builds a set from explicit ids. Boundary is ignored.
func NewFeatureSet(ids ...ID) *FeatureSet {
	set := &FeatureSet{ids: make(map[ID]struct{}, len(ids))}
	for _, id := range ids {
		if id == Boundary {
			continue
		}
		set.ids[id] = struct{}{}
	}
	return set
}

// Contains reports whether id may appear in a candidate.
func (f *FeatureSet) Contains(id ID) bool {
	if id == Boundary {
		return false
	}
	if f.all {
		return true
	}
	_, ok := f.ids[id]
	return ok
}

// All reports whether the set is the allow-all marker.
func (f *FeatureSet) All() bool { return f.all }

// Len returns the number of explicit members; 0 for an allow-all set.
func (f *FeatureSet) Len() int { return len(f.ids) }

// Select resolves patterns against the vocabulary into a feature set.
// An empty pattern list means allow-all.
func (t *Table) Select(patterns []string, mode MatchMode) (*FeatureSet, error) {
	if len(patterns) == 0 {
		return AllFeatures(), nil
	}

	set := &FeatureSet{ids: make(map[ID]struct{})}

	switch mode {
	case MatchFixed:
		for _, pat := range patterns {
			if id, ok := t.ids[pat]; ok {
				set.ids[id] = struct{}{}
			}
		}
	case MatchGlob, MatchRegex:
		for _, pat := range patterns {
			expr := pat
			if mode == MatchGlob {
				expr = globToRegex(pat)
			} else {
				expr = "^(?:" + pat + ")$"
			}
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("%w: pattern %q: %v", internalerr.ErrInvalidConfig, pat, err)
			}
			for word, id := range t.ids {
				if re.MatchString(word) {
					set.ids[id] = struct{}{}
				}
			}
		}
	default:
		return nil, fmt.Errorf("%w: match mode %d", internalerr.ErrInvalidConfig, mode)
	}

	return set, nil
}

// globToRegex translates a glob pattern (* and ? wildcards) into an
// anchored regular expression.
func globToRegex(pat string) string {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pat {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}
