package valuation

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// BodyParams are the body characteristics the estimator matches on.
type BodyParams struct {
	BodyName    string  `json:"body_name"`
	PlanetClass string  `json:"planet_class"`
	Atmosphere  string  `json:"atmosphere"`
	Volcanism   string  `json:"volcanism"`
	Temperature float64 `json:"temperature"`
	Gravity     float64 `json:"gravity"`
	Landable    bool    `json:"landable"`
	BioSignals  int     `json:"bio_signals"`
}

// Candidate is one predicted genus/species/variant.
type Candidate struct {
	Genus   string `json:"genus" yaml:"genus"`
	Species string `json:"species" yaml:"species"`
	Variant string `json:"variant,omitempty" yaml:"variant"`
}

// Estimator predicts which organisms may be present on a body.
type Estimator interface {
	Estimate(p BodyParams) ([]Candidate, error)
}

// Rule is one entry of the estimator rule table.
type Rule struct {
	Candidate     `yaml:",inline"`
	Atmospheres   []string `yaml:"atmospheres"`
	PlanetClasses []string `yaml:"planet_classes"`
	Volcanism     bool     `yaml:"volcanism"`
	MinTemp       *float64 `yaml:"min_temp"`
	MaxTemp       *float64 `yaml:"max_temp"`
	MaxGravity    *float64 `yaml:"max_gravity"`
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// RuleEstimator matches body parameters against a rule table.
type RuleEstimator struct {
	rules []Rule
}

// ParseRules decodes a YAML rule table.
func ParseRules(data []byte) (*RuleEstimator, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse estimator rules: %w", err)
	}
	for i, r := range f.Rules {
		if r.Genus == "" || r.Species == "" {
			return nil, fmt.Errorf("parse estimator rules: rule %d: genus and species are required", i)
		}
	}
	return &RuleEstimator{rules: f.Rules}, nil
}

// DefaultEstimator returns the estimator backed by the embedded rule table.
func DefaultEstimator() *RuleEstimator {
	est, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(err)
	}
	return est
}

// Estimate implements Estimator. Bodies without bio signals, landing or an
// atmosphere yield no candidates.
func (e *RuleEstimator) Estimate(p BodyParams) ([]Candidate, error) {
	if !p.Landable || p.BioSignals <= 0 || p.Atmosphere == "" {
		return nil, nil
	}
	var out []Candidate
	for _, r := range e.rules {
		if r.matches(p) {
			out = append(out, r.Candidate)
		}
	}
	return out, nil
}

// Len returns the number of rules loaded.
func (e *RuleEstimator) Len() int { return len(e.rules) }

func (r Rule) matches(p BodyParams) bool {
	if len(r.Atmospheres) > 0 && !containsFold(r.Atmospheres, p.Atmosphere) {
		return false
	}
	if len(r.PlanetClasses) > 0 && !containsFold(r.PlanetClasses, p.PlanetClass) {
		return false
	}
	if r.Volcanism && p.Volcanism == "" {
		return false
	}
	if r.MinTemp != nil && p.Temperature < *r.MinTemp {
		return false
	}
	if r.MaxTemp != nil && p.Temperature > *r.MaxTemp {
		return false
	}
	if r.MaxGravity != nil && p.Gravity > *r.MaxGravity {
		return false
	}
	return true
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.Contains(strings.ToLower(v), strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// Mismatch reports whether a scanned organism disagrees with the predictions.
// Genus and species are compared case-insensitively; a predicted variant only
// counts when the rule named one.
func Mismatch(predicted []Candidate, actual Candidate) bool {
	for _, c := range predicted {
		if !strings.EqualFold(c.Genus, actual.Genus) || !strings.EqualFold(c.Species, actual.Species) {
			continue
		}
		if c.Variant == "" || strings.EqualFold(c.Variant, actual.Variant) {
			return false
		}
	}
	return true
}
