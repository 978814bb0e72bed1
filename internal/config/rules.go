// Package config loads the optional validation-rules file. Deployments
// without the file run on defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultQuotaTolerance is the absolute tolerance applied when matching a
// box's quantity-weighted category totals against its quota targets. Quota
// values are accumulated from per-unit fractions that are rarely exact
// integers, so the comparison is absolute, not relative.
const DefaultQuotaTolerance = 0.05

// Rules tunes the integrity validator.
type Rules struct {
	// QuotaTolerance overrides DefaultQuotaTolerance when positive.
	QuotaTolerance float64 `yaml:"quota_tolerance"`
	// FallbackMealTypes is the meal-type taxonomy used when the deployment
	// has no meal-type table in the reference catalog.
	FallbackMealTypes []string `yaml:"fallback_meal_types"`
}

// DefaultRules returns the rules used when no file is configured.
func DefaultRules() Rules {
	return Rules{
		QuotaTolerance: DefaultQuotaTolerance,
	}
}

// LoadRules reads a YAML rules file. An empty path or a missing file yields
// the defaults; a present but unparseable file is an error.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rules, nil
		}
		return rules, fmt.Errorf("failed to read rules file %s: %v", path, err)
	}

	var parsed Rules
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return rules, fmt.Errorf("failed to parse rules file %s: %v", path, err)
	}

	if parsed.QuotaTolerance > 0 {
		rules.QuotaTolerance = parsed.QuotaTolerance
	}
	rules.FallbackMealTypes = parsed.FallbackMealTypes
	return rules, nil
}
