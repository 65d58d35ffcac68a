package application

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ml297/Decision-Science/internal/domain"
)

// validTieHandling enumerates the tie policies criterion units accept.
var validTieHandling = map[string]struct{}{
	"classes": {},
	"error":   {},
}

// ValidateCriterionParameters validates the parameters for a specific
// criterion type before a unit is constructed, so configuration mistakes
// surface with the criterion ID attached rather than deep inside unit
// creation. It returns an error wrapping domain.ErrInvalidConfiguration
// if parameter decoding fails or any rule is violated; a zero/empty
// parameters node is always acceptable because every criterion has
// usable defaults.
func ValidateCriterionParameters(criterionType string, params yaml.Node) error {
	if params.IsZero() {
		return nil
	}

	var paramMap map[string]any
	if err := params.Decode(&paramMap); err != nil {
		return fmt.Errorf("%w: failed to decode parameters: %v", domain.ErrInvalidConfiguration, err)
	}

	switch criterionType {
	case "leximin":
		return validateRankingParams(paramMap, "with_trace")
	case "maximin":
		return validateRankingParams(paramMap)
	case "hurwicz":
		if err := validateAlphaParam(paramMap); err != nil {
			return err
		}
		return validateRankingParams(paramMap, "alpha")
	default:
		return fmt.Errorf("%w: unknown criterion type: %s", domain.ErrInvalidConfiguration, criterionType)
	}
}

// validateRankingParams checks the parameters shared by all ranking
// criteria: tie_handling must be a known policy, and only recognized
// keys may appear. extraKeys lists additional keys valid for the
// specific criterion.
func validateRankingParams(params map[string]any, extraKeys ...string) error {
	allowed := map[string]struct{}{"tie_handling": {}}
	for _, k := range extraKeys {
		allowed[k] = struct{}{}
	}

	for key := range params {
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("%w: unknown parameter %q", domain.ErrInvalidConfiguration, key)
		}
	}

	if raw, ok := params["tie_handling"]; ok {
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("%w: tie_handling must be a string, got %T", domain.ErrInvalidConfiguration, raw)
		}
		if _, ok := validTieHandling[s]; !ok {
			return fmt.Errorf("%w: tie_handling must be 'classes' or 'error', got %q",
				domain.ErrInvalidConfiguration, s)
		}
	}

	if raw, ok := params["with_trace"]; ok {
		if _, ok := raw.(bool); !ok {
			return fmt.Errorf("%w: with_trace must be a boolean, got %T", domain.ErrInvalidConfiguration, raw)
		}
	}

	return nil
}

// validateAlphaParam checks the Hurwicz optimism coefficient lies in [0, 1].
func validateAlphaParam(params map[string]any) error {
	raw, ok := params["alpha"]
	if !ok {
		return nil
	}

	var alpha float64
	switch v := raw.(type) {
	case float64:
		alpha = v
	case int:
		alpha = float64(v)
	default:
		return fmt.Errorf("%w: alpha must be a number, got %T", domain.ErrInvalidConfiguration, raw)
	}

	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("%w: alpha must be between 0 and 1, got %g", domain.ErrInvalidConfiguration, alpha)
	}

	return nil
}
