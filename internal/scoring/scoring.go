// Package scoring ranks candidate properties against a target profile of
// square footage, bedrooms, and bathrooms. Factors with no data on either
// side drop out of both the numerator and the denominator, so partial
// records degrade gracefully instead of failing.
package scoring

import (
	"math"
	"sort"

	"github.com/renovalab/renovest/internal/property"
)

// Target is the profile candidates are compared against.
type Target struct {
	SquareFootage *float64
	Bedrooms      *int
	Bathrooms     *float64
}

// Scored pairs a candidate record with its similarity verdict.
type Scored struct {
	Record       property.Record `json:"record"`
	MatchScore   float64         `json:"match_score"`
	ExactMatches int             `json:"exact_matches"`
	CloseMatches int             `json:"close_matches"`
}

// Params holds the empirically chosen scoring constants. They are business
// constants with no derivation; change them only deliberately.
type Params struct {
	SquareFootageWeight float64 `yaml:"square_footage_weight"`
	BedroomWeight       float64 `yaml:"bedroom_weight"`
	BathroomWeight      float64 `yaml:"bathroom_weight"`

	// Relative square-footage tolerances for exact and close matches.
	SquareFootageExactTolerance float64 `yaml:"square_footage_exact_tolerance"`
	SquareFootageCloseTolerance float64 `yaml:"square_footage_close_tolerance"`

	// CloseBonusRatio scales a factor's weight for close (not exact) matches.
	CloseBonusRatio float64 `yaml:"close_bonus_ratio"`
	// BedroomDecay and BathroomDecay shrink the bonus per unit of distance
	// once a candidate is outside the close band.
	BedroomDecay  float64 `yaml:"bedroom_decay"`
	BathroomDecay float64 `yaml:"bathroom_decay"`

	// Combination bonuses reward candidates that are mostly right over ones
	// that are uniformly mediocre.
	DoubleExactBonus      float64 `yaml:"double_exact_bonus"`
	SingleExactComboBonus float64 `yaml:"single_exact_combo_bonus"`

	// MaxResults truncates the ranked list.
	MaxResults int `yaml:"max_results"`
}

// DefaultParams returns the production constants.
func DefaultParams() Params {
	return Params{
		SquareFootageWeight:         3,
		BedroomWeight:               3,
		BathroomWeight:              2,
		SquareFootageExactTolerance: 0.05,
		SquareFootageCloseTolerance: 0.15,
		CloseBonusRatio:             2.0 / 3.0,
		BedroomDecay:                0.25,
		BathroomDecay:               0.5,
		DoubleExactBonus:            1.0,
		SingleExactComboBonus:       0.5,
		MaxResults:                  5,
	}
}

// Scorer computes weighted multi-factor similarity scores.
type Scorer struct {
	params Params
}

// New builds a scorer; zero-valued params fall back to the defaults.
func New(params Params) *Scorer {
	if params == (Params{}) {
		params = DefaultParams()
	}
	return &Scorer{params: params}
}

// Score ranks candidates against the target, best first, truncated to the
// configured maximum. Ordering is by exact-match count first and blended
// score second: exact dimensional matches are a stronger comparability
// signal than a smooth average, so a 2-exact candidate outranks a 0-exact
// candidate regardless of raw score.
func (s *Scorer) Score(candidates []property.Record, target Target) []Scored {
	scored := make([]Scored, 0, len(candidates))
	for _, rec := range candidates {
		scored = append(scored, s.scoreOne(rec, target))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].ExactMatches != scored[j].ExactMatches {
			return scored[i].ExactMatches > scored[j].ExactMatches
		}
		return scored[i].MatchScore > scored[j].MatchScore
	})
	if limit := s.params.MaxResults; limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func (s *Scorer) scoreOne(rec property.Record, target Target) Scored {
	p := s.params
	result := Scored{Record: rec}
	var total, applicable float64

	if target.SquareFootage != nil && rec.LivingArea != nil && *target.SquareFootage > 0 {
		applicable += p.SquareFootageWeight
		rel := math.Abs(*rec.LivingArea-*target.SquareFootage) / *target.SquareFootage
		switch {
		case rel <= p.SquareFootageExactTolerance:
			total += p.SquareFootageWeight
			result.ExactMatches++
		case rel <= p.SquareFootageCloseTolerance:
			total += p.SquareFootageWeight * p.CloseBonusRatio
			result.CloseMatches++
		default:
			total += p.SquareFootageWeight * math.Max(0, 1-rel)
		}
	}

	if target.Bedrooms != nil && rec.Bedrooms != nil {
		applicable += p.BedroomWeight
		diff := math.Abs(float64(*rec.Bedrooms - *target.Bedrooms))
		switch {
		case diff == 0:
			total += p.BedroomWeight
			result.ExactMatches++
		case diff == 1:
			total += p.BedroomWeight * p.CloseBonusRatio
			result.CloseMatches++
		default:
			total += p.BedroomWeight * math.Max(0, 1-diff*p.BedroomDecay)
		}
	}

	if target.Bathrooms != nil && rec.Bathrooms != nil {
		applicable += p.BathroomWeight
		diff := math.Abs(*rec.Bathrooms - *target.Bathrooms)
		switch {
		case diff == 0:
			total += p.BathroomWeight
			result.ExactMatches++
		case diff <= 0.5:
			total += p.BathroomWeight * p.CloseBonusRatio
			result.CloseMatches++
		default:
			total += p.BathroomWeight * math.Max(0, 1-diff*p.BathroomDecay)
		}
	}

	switch {
	case result.ExactMatches >= 2:
		total += p.DoubleExactBonus
	case result.ExactMatches == 1 && result.CloseMatches >= 1:
		total += p.SingleExactComboBonus
	}

	if applicable > 0 {
		result.MatchScore = total / applicable
	}
	return result
}
