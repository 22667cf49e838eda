// Package valuation turns scored comparables into a current home value (CHV),
// projects an after-renovated value (ARV), and derives the renovation
// allowance. Everything here is pure arithmetic: no IO, no retries, no
// shared state.
package valuation

import (
	"errors"
	"strings"

	"github.com/renovalab/renovest/internal/property"
	"github.com/renovalab/renovest/internal/scoring"
)

// ErrNoComparables is returned when no candidate carries a positive current
// value. Callers must surface this instead of reporting a zero estimate.
var ErrNoComparables = errors.New("valuation: no comparable properties with a positive value")

// Method records which aggregation rule produced the CHV.
type Method string

const (
	MethodExactMatch      Method = "exact_match"
	MethodSameStreet      Method = "same_street"
	MethodWeightedAverage Method = "weighted_average"
	MethodSimpleAverage   Method = "simple_average"
)

// AggregateParams holds the weighting constants for the fallback average.
type AggregateParams struct {
	// DoubleExactBoost multiplies the weight of candidates with at least two
	// exact matches; SingleExactBoost applies to exactly one.
	DoubleExactBoost float64 `yaml:"double_exact_boost"`
	SingleExactBoost float64 `yaml:"single_exact_boost"`
}

// DefaultAggregateParams returns the production constants.
func DefaultAggregateParams() AggregateParams {
	return AggregateParams{DoubleExactBoost: 2.5, SingleExactBoost: 1.5}
}

// Aggregation is the outcome of a CHV computation.
type Aggregation struct {
	CurrentValue float64
	Method       Method
	// Comparables lists the candidates that actually participated, best
	// first. For the short-circuit methods it holds the single winner.
	Comparables []scoring.Scored
}

// Aggregator reduces a scored candidate list to one current value.
type Aggregator struct {
	params AggregateParams
}

// NewAggregator builds an aggregator; zero params fall back to defaults.
func NewAggregator(params AggregateParams) *Aggregator {
	if params == (AggregateParams{}) {
		params = DefaultAggregateParams()
	}
	return &Aggregator{params: params}
}

// Aggregate applies the decision ladder: a perfect three-dimension match wins
// outright, then a same-street candidate with at least two exact matches,
// then a score-weighted average. Candidates without a positive current value
// never participate.
func (a *Aggregator) Aggregate(candidates []scoring.Scored, originalAddress string) (Aggregation, error) {
	valued := make([]scoring.Scored, 0, len(candidates))
	for _, c := range candidates {
		if c.Record.HasValue() {
			valued = append(valued, c)
		}
	}
	if len(valued) == 0 {
		return Aggregation{}, ErrNoComparables
	}

	// A candidate matching footage, bedrooms, and bathrooms simultaneously
	// is effectively the same property; averaging would only dilute it.
	for _, c := range valued {
		if c.ExactMatches == 3 {
			return Aggregation{
				CurrentValue: *c.Record.CurrentValue,
				Method:       MethodExactMatch,
				Comparables:  []scoring.Scored{c},
			}, nil
		}
	}

	// Geographic adjacency on the same street dominates a purely numeric
	// match once two dimensions already agree.
	if street := property.StreetName(originalAddress); street != "" {
		for _, c := range valued {
			if c.ExactMatches < 2 {
				continue
			}
			if strings.Contains(strings.ToLower(c.Record.FullAddress()), street) {
				return Aggregation{
					CurrentValue: *c.Record.CurrentValue,
					Method:       MethodSameStreet,
					Comparables:  []scoring.Scored{c},
				}, nil
			}
		}
	}

	var weightedSum, totalWeight float64
	for _, c := range valued {
		weight := c.MatchScore
		switch {
		case c.ExactMatches >= 2:
			weight *= a.params.DoubleExactBoost
		case c.ExactMatches == 1:
			weight *= a.params.SingleExactBoost
		}
		weightedSum += *c.Record.CurrentValue * weight
		totalWeight += weight
	}
	if totalWeight > 0 {
		return Aggregation{
			CurrentValue: weightedSum / totalWeight,
			Method:       MethodWeightedAverage,
			Comparables:  valued,
		}, nil
	}

	var sum float64
	for _, c := range valued {
		sum += *c.Record.CurrentValue
	}
	return Aggregation{
		CurrentValue: sum / float64(len(valued)),
		Method:       MethodSimpleAverage,
		Comparables:  valued,
	}, nil
}
