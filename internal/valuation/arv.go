package valuation

import (
	"math"
	"strings"
	"time"
)

// ARVParams holds the tunable ends of the after-renovated-value formula. The
// per-characteristic adjustment bands are fixed in code; only the envelope is
// configuration.
type ARVParams struct {
	// BaseMultiplier is the uplift applied before characteristic adjustments.
	BaseMultiplier float64 `yaml:"base_multiplier"`
	// ClampMin and ClampMax bound the final multiplier.
	ClampMin float64 `yaml:"clamp_min"`
	ClampMax float64 `yaml:"clamp_max"`
}

// DefaultARVParams returns the production envelope: +14% base, multiplier
// clamped to [1.15, 1.35].
func DefaultARVParams() ARVParams {
	return ARVParams{BaseMultiplier: 1.14, ClampMin: 1.15, ClampMax: 1.35}
}

// ARVInput carries the property characteristics feeding the adjustment
// model. Nil fields contribute no adjustment.
type ARVInput struct {
	LivingArea   *float64
	Bedrooms     *int
	Bathrooms    *float64
	YearBuilt    *int
	PropertyType string
	Address      string
}

// ARV is the projected after-renovated value plus the multiplier that
// produced it.
type ARV struct {
	Value      float64
	Multiplier float64
}

// Calculator computes after-renovated values.
type Calculator struct {
	params ARVParams
	clock  func() time.Time
}

// CalcOption customizes the calculator.
type CalcOption func(*Calculator)

// WithClock injects a deterministic clock for age adjustments in tests.
func WithClock(clock func() time.Time) CalcOption {
	return func(c *Calculator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewCalculator builds an ARV calculator; zero params fall back to defaults.
func NewCalculator(params ARVParams, opts ...CalcOption) *Calculator {
	if params == (ARVParams{}) {
		params = DefaultARVParams()
	}
	c := &Calculator{params: params, clock: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute applies the additive-multiplier model to a base value: start from
// the base multiplier, add the bedroom, bathroom, living-area, property-type,
// and age adjustments plus the address-derived jitter, clamp, and round.
func (c *Calculator) Compute(baseValue float64, input ARVInput) ARV {
	m := c.params.BaseMultiplier

	if input.Bedrooms != nil {
		switch beds := *input.Bedrooms; {
		case beds >= 4:
			m += 0.03
		case beds == 3:
			m += 0.02
		case beds == 2:
			m += 0.01
		}
	}

	if input.Bathrooms != nil {
		switch baths := *input.Bathrooms; {
		case baths >= 3:
			m += 0.03
		case baths >= 2:
			m += 0.02
		default:
			m += 0.01
		}
	}

	if input.LivingArea != nil {
		switch area := *input.LivingArea; {
		case area >= 2500:
			m += 0.04
		case area >= 2000:
			m += 0.03
		case area >= 1500:
			m += 0.02
		case area >= 1000:
			m += 0.01
		}
	}

	switch normalizeType(input.PropertyType) {
	case "condominium", "condo":
		m += 0.01
	case "townhouse":
		m += 0.02
	case "single-family", "single family", "residential":
		m += 0.03
	}

	if input.YearBuilt != nil && *input.YearBuilt > 0 {
		switch age := c.clock().Year() - *input.YearBuilt; {
		case age > 50:
			m += 0.04
		case age > 30:
			m += 0.03
		case age > 15:
			m += 0.02
		case age > 5:
			m += 0.01
		}
	}

	m += AddressJitter(input.Address)

	if m < c.params.ClampMin {
		m = c.params.ClampMin
	}
	if m > c.params.ClampMax {
		m = c.params.ClampMax
	}

	return ARV{Value: math.Round(baseValue * m), Multiplier: m}
}

// AddressJitter derives a small deterministic multiplier offset in
// [-0.02, +0.019] from the address text, so properties with identical coarse
// characteristics do not collapse to byte-identical ARVs. The fingerprint is
// the sum of charCode(i) * (i+1) reduced modulo 40; downstream reproducibility
// depends on it, so do not change the formula.
func AddressJitter(address string) float64 {
	sum := 0
	pos := 0
	for _, r := range address {
		pos++
		sum += int(r) * pos
	}
	return float64(sum%40-20) / 1000
}

func normalizeType(propertyType string) string {
	return strings.ToLower(strings.TrimSpace(propertyType))
}
