package valuation

import "math"

// DefaultTARR is the total acquisition-renovation ratio. It is the
// contractual constant the product's output depends on; treat it as fixed.
const DefaultTARR = 0.87

// AllowanceParams configures the allowance formula.
type AllowanceParams struct {
	TARR float64 `yaml:"tarr"`
}

// DefaultAllowanceParams returns the production ratio.
func DefaultAllowanceParams() AllowanceParams {
	return AllowanceParams{TARR: DefaultTARR}
}

// Allowance computes the renovation allowance:
//
//	allowance = max(0, round(arv × TARR − chv))
//
// The result is never negative.
func Allowance(arv, chv float64, params AllowanceParams) float64 {
	tarr := params.TARR
	if tarr == 0 {
		tarr = DefaultTARR
	}
	return math.Max(0, math.Round(arv*tarr-chv))
}
