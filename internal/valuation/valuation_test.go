package valuation

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/renovalab/renovest/internal/property"
	"github.com/renovalab/renovest/internal/scoring"
)

func scored(street string, value float64, exact int, score float64) scoring.Scored {
	return scoring.Scored{
		Record: property.Record{
			Street:       street,
			City:         "Springfield",
			CurrentValue: property.Float(value),
		},
		MatchScore:   score,
		ExactMatches: exact,
	}
}

func TestAggregatePerfectMatchShortCircuit(t *testing.T) {
	agg := NewAggregator(DefaultAggregateParams())
	candidates := []scoring.Scored{
		scored("900 Elm St", 950000, 1, 0.99),
		scored("412 Maple Ave", 300000, 3, 0.6),
		scored("7 Oak Rd", 120000, 2, 0.9),
	}
	got, err := agg.Aggregate(candidates, "400 Maple Ave, Springfield")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if got.Method != MethodExactMatch {
		t.Fatalf("expected exact-match method, got %s", got.Method)
	}
	if got.CurrentValue != 300000 {
		t.Fatalf("expected the perfect match's value, got %f", got.CurrentValue)
	}
}

func TestAggregateSameStreetShortCircuit(t *testing.T) {
	agg := NewAggregator(DefaultAggregateParams())
	candidates := []scoring.Scored{
		scored("900 Elm St", 950000, 2, 0.99),
		scored("418 Maple Ave", 342000, 2, 0.5),
		scored("7 Oak Rd", 120000, 1, 0.9),
	}
	got, err := agg.Aggregate(candidates, "412 Maple Ave, Springfield")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if got.Method != MethodSameStreet {
		t.Fatalf("expected same-street method, got %s", got.Method)
	}
	if got.CurrentValue != 342000 {
		t.Fatalf("expected the Maple Ave value, got %f", got.CurrentValue)
	}
}

func TestAggregateSameStreetRequiresTwoExacts(t *testing.T) {
	agg := NewAggregator(DefaultAggregateParams())
	candidates := []scoring.Scored{
		scored("418 Maple Ave", 342000, 1, 0.9),
		scored("900 Elm St", 200000, 0, 0.4),
	}
	got, err := agg.Aggregate(candidates, "412 Maple Ave, Springfield")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if got.Method != MethodWeightedAverage {
		t.Fatalf("one exact match must not trigger the street shortcut, got %s", got.Method)
	}
}

func TestAggregateWeightedAverage(t *testing.T) {
	agg := NewAggregator(DefaultAggregateParams())
	candidates := []scoring.Scored{
		scored("1 Elm St", 100000, 2, 0.8),  // weight 0.8 * 2.5 = 2.0
		scored("2 Elm St", 200000, 1, 0.5),  // weight 0.5 * 1.5 = 0.75
		scored("3 Elm St", 400000, 0, 0.25), // weight 0.25
	}
	got, err := agg.Aggregate(candidates, "9 Cedar Blvd")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	want := (100000*2.0 + 200000*0.75 + 400000*0.25) / (2.0 + 0.75 + 0.25)
	if math.Abs(got.CurrentValue-want) > 0.01 {
		t.Fatalf("weighted average mismatch: got %f want %f", got.CurrentValue, want)
	}
	if got.Method != MethodWeightedAverage {
		t.Fatalf("unexpected method %s", got.Method)
	}
}

func TestAggregateSimpleMeanWhenScoresAreZero(t *testing.T) {
	agg := NewAggregator(DefaultAggregateParams())
	candidates := []scoring.Scored{
		scored("1 Elm St", 100000, 0, 0),
		scored("2 Elm St", 300000, 0, 0),
	}
	got, err := agg.Aggregate(candidates, "9 Cedar Blvd")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if got.Method != MethodSimpleAverage {
		t.Fatalf("expected simple average, got %s", got.Method)
	}
	if got.CurrentValue != 200000 {
		t.Fatalf("expected 200000, got %f", got.CurrentValue)
	}
}

func TestAggregateNoComparables(t *testing.T) {
	agg := NewAggregator(DefaultAggregateParams())
	noValue := scoring.Scored{Record: property.Record{Street: "1 Elm St"}, ExactMatches: 3}
	if _, err := agg.Aggregate([]scoring.Scored{noValue}, "1 Elm St"); !errors.Is(err, ErrNoComparables) {
		t.Fatalf("expected ErrNoComparables, got %v", err)
	}
	if _, err := agg.Aggregate(nil, "1 Elm St"); !errors.Is(err, ErrNoComparables) {
		t.Fatalf("expected ErrNoComparables for empty input, got %v", err)
	}
}

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)
	}
}

func TestComputeARVStaysInsideClamp(t *testing.T) {
	calc := NewCalculator(DefaultARVParams(), WithClock(fixedClock(2026)))
	inputs := []ARVInput{
		{}, // no data at all: base 1.14 clamps up to 1.15
		{
			Bedrooms:     property.Int(4),
			Bathrooms:    property.Float(3),
			LivingArea:   property.Float(2600),
			YearBuilt:    property.Int(1970),
			PropertyType: "Residential",
			Address:      "412 Maple Ave, Springfield",
		},
	}
	for i, input := range inputs {
		got := calc.Compute(300000, input)
		if got.Multiplier < 1.15 || got.Multiplier > 1.35 {
			t.Fatalf("input %d: multiplier %f outside clamp", i, got.Multiplier)
		}
		if got.Value < 1.15*300000 || got.Value > 1.35*300000 {
			t.Fatalf("input %d: arv %f outside band", i, got.Value)
		}
	}
}

func TestComputeARVFullyAdjustedScenario(t *testing.T) {
	calc := NewCalculator(DefaultARVParams(), WithClock(fixedClock(2026)))
	input := ARVInput{
		Bedrooms:     property.Int(4),
		Bathrooms:    property.Float(3),
		LivingArea:   property.Float(2600),
		YearBuilt:    property.Int(1970),
		PropertyType: "Residential",
		Address:      "412 Maple Ave, Springfield",
	}
	// 1.14 +0.03 +0.03 +0.04 +0.03 +0.04 (56y) + jitter, clamped to 1.35.
	raw := 1.14 + 0.03 + 0.03 + 0.04 + 0.03 + 0.04 + AddressJitter(input.Address)
	want := math.Min(raw, 1.35)
	got := calc.Compute(300000, input)
	if math.Abs(got.Multiplier-want) > 1e-9 {
		t.Fatalf("multiplier mismatch: got %f want %f", got.Multiplier, want)
	}
	if got.Value != math.Round(300000*want) {
		t.Fatalf("value mismatch: got %f", got.Value)
	}
}

func TestComputeARVIsDeterministicPerAddress(t *testing.T) {
	calc := NewCalculator(DefaultARVParams(), WithClock(fixedClock(2026)))
	input := ARVInput{
		Bedrooms:   property.Int(3),
		LivingArea: property.Float(1800),
		Address:    "109 Birchwood Ct, Springfield",
	}
	first := calc.Compute(250000, input)
	second := calc.Compute(250000, input)
	if first != second {
		t.Fatalf("repeat computation diverged: %+v vs %+v", first, second)
	}
	other := input
	other.Address = "117 Birchwood Ct, Springfield"
	if calc.Compute(250000, other).Multiplier == first.Multiplier &&
		AddressJitter(other.Address) != AddressJitter(input.Address) {
		t.Fatalf("distinct jitter terms must move the multiplier")
	}
}

func TestAddressJitterRange(t *testing.T) {
	addresses := []string{
		"", "a", "412 Maple Ave", "109 Birchwood Ct, Springfield, IL 62711",
		"999999 Long Road Name With Many Characters, Somewhere, ZZ",
	}
	for _, addr := range addresses {
		j := AddressJitter(addr)
		if j < -0.02 || j > 0.02 {
			t.Fatalf("jitter %f for %q outside [-0.02, 0.02]", j, addr)
		}
		if j != AddressJitter(addr) {
			t.Fatalf("jitter for %q not deterministic", addr)
		}
	}
}

func TestAllowanceFormula(t *testing.T) {
	cases := []struct {
		arv, chv, want float64
	}{
		{400000, 300000, math.Round(400000*0.87 - 300000)},
		{300000, 300000, 0}, // 261000 - 300000 is negative, floored at 0
		{100000, 500000, 0},
		{351724.13, 200000, math.Round(351724.13*0.87 - 200000)},
	}
	for _, tc := range cases {
		if got := Allowance(tc.arv, tc.chv, DefaultAllowanceParams()); got != tc.want {
			t.Fatalf("Allowance(%f, %f) = %f, want %f", tc.arv, tc.chv, got, tc.want)
		}
		if got := Allowance(tc.arv, tc.chv, DefaultAllowanceParams()); got < 0 {
			t.Fatalf("allowance must never be negative")
		}
	}
}
