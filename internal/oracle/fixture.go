package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/renovalab/renovest/internal/handoff"
	"github.com/renovalab/renovest/internal/property"
)

// Fixture is an offline, deterministic Oracle over an in-memory dataset.
// An exact (case- and whitespace-insensitive) full-address match resolves a
// specific property. Anything else is treated as a neighbourhood query: the
// fixture emits a handoff request and returns the closest addresses in the
// dataset as candidates, ranked by fuzzy match quality.
type Fixture struct {
	records     []property.Record
	addresses   []string
	assumptions handoff.Assumptions
}

// NewFixture builds a fixture oracle. The assumptions are embedded in every
// handoff request the fixture emits.
func NewFixture(records []property.Record, assumptions handoff.Assumptions) *Fixture {
	addresses := make([]string, len(records))
	for i, rec := range records {
		addresses[i] = rec.FullAddress()
	}
	return &Fixture{
		records:     records,
		addresses:   addresses,
		assumptions: assumptions,
	}
}

// Lookup implements Oracle.
func (f *Fixture) Lookup(ctx context.Context, address string, signals *handoff.Emitter) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	normalized := property.NormalizeAddress(address)
	for i := range f.records {
		if property.NormalizeAddress(f.addresses[i]) == normalized {
			rec := f.records[i]
			return Result{Kind: KindSpecific, Property: &rec}, nil
		}
	}

	matches := fuzzy.Find(address, f.addresses)
	candidates := make([]property.Record, 0, MaxCandidates)
	for _, m := range matches {
		candidates = append(candidates, f.records[m.Index])
		if len(candidates) == MaxCandidates {
			break
		}
	}
	if len(matches) == 0 {
		// Nothing even close: fall back to the street-name neighbourhood so
		// the caller still receives a best-effort list.
		street := property.StreetName(address)
		for i, rec := range f.records {
			if street != "" && containsFold(f.addresses[i], street) {
				candidates = append(candidates, rec)
				if len(candidates) == MaxCandidates {
					break
				}
			}
		}
	}

	req, err := signals.Emit(handoff.Request{
		Address:            address,
		Reason:             fmt.Sprintf("address %q matched %d nearby properties, not a single record", address, len(candidates)),
		DefaultAssumptions: f.assumptions,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Kind:       KindAmbiguous,
		Candidates: candidates,
		Handoff:    &req,
	}, nil
}

func containsFold(haystack, needle string) bool {
	return needle != "" && strings.Contains(property.NormalizeAddress(haystack), needle)
}
