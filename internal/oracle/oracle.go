// Package oracle defines the property-lookup collaborator the estimation
// engine depends on. The engine treats the oracle as opaque: it either
// resolves a single specific property, or signals that the address only
// identifies a neighbourhood and supplies a best-effort candidate list.
//
// All payload validation happens exactly once, at this boundary. Internal
// code downstream never re-guesses the shape of oracle data.
package oracle

import (
	"context"
	"errors"

	"github.com/renovalab/renovest/internal/handoff"
	"github.com/renovalab/renovest/internal/property"
)

// ErrMalformedOutput marks oracle payloads that could not be parsed into the
// expected structure. Consumers must treat this as a hard failure for the
// request, never substitute synthetic data.
var ErrMalformedOutput = errors.New("oracle: malformed output")

// Kind discriminates the two well-formed oracle outcomes.
type Kind string

const (
	// KindSpecific means the address resolved to one detailed record.
	KindSpecific Kind = "specific"
	// KindAmbiguous means the address identifies a neighbourhood; the result
	// carries nearby candidates and the handoff request that was signalled.
	KindAmbiguous Kind = "ambiguous"
)

// Result is the oracle's completed answer for one lookup.
type Result struct {
	Kind       Kind
	Property   *property.Record
	Candidates []property.Record
	Handoff    *handoff.Request
}

// Oracle resolves a free-text address into property data. Implementations
// signalling an ambiguous address must emit the handoff request on the
// supplied per-call emitter before (or at) completion, and must cap the
// candidate list at MaxCandidates.
type Oracle interface {
	Lookup(ctx context.Context, address string, signals *handoff.Emitter) (Result, error)
}

// MaxCandidates bounds the best-effort neighbour list an oracle may return.
const MaxCandidates = 10

// Validate checks structural invariants on a completed result.
func (r Result) Validate() error {
	switch r.Kind {
	case KindSpecific:
		if r.Property == nil {
			return errors.New("specific result is missing its property record")
		}
	case KindAmbiguous:
		if r.Handoff == nil {
			return errors.New("ambiguous result is missing its handoff request")
		}
		if len(r.Candidates) > MaxCandidates {
			return errors.New("candidate list exceeds limit")
		}
	default:
		return errors.New("unknown result kind")
	}
	return nil
}
