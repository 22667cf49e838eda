// Package handoff defines the "needs more detail" signal the oracle raises
// when an address resolves to a neighbourhood rather than a single property,
// plus the per-call emitter the orchestrator races against oracle completion.
package handoff

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Assumptions are the fallback property characteristics applied when the
// caller never supplies details after a handoff.
type Assumptions struct {
	SquareFootage float64 `json:"square_footage" yaml:"square_footage"`
	Bedrooms      int     `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms     float64 `json:"bathrooms" yaml:"bathrooms"`
}

// Request is emitted once per ambiguous address resolution attempt. It is
// consumed exactly once by the orchestrator's race logic and never persisted.
type Request struct {
	EventID            string      `json:"event_id"`
	Address            string      `json:"address"`
	Reason             string      `json:"reason"`
	DefaultAssumptions Assumptions `json:"default_assumptions"`
	EmittedAt          time.Time   `json:"emitted_at"`
}

// Normalize applies defaults and canonical formatting before validation.
func (r *Request) Normalize() {
	if r == nil {
		return
	}
	if r.EventID == "" {
		r.EventID = uuid.NewString()
	}
	r.Address = strings.TrimSpace(r.Address)
	r.Reason = strings.TrimSpace(r.Reason)
	if r.EmittedAt.IsZero() {
		r.EmittedAt = time.Now().UTC()
	}
}

// Validate enforces baseline requirements on an outgoing request.
func (r Request) Validate() error {
	if r.EventID == "" {
		return errors.New("event_id is required")
	}
	if r.Address == "" {
		return errors.New("address is required")
	}
	if r.Reason == "" {
		return errors.New("reason is required")
	}
	if r.DefaultAssumptions == (Assumptions{}) {
		return errors.New("default_assumptions are required")
	}
	return nil
}

// Emitter is a single-shot signal channel owned by exactly one estimation
// call. Each call constructs its own emitter so concurrent estimations can
// never observe each other's handoff signals.
type Emitter struct {
	ch chan Request
}

// NewEmitter constructs an emitter with a one-slot buffer so the oracle side
// never blocks on a receiver that already took another race branch.
func NewEmitter() *Emitter {
	return &Emitter{ch: make(chan Request, 1)}
}

// Emit normalizes and publishes the request. Only the first emission is
// delivered; later emissions for the same call are dropped. The request is
// returned (with normalization applied) so the caller can embed it in its
// own ambiguous result.
func (e *Emitter) Emit(req Request) (Request, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return Request{}, fmt.Errorf("handoff: invalid request: %w", err)
	}
	if e == nil {
		return req, nil
	}
	select {
	case e.ch <- req:
	default:
		// A signal is already pending; the race consumes at most one.
	}
	return req, nil
}

// Signal exposes the receive side for the orchestrator's select.
func (e *Emitter) Signal() <-chan Request {
	if e == nil {
		return nil
	}
	return e.ch
}
