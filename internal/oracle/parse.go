package oracle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/renovalab/renovest/internal/property"
)

// Payload is the wire shape an upstream lookup source hands back. Exactly one
// of the two statuses is legal; anything else is malformed output.
type Payload struct {
	Status     string            `json:"status"`
	Property   *property.Record  `json:"property,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	Candidates []property.Record `json:"candidates,omitempty"`
}

const (
	statusResolved  = "resolved"
	statusAmbiguous = "ambiguous"
)

// ParsePayload converts a raw oracle payload into a typed outcome. It is the
// single validation point for oracle data: raw HTML, truncated JSON, unknown
// statuses, and records without an address all fail with ErrMalformedOutput.
func ParsePayload(raw []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Payload{}, fmt.Errorf("%w: empty payload", ErrMalformedOutput)
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	var p Payload
	if err := dec.Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if dec.More() {
		return Payload{}, fmt.Errorf("%w: trailing data after payload", ErrMalformedOutput)
	}
	switch p.Status {
	case statusResolved:
		if p.Property == nil {
			return Payload{}, fmt.Errorf("%w: resolved payload without property", ErrMalformedOutput)
		}
		if strings.TrimSpace(p.Property.Street) == "" {
			return Payload{}, fmt.Errorf("%w: property record without street address", ErrMalformedOutput)
		}
	case statusAmbiguous:
		if len(p.Candidates) > MaxCandidates {
			p.Candidates = p.Candidates[:MaxCandidates]
		}
		for i := range p.Candidates {
			if strings.TrimSpace(p.Candidates[i].Street) == "" {
				return Payload{}, fmt.Errorf("%w: candidate %d without street address", ErrMalformedOutput, i)
			}
		}
	default:
		return Payload{}, fmt.Errorf("%w: unknown status %q", ErrMalformedOutput, p.Status)
	}
	return p, nil
}

// Resolved reports whether the payload carries a single specific property.
func (p Payload) Resolved() bool { return p.Status == statusResolved }
