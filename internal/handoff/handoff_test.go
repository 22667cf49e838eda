package handoff

import (
	"testing"
	"time"
)

func validRequest() Request {
	return Request{
		Address: "123 Maple Ave, Springfield",
		Reason:  "address matched a neighbourhood, not a single property",
		DefaultAssumptions: Assumptions{
			SquareFootage: 1800,
			Bedrooms:      3,
			Bathrooms:     2,
		},
	}
}

func TestEmitNormalizesRequest(t *testing.T) {
	e := NewEmitter()
	sent, err := e.Emit(validRequest())
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if sent.EventID == "" {
		t.Fatalf("expected generated event id")
	}
	if sent.EmittedAt.IsZero() {
		t.Fatalf("expected emitted_at stamp")
	}
	select {
	case got := <-e.Signal():
		if got.EventID != sent.EventID {
			t.Fatalf("signal mismatch: %s vs %s", got.EventID, sent.EventID)
		}
	case <-time.After(time.Second):
		t.Fatalf("signal never delivered")
	}
}

func TestEmitRejectsIncompleteRequest(t *testing.T) {
	e := NewEmitter()
	req := validRequest()
	req.Reason = "  "
	if _, err := e.Emit(req); err == nil {
		t.Fatalf("expected validation error for empty reason")
	}
	select {
	case <-e.Signal():
		t.Fatalf("invalid request must not be delivered")
	default:
	}
}

func TestEmitterDeliversFirstSignalOnly(t *testing.T) {
	e := NewEmitter()
	first := validRequest()
	first.EventID = "evt-1"
	second := validRequest()
	second.EventID = "evt-2"
	if _, err := e.Emit(first); err != nil {
		t.Fatalf("emit first: %v", err)
	}
	if _, err := e.Emit(second); err != nil {
		t.Fatalf("emit second: %v", err)
	}
	got := <-e.Signal()
	if got.EventID != "evt-1" {
		t.Fatalf("expected first emission, got %s", got.EventID)
	}
	select {
	case extra := <-e.Signal():
		t.Fatalf("unexpected second delivery: %s", extra.EventID)
	default:
	}
}

func TestEmittersAreIsolatedPerCall(t *testing.T) {
	a := NewEmitter()
	b := NewEmitter()
	if _, err := a.Emit(validRequest()); err != nil {
		t.Fatalf("emit: %v", err)
	}
	select {
	case <-b.Signal():
		t.Fatalf("signal leaked across emitters")
	default:
	}
	<-a.Signal()
}
