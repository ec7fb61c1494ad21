package app

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/joaoccaldas/coinsnap-collector/pkg/vision"
)

// Outcome is the single resolution of an identification request: exactly one
// of Result or Err is set.
type Outcome struct {
	Gen    uint64
	Result *vision.Identification
	Err    error
}

// Dispatcher runs identification requests one outcome at a time. There is no
// cancellation: a newer Submit supersedes an older request, and the stale
// outcome is dropped when it eventually arrives.
type Dispatcher struct {
	identifier vision.Identifier
	gen        atomic.Uint64

	mu       sync.Mutex
	outcomes chan Outcome
}

// NewDispatcher wraps an Identifier in the one-shot request model.
func NewDispatcher(identifier vision.Identifier) *Dispatcher {
	return &Dispatcher{
		identifier: identifier,
		outcomes:   make(chan Outcome, 1),
	}
}

// Outcomes delivers at most one pending outcome: the latest non-superseded
// resolution.
func (d *Dispatcher) Outcomes() <-chan Outcome {
	return d.outcomes
}

// Submit issues an identification request and returns its generation token.
// The call returns immediately; the outcome arrives on Outcomes unless a
// newer Submit supersedes this one first.
func (d *Dispatcher) Submit(ctx context.Context, front, back vision.Image) uint64 {
	gen := d.gen.Add(1)

	go func() {
		result, err := d.identifier.Identify(ctx, front, back)
		d.deliver(Outcome{Gen: gen, Result: result, Err: err})
	}()

	return gen
}

func (d *Dispatcher) deliver(out Outcome) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// The generation check happens under the same lock as the send, so a
	// stale outcome can never slip past a newer one and evict it.
	if out.Gen != d.gen.Load() {
		zap.L().Debug("identify: dropping superseded outcome",
			zap.Uint64("gen", out.Gen),
			zap.Uint64("current", d.gen.Load()),
		)
		return
	}

	// Evict an unconsumed stale outcome so the latest one always fits.
	select {
	case <-d.outcomes:
	default:
	}
	d.outcomes <- out
}
