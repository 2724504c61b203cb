package host

import (
	"context"
	"sync"
)

// ToggleGate is a Gate whose flag can be flipped at runtime. It reports ready
// immediately; the CLI and tests use it in place of a real host bridge.
type ToggleGate struct {
	mu      sync.Mutex
	enabled bool
	subs    map[int]func(bool)
	nextID  int
	ready   chan struct{}
}

// NewToggleGate returns a ready gate with the given initial flag.
func NewToggleGate(enabled bool) *ToggleGate {
	ready := make(chan struct{})
	close(ready)
	return &ToggleGate{
		enabled: enabled,
		subs:    map[int]func(bool){},
		ready:   ready,
	}
}

func (g *ToggleGate) Enabled(context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled, nil
}

func (g *ToggleGate) Ready() <-chan struct{} { return g.ready }

func (g *ToggleGate) Subscribe(fn func(bool)) (cancel func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextID
	g.nextID++
	g.subs[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.subs, id)
	}
}

// SetEnabled flips the flag and notifies subscribers.
func (g *ToggleGate) SetEnabled(enabled bool) {
	g.mu.Lock()
	changed := g.enabled != enabled
	g.enabled = enabled
	fns := make([]func(bool), 0, len(g.subs))
	for _, fn := range g.subs {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range fns {
		fn(enabled)
	}
}

// NopEffects discards every onEnter effect.
type NopEffects struct{}

func (NopEffects) ShowOverlay(context.Context, OverlaySpec) error { return nil }
func (NopEffects) OpenPage(context.Context, string) error         { return nil }
func (NopEffects) OpenPopover(context.Context) error              { return nil }
