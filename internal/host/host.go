// Package host defines the capability ports the embedding application hands
// to the engine: the enabled gate and the onEnter effect surface. The engine
// reaches for these instead of ambient globals, and it treats any failure to
// answer the enabled query as "disabled".
package host

import "context"

// Gate reports whether the host application is enabled. The engine must
// never activate the walkthrough while the host is disabled, and it re-checks
// the gate at every mutating entry point.
type Gate interface {
	// Enabled returns the host-enabled flag. An error means the answer is
	// unknown; callers fail closed.
	Enabled(ctx context.Context) (bool, error)
	// Ready is closed once the host has finished attaching. Engines wait on
	// it instead of polling for the host.
	Ready() <-chan struct{}
	// Subscribe registers a callback for enabled-flag changes and returns
	// its cancel func.
	Subscribe(fn func(enabled bool)) (cancel func())
}

// OverlaySpec describes an onEnter modal overlay.
type OverlaySpec struct {
	Title           string
	Text            string
	PrimaryButton   string
	SecondaryButton string
	// Attrs carries any further attributes from the model verbatim.
	Attrs map[string]string
}

// Effects is the presentation surface for onEnter actions. Implementations
// are pure side effects on the host UI; they never feed back into progress.
type Effects interface {
	// ShowOverlay presents a modal overlay.
	ShowOverlay(ctx context.Context, spec OverlaySpec) error
	// OpenPage opens a host-internal page in a new surface.
	OpenPage(ctx context.Context, path string) error
	// OpenPopover opens the legacy launcher popover.
	OpenPopover(ctx context.Context) error
}
