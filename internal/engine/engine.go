// Package engine implements the onboarding walkthrough progress engine: it
// tracks which tasks on the current slide are complete, advances slides, fires
// one-shot onEnter effects, and persists progress to a key-value store.
//
// The engine is single-threaded by contract: the host delivers every input —
// user commands, action/mode events, storage change notifications, page
// lifecycle hints — on one goroutine. Persistence is best-effort; store
// failures are logged and swallowed, and the in-memory state stays
// authoritative for the session.
package engine

import (
	"bytes"
	"context"
	"time"

	"github.com/worksonmyai/tourguide/internal/debug"
	"github.com/worksonmyai/tourguide/internal/event"
	"github.com/worksonmyai/tourguide/internal/host"
	"github.com/worksonmyai/tourguide/internal/model"
	"github.com/worksonmyai/tourguide/internal/progress"
	"github.com/worksonmyai/tourguide/internal/protocol"
	"github.com/worksonmyai/tourguide/internal/store"
)

// TransitionRunner animates a slide change. Implementations must eventually
// call done exactly once; the engine drops navigation requests while done is
// pending, with no timeout. done may be called synchronously.
type TransitionRunner func(from, to string, done func())

// Config wires an Engine's collaborators.
type Config struct {
	Model   *model.Model
	Store   store.Store
	Gate    host.Gate
	Effects host.Effects
	// Emit receives engine events; nil discards them.
	Emit event.Handler
	// Transition animates slide changes; nil means instantaneous.
	Transition TransitionRunner
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Engine is the walkthrough progress state machine.
type Engine struct {
	model      *model.Model
	store      store.Store
	gate       host.Gate
	effects    host.Effects
	emit       event.Handler
	transition TransitionRunner
	now        func() time.Time

	active bool
	prog   progress.Progress

	// transitioning serializes slide changes; gen invalidates stale done
	// callbacks from superseded transitions.
	transitioning bool
	gen           uint64

	// once-per-load recovery latches
	backApplied      bool
	transientApplied bool

	// lastWritten suppresses storage-change notifications for our own writes.
	lastWritten map[string][]byte
}

// New creates an engine. The walkthrough starts positioned at the first slide
// with empty progress; call Load to restore persisted state.
func New(cfg Config) *Engine {
	m := cfg.Model
	if m == nil {
		m = &model.Model{}
	}
	gate := cfg.Gate
	if gate == nil {
		gate = host.NewToggleGate(true)
	}
	effects := cfg.Effects
	if effects == nil {
		effects = host.NopEffects{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	st := cfg.Store
	if st == nil {
		st = store.NewMemory()
	}

	firstID := ""
	if first, ok := m.First(); ok {
		firstID = first.ID
	}
	return &Engine{
		model:       m,
		store:       st,
		gate:        gate,
		effects:     effects,
		emit:        cfg.Emit,
		transition:  cfg.Transition,
		now:         now,
		prog:        progress.New(firstID),
		lastWritten: map[string][]byte{},
	}
}

// Load waits for the host ready future, restores persisted state, and
// re-enters the current slide if the walkthrough is active. Store failures
// leave the engine at its defaults.
func (e *Engine) Load(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-e.gate.Ready():
	}

	if data, ok, err := e.store.Get(ctx, protocol.KeyActive); err != nil {
		debug.Logf("load active flag: %v", err)
	} else if ok {
		e.lastWritten[protocol.KeyActive] = data
		e.active = string(data) == "true"
	}
	if data, ok, err := e.store.Get(ctx, protocol.KeyProgress); err != nil {
		debug.Logf("load progress record: %v", err)
	} else if ok {
		e.lastWritten[protocol.KeyProgress] = data
		e.prog = progress.Decode(data)
	}
	e.normalize()

	if e.active && !e.enabled(ctx) {
		e.active = false
	}
	if e.active && !e.prog.Completed {
		e.enterCurrent(ctx, protocol.CauseActivate)
	}
}

// normalize repairs a restored record against the current model: an unknown
// or missing slide id falls back to the first slide with its task set
// cleared. Completed walkthroughs are left alone.
func (e *Engine) normalize() {
	if e.model.Empty() || e.prog.Completed {
		return
	}
	if e.model.Index(e.prog.SlideID) >= 0 {
		return
	}
	first, _ := e.model.First()
	e.prog.SlideID = first.ID
	e.prog.CompletedTaskIDs = map[string]struct{}{}
}

// Active reports whether the walkthrough is switched on.
func (e *Engine) Active() bool { return e.active }

// Completed reports whether the walkthrough has finished.
func (e *Engine) Completed() bool { return e.prog.Completed }

// Visible reports whether the walkthrough UI should be shown: active and not
// yet completed.
func (e *Engine) Visible() bool { return e.active && !e.prog.Completed }

// CurrentSlideID returns the current slide id, "" for an empty model.
func (e *Engine) CurrentSlideID() string { return e.prog.SlideID }

// TaskState is the completion state of one task, for presentation.
type TaskState struct {
	ID    string
	Label string
	Done  bool
}

// Snapshot is a point-in-time view of the engine for presentation layers.
type Snapshot struct {
	Active     bool
	Completed  bool
	SlideID    string
	SlideIndex int
	SlideCount int
	Title      string
	Body       string
	Tasks      []TaskState
}

// Snapshot returns the current presentation state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Active:     e.active,
		Completed:  e.prog.Completed,
		SlideID:    e.prog.SlideID,
		SlideIndex: e.model.Index(e.prog.SlideID),
		SlideCount: e.model.Len(),
	}
	if s, ok := e.model.ByID(e.prog.SlideID); ok {
		snap.Title = s.Title
		snap.Body = s.Body
		for _, t := range s.Tasks {
			snap.Tasks = append(snap.Tasks, TaskState{ID: t.ID, Label: t.Label, Done: e.prog.TaskDone(t.ID)})
		}
	}
	return snap
}

// Handle dispatches one inbound event.
func (e *Engine) Handle(ctx context.Context, in Input) {
	switch in := in.(type) {
	case ActionInput:
		e.handleAction(ctx, in.Action, in.Detail)
	case ModeChangeInput:
		e.handleModeChange(ctx, in.Prev, in.Next)
	case ToggleInput:
		e.SetActive(ctx, in.Enabled)
	default:
		debug.Logf("unknown input %T dropped", in)
	}
}

// SetActive shows or dismisses the walkthrough. Activation is blocked while
// the host is disabled, the model is empty, or the walkthrough already
// completed; deactivation always succeeds and is idempotent.
func (e *Engine) SetActive(ctx context.Context, on bool) {
	if !on {
		if !e.active {
			return
		}
		e.active = false
		e.persistActive(ctx)
		return
	}

	if e.active {
		return
	}
	if e.prog.Completed {
		debug.Logf("activate ignored: walkthrough already completed")
		return
	}
	if e.model.Empty() {
		debug.Logf("activate ignored: empty model")
		return
	}
	if !e.enabled(ctx) {
		return
	}
	e.normalize()
	e.active = true
	e.persistActive(ctx)
	e.enterCurrent(ctx, protocol.CauseActivate)
}

// Reset restarts the walkthrough at the first slide with all completion
// tracking cleared, regardless of prior state. Only the host-disabled gate
// blocks it. Any in-flight transition is abandoned.
func (e *Engine) Reset(ctx context.Context) {
	if !e.enabled(ctx) {
		return
	}
	if e.model.Empty() {
		debug.Logf("reset ignored: empty model")
		return
	}
	first, _ := e.model.First()
	from := e.prog.SlideID

	e.gen++
	e.transitioning = false
	e.prog = progress.New(first.ID)
	e.active = true
	e.persistProgress(ctx)
	e.persistActive(ctx)

	n := e.model.Len()
	e.emitEvent(event.TransitionStart(from, first.ID, 0, n, protocol.CauseReset))
	e.emitEvent(event.TransitionEnd(from, first.ID, 0, n, protocol.CauseReset))
	e.enterCurrent(ctx, protocol.CauseReset)
}

// NextSlide advances one slide. No-op at the last slide, while a transition
// is in flight, or while the host is disabled.
func (e *Engine) NextSlide(ctx context.Context) {
	if !e.active || e.prog.Completed || e.transitioning {
		return
	}
	if !e.enabled(ctx) {
		return
	}
	next, ok := e.model.NextAfter(e.prog.SlideID)
	if !ok {
		return
	}
	e.beginTransition(ctx, next.ID, protocol.CauseManualNext)
}

// PrevSlide goes back one slide. No-op at the first slide, while a transition
// is in flight, or while the host is disabled.
func (e *Engine) PrevSlide(ctx context.Context) {
	if !e.active || e.prog.Completed || e.transitioning {
		return
	}
	if !e.enabled(ctx) {
		return
	}
	prev, ok := e.model.PrevBefore(e.prog.SlideID)
	if !ok {
		return
	}
	e.beginTransition(ctx, prev.ID, protocol.CauseManualPrev)
}

// ApplyTransient reads the transient-action recovery record, applies it if it
// is fresh, and discards it either way. Runs at most once per engine
// lifetime; re-delivery cannot double-complete tasks or double-advance.
func (e *Engine) ApplyTransient(ctx context.Context) {
	if e.transientApplied {
		return
	}
	e.transientApplied = true

	data, ok, err := e.store.Get(ctx, protocol.KeyTransient)
	if err != nil {
		debug.Logf("load transient record: %v", err)
		return
	}
	if !ok {
		return
	}
	if err := e.store.Delete(ctx, protocol.KeyTransient); err != nil {
		debug.Logf("discard transient record: %v", err)
	}

	rec := progress.DecodeTransient(data)
	if rec.Action == "" || rec.Expired(e.now()) {
		return
	}
	e.handleAction(ctx, rec.Action, rec.Detail)
}

// NoteBackNavigation treats a back/forward page load as an implicit back
// action, once per engine lifetime.
func (e *Engine) NoteBackNavigation(ctx context.Context) {
	if e.backApplied {
		return
	}
	e.backApplied = true
	e.handleAction(ctx, protocol.BackAction, model.Detail{})
}

// SyncFromStore re-derives in-memory state from a storage change that
// originated in another context. The host wires the store's Watch to this,
// serialized onto the engine's goroutine. Changes matching the engine's own
// last write are ignored.
func (e *Engine) SyncFromStore(key string, value []byte) {
	switch key {
	case protocol.KeyActive:
		if bytes.Equal(e.lastWritten[key], value) {
			return
		}
		e.lastWritten[key] = value
		e.active = string(value) == "true"
		debug.Logf("synced active=%v from store", e.active)
	case protocol.KeyProgress:
		if bytes.Equal(e.lastWritten[key], value) {
			return
		}
		e.lastWritten[key] = value
		if value == nil {
			firstID := ""
			if first, ok := e.model.First(); ok {
				firstID = first.ID
			}
			e.prog = progress.New(firstID)
		} else {
			e.prog = progress.Decode(value)
		}
		e.normalize()
		debug.Logf("synced progress slide=%s completed=%v from store", e.prog.SlideID, e.prog.Completed)
	}
}

// Close is a placeholder for symmetry with collaborators that own resources;
// the engine itself holds none.
func (e *Engine) Close() {}

func (e *Engine) handleAction(ctx context.Context, action string, d model.Detail) {
	if !e.active || e.prog.Completed {
		return
	}
	if !e.enabled(ctx) {
		return
	}
	s, ok := e.model.ByID(e.prog.SlideID)
	if !ok {
		return
	}
	changed := false
	for _, t := range s.Tasks {
		if e.prog.TaskDone(t.ID) {
			continue
		}
		if t.When.MatchesAction(action, d) {
			e.prog.MarkTask(t.ID)
			changed = true
		}
	}
	if !changed {
		return
	}
	e.persistProgress(ctx)
	e.completeSlideIfDone(ctx, action)
}

func (e *Engine) handleModeChange(ctx context.Context, prev, next string) {
	if !e.active || e.prog.Completed {
		return
	}
	if !e.enabled(ctx) {
		return
	}
	s, ok := e.model.ByID(e.prog.SlideID)
	if !ok {
		return
	}
	changed := false
	for _, t := range s.Tasks {
		if e.prog.TaskDone(t.ID) {
			continue
		}
		if t.When.MatchesModeChange(prev, next) {
			e.prog.MarkTask(t.ID)
			changed = true
		}
	}
	if !changed {
		return
	}
	e.persistProgress(ctx)
	e.completeSlideIfDone(ctx, "mode:"+next)
}

// completeSlideIfDone checks whether every task on the current slide is
// complete (vacuously true for a task-less slide) and auto-advances, or
// finishes the walkthrough at the last slide.
func (e *Engine) completeSlideIfDone(ctx context.Context, cause string) {
	if !e.active || e.prog.Completed {
		return
	}
	s, ok := e.model.ByID(e.prog.SlideID)
	if !ok {
		return
	}
	for _, t := range s.Tasks {
		if !e.prog.TaskDone(t.ID) {
			return
		}
	}

	idx := e.model.Index(s.ID)
	n := e.model.Len()
	e.emitEvent(event.Completed(s.ID, idx, n, cause))

	if next, ok := e.model.NextAfter(s.ID); ok {
		e.beginTransition(ctx, next.ID, protocol.CauseAutoAdvance)
		return
	}

	e.emitEvent(event.LastCompleted(s.ID, idx, n, cause))
	e.prog.Completed = true
	e.active = false
	e.persistProgress(ctx)
	e.persistActive(ctx)
	e.emitEvent(event.AllCompleted(s.ID, idx, n, cause))
}

func (e *Engine) beginTransition(ctx context.Context, toID, cause string) {
	if e.transitioning {
		debug.Logf("transition to %s dropped: transition in flight", toID)
		return
	}
	from := e.prog.SlideID
	idx := e.model.Index(toID)
	n := e.model.Len()

	e.transitioning = true
	e.gen++
	gen := e.gen
	e.emitEvent(event.TransitionStart(from, toID, idx, n, cause))

	done := func() {
		if gen != e.gen || !e.transitioning {
			debug.Logf("stale transition completion for %s ignored", toID)
			return
		}
		e.finishTransition(ctx, from, toID, cause)
	}
	if e.transition != nil {
		e.transition(from, toID, done)
		return
	}
	done()
}

func (e *Engine) finishTransition(ctx context.Context, from, toID, cause string) {
	e.transitioning = false
	e.prog.SlideID = toID
	// Task ids are slide-scoped; the set tracks the current slide only.
	e.prog.CompletedTaskIDs = map[string]struct{}{}
	e.persistProgress(ctx)
	e.emitEvent(event.TransitionEnd(from, toID, e.model.Index(toID), e.model.Len(), cause))
	e.enterCurrent(ctx, cause)
}

// enterCurrent fires the slide's onEnter actions (once per lifetime) and
// runs the completion check, which makes task-less slides advance
// immediately.
func (e *Engine) enterCurrent(ctx context.Context, cause string) {
	s, ok := e.model.ByID(e.prog.SlideID)
	if !ok {
		return
	}
	if !e.prog.OnEnterDone(s.ID) {
		e.prog.MarkOnEnterDone(s.ID)
		e.persistProgress(ctx)
		e.runOnEnter(ctx, s)
	}
	e.completeSlideIfDone(ctx, cause)
}

func (e *Engine) runOnEnter(ctx context.Context, s model.Slide) {
	idx := e.model.Index(s.ID)
	n := e.model.Len()
	for _, a := range s.OnEnter {
		switch a.Type {
		case protocol.OnEnterOverlay:
			spec := host.OverlaySpec{
				Title:           a.Attr(protocol.AttrTitle),
				Text:            a.Attr(protocol.AttrText),
				PrimaryButton:   a.Attr(protocol.AttrPrimaryButton),
				SecondaryButton: a.Attr(protocol.AttrSecondaryButton),
				Attrs:           a.Attrs,
			}
			if err := e.effects.ShowOverlay(ctx, spec); err != nil {
				debug.Logf("onEnter overlay on %s: %v", s.ID, err)
				continue
			}
			e.emitEvent(event.Overlay(s.ID, idx, n))
		case protocol.OnEnterOpenPage:
			if err := e.effects.OpenPage(ctx, a.Attr(protocol.AttrPath)); err != nil {
				debug.Logf("onEnter open-page on %s: %v", s.ID, err)
			}
		case protocol.OnEnterPopover:
			if err := e.effects.OpenPopover(ctx); err != nil {
				debug.Logf("onEnter popover on %s: %v", s.ID, err)
			}
		default:
			debug.Logf("unrecognised onEnter action %q on slide %s ignored", a.Type, s.ID)
		}
	}
}

// enabled answers the host gate, failing closed on error.
func (e *Engine) enabled(ctx context.Context) bool {
	ok, err := e.gate.Enabled(ctx)
	if err != nil {
		debug.Logf("host-enabled query failed, treating as disabled: %v", err)
		return false
	}
	return ok
}

func (e *Engine) persistActive(ctx context.Context) {
	val := []byte("false")
	if e.active {
		val = []byte("true")
	}
	e.writeKey(ctx, protocol.KeyActive, val)
}

func (e *Engine) persistProgress(ctx context.Context) {
	e.prog.Timestamp = e.now().UnixMilli()
	e.writeKey(ctx, protocol.KeyProgress, e.prog.Encode())
}

// writeKey persists best-effort: failures are logged and swallowed, and the
// next successful write catches the store back up.
func (e *Engine) writeKey(ctx context.Context, key string, value []byte) {
	e.lastWritten[key] = value
	if err := e.store.Set(ctx, key, value); err != nil {
		debug.Logf("persist %s: %v", key, err)
	}
}

func (e *Engine) emitEvent(ev event.Event) {
	if e.emit != nil {
		e.emit(ev)
	}
}
