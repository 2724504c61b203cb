package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/worksonmyai/tourguide/internal/event"
	"github.com/worksonmyai/tourguide/internal/host"
	"github.com/worksonmyai/tourguide/internal/model"
	"github.com/worksonmyai/tourguide/internal/progress"
	"github.com/worksonmyai/tourguide/internal/protocol"
	"github.com/worksonmyai/tourguide/internal/store"
)

// recorder collects emitted events.
type recorder struct {
	events []event.Event
}

func (r *recorder) handler() event.Handler {
	return func(ev event.Event) { r.events = append(r.events, ev) }
}

func (r *recorder) names() []event.Name {
	out := make([]event.Name, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Name
	}
	return out
}

func (r *recorder) reset() { r.events = nil }

// effectsRecorder records onEnter effect invocations.
type effectsRecorder struct {
	overlays []host.OverlaySpec
	pages    []string
	popovers int
	err      error
}

func (f *effectsRecorder) ShowOverlay(_ context.Context, spec host.OverlaySpec) error {
	if f.err != nil {
		return f.err
	}
	f.overlays = append(f.overlays, spec)
	return nil
}

func (f *effectsRecorder) OpenPage(_ context.Context, path string) error {
	if f.err != nil {
		return f.err
	}
	f.pages = append(f.pages, path)
	return nil
}

func (f *effectsRecorder) OpenPopover(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.popovers++
	return nil
}

// countingStore counts writes so tests can assert "no-op means no write".
type countingStore struct {
	store.Store
	sets int
}

func (c *countingStore) Set(ctx context.Context, key string, value []byte) error {
	c.sets++
	return c.Store.Set(ctx, key, value)
}

// failStore refuses all writes.
type failStore struct {
	store.Store
}

func (failStore) Set(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

// errGate answers the enabled query with an error.
type errGate struct{ host.Gate }

func (errGate) Enabled(context.Context) (bool, error) {
	return true, errors.New("host bridge gone")
}

func clickModel() *model.Model {
	return &model.Model{Slides: []model.Slide{
		{ID: "s1", Title: "First", Tasks: []model.Task{
			{ID: "t1", Label: "Click something", When: model.Matcher{Type: protocol.MatcherAction, Action: "click"}},
		}},
		{ID: "s2", Title: "Second"},
	}}
}

func threeSlides() *model.Model {
	return &model.Model{Slides: []model.Slide{
		{ID: "a", Tasks: []model.Task{{ID: "ta", When: model.Matcher{Type: protocol.MatcherAction, Action: "one"}}}},
		{ID: "b", Tasks: []model.Task{{ID: "tb", When: model.Matcher{Type: protocol.MatcherAction, Action: "two"}}}},
		{ID: "c", Tasks: []model.Task{{ID: "tc", When: model.Matcher{Type: protocol.MatcherAction, Action: "three"}}}},
	}}
}

func TestFullWalkthroughExample(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	st := store.NewMemory()
	e := New(Config{Model: clickModel(), Store: st, Emit: rec.handler()})

	e.SetActive(ctx, true)
	require.True(t, e.Visible())
	require.Equal(t, "s1", e.CurrentSlideID())
	rec.reset()

	e.Handle(ctx, ActionInput{Action: "click"})

	require.Equal(t, []event.Name{
		event.SlideCompleted,       // s1
		event.SlideTransitionStart, // s1 -> s2
		event.SlideTransitionEnd,
		event.SlideCompleted, // s2, vacuously complete
		event.LastSlideCompleted,
		event.OnboardingCompleted,
	}, rec.names())

	require.Equal(t, "s1", rec.events[0].SlideID)
	require.Equal(t, "s1", rec.events[1].FromSlideID)
	require.Equal(t, "s2", rec.events[1].SlideID)
	require.Equal(t, protocol.CauseAutoAdvance, rec.events[1].Cause)
	require.Equal(t, "s2", rec.events[3].SlideID)
	require.Equal(t, 1, rec.events[3].Index)
	require.Equal(t, 2, rec.events[3].Count)

	require.True(t, e.Completed())
	require.False(t, e.Active())
	require.False(t, e.Visible())

	// Persisted record agrees.
	data, ok, err := st.Get(ctx, protocol.KeyProgress)
	require.NoError(t, err)
	require.True(t, ok)
	p := progress.Decode(data)
	require.True(t, p.Completed)
	active, _, err := st.Get(ctx, protocol.KeyActive)
	require.NoError(t, err)
	require.Equal(t, "false", string(active))
}

func TestNonMatchingEventsDoNothing(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	e := New(Config{Model: clickModel(), Emit: rec.handler()})
	e.SetActive(ctx, true)
	rec.reset()

	e.Handle(ctx, ActionInput{Action: "scroll"})
	e.Handle(ctx, ModeChangeInput{Prev: "none", Next: "highlight"})

	require.Empty(t, rec.events)
	require.Equal(t, "s1", e.CurrentSlideID())
}

func TestCompletionMonotonicWithinSlide(t *testing.T) {
	ctx := context.Background()
	m := &model.Model{Slides: []model.Slide{
		{ID: "s1", Tasks: []model.Task{
			{ID: "t1", When: model.Matcher{Type: protocol.MatcherAction, Action: "one"}},
			{ID: "t2", When: model.Matcher{Type: protocol.MatcherAction, Action: "two"}},
		}},
	}}
	rec := &recorder{}
	e := New(Config{Model: m, Emit: rec.handler()})
	e.SetActive(ctx, true)
	rec.reset()

	e.Handle(ctx, ActionInput{Action: "one"})
	require.True(t, e.Snapshot().Tasks[0].Done)
	require.Empty(t, rec.events) // slide not complete yet

	// Duplicate delivery: no state change, no events.
	e.Handle(ctx, ActionInput{Action: "one"})
	require.Empty(t, rec.events)
	require.True(t, e.Snapshot().Tasks[0].Done)

	e.Handle(ctx, ActionInput{Action: "two"})
	require.Contains(t, rec.names(), event.SlideCompleted)
}

func TestZeroTaskSlidesChainOnActivation(t *testing.T) {
	ctx := context.Background()
	m := &model.Model{Slides: []model.Slide{
		{ID: "a"}, {ID: "b"},
		{ID: "c", Tasks: []model.Task{{ID: "t", When: model.Matcher{Type: protocol.MatcherAction, Action: "x"}}}},
	}}
	rec := &recorder{}
	e := New(Config{Model: m, Emit: rec.handler()})

	e.SetActive(ctx, true)

	// a and b complete immediately; the chain stops at c.
	require.Equal(t, "c", e.CurrentSlideID())
	require.True(t, e.Visible())
	var completed []string
	for _, ev := range rec.events {
		if ev.Name == event.SlideCompleted {
			completed = append(completed, ev.SlideID)
		}
	}
	require.Equal(t, []string{"a", "b"}, completed)
}

func TestResetLaw(t *testing.T) {
	ctx := context.Background()
	e := New(Config{Model: threeSlides()})
	e.SetActive(ctx, true)
	e.Handle(ctx, ActionInput{Action: "one"})
	e.Handle(ctx, ActionInput{Action: "two"})
	require.Equal(t, "c", e.CurrentSlideID())

	e.Reset(ctx)
	require.Equal(t, "a", e.CurrentSlideID())
	require.False(t, e.Snapshot().Tasks[0].Done)
	require.False(t, e.Completed())
	require.True(t, e.Active())

	// Idempotent: resetting again yields the same state.
	e.Reset(ctx)
	require.Equal(t, "a", e.CurrentSlideID())
	require.False(t, e.Completed())

	// Reset works from DONE as well.
	e.Handle(ctx, ActionInput{Action: "one"})
	e.Handle(ctx, ActionInput{Action: "two"})
	e.Handle(ctx, ActionInput{Action: "three"})
	require.True(t, e.Completed())
	e.Reset(ctx)
	require.False(t, e.Completed())
	require.Equal(t, "a", e.CurrentSlideID())
	require.True(t, e.Visible())
}

func TestManualNavigationClampedAtBounds(t *testing.T) {
	ctx := context.Background()
	cs := &countingStore{Store: store.NewMemory()}
	e := New(Config{Model: threeSlides(), Store: cs})
	e.SetActive(ctx, true)

	writes := cs.sets
	e.PrevSlide(ctx) // at first slide: no-op, no write
	require.Equal(t, "a", e.CurrentSlideID())
	require.Equal(t, writes, cs.sets)

	e.NextSlide(ctx)
	e.NextSlide(ctx)
	require.Equal(t, "c", e.CurrentSlideID())

	writes = cs.sets
	e.NextSlide(ctx) // at last slide: no-op, no write
	require.Equal(t, "c", e.CurrentSlideID())
	require.Equal(t, writes, cs.sets)

	e.PrevSlide(ctx)
	require.Equal(t, "b", e.CurrentSlideID())
}

func TestManualAdvanceClearsTaskSet(t *testing.T) {
	ctx := context.Background()
	e := New(Config{Model: threeSlides()})
	e.SetActive(ctx, true)
	e.Handle(ctx, ActionInput{Action: "one"})
	require.Equal(t, "b", e.CurrentSlideID())

	// Go back and forward again: task set is scoped to the current slide.
	e.PrevSlide(ctx)
	require.Equal(t, "a", e.CurrentSlideID())
	require.False(t, e.Snapshot().Tasks[0].Done)
}

func TestTransitionGuardDropsRequests(t *testing.T) {
	ctx := context.Background()
	var pending func()
	runner := func(from, to string, done func()) { pending = done }

	rec := &recorder{}
	e := New(Config{Model: threeSlides(), Emit: rec.handler(), Transition: runner})
	e.SetActive(ctx, true)

	e.NextSlide(ctx)
	require.NotNil(t, pending)
	require.Equal(t, "a", e.CurrentSlideID()) // not settled yet

	// Requests while in flight are dropped, not queued.
	e.NextSlide(ctx)
	e.PrevSlide(ctx)
	require.Equal(t, 1, len(rec.events)) // only the first TransitionStart

	pending()
	require.Equal(t, "b", e.CurrentSlideID())

	// Navigation works again after the transition settles.
	e.NextSlide(ctx)
	pending()
	require.Equal(t, "c", e.CurrentSlideID())
}

func TestStaleTransitionCompletionIgnored(t *testing.T) {
	ctx := context.Background()
	var pending func()
	runner := func(from, to string, done func()) { pending = done }
	e := New(Config{Model: threeSlides(), Transition: runner})
	e.SetActive(ctx, true)

	e.NextSlide(ctx)
	stale := pending

	// Reset abandons the in-flight transition.
	e.Reset(ctx)
	require.Equal(t, "a", e.CurrentSlideID())

	stale()
	require.Equal(t, "a", e.CurrentSlideID())

	// Calling done twice is harmless.
	e.NextSlide(ctx)
	pending()
	require.Equal(t, "b", e.CurrentSlideID())
	pending()
	require.Equal(t, "b", e.CurrentSlideID())
}

func TestModeChangeMatching(t *testing.T) {
	ctx := context.Background()
	m := &model.Model{Slides: []model.Slide{
		{ID: "s1", Tasks: []model.Task{
			{ID: "t", When: model.Matcher{Type: protocol.MatcherMode, Mode: "text_focus", Change: protocol.ChangeEnter}},
		}},
	}}
	e := New(Config{Model: m})
	e.SetActive(ctx, true)

	e.Handle(ctx, ModeChangeInput{Prev: "text_focus", Next: "text_focus"}) // no-op change
	require.False(t, e.Completed())
	e.Handle(ctx, ModeChangeInput{Prev: "text_focus", Next: "none"}) // wrong direction
	require.False(t, e.Completed())
	e.Handle(ctx, ModeChangeInput{Prev: "none", Next: "text_focus"})
	require.True(t, e.Completed())
}

func TestTargetedActionMatching(t *testing.T) {
	ctx := context.Background()
	m := &model.Model{Slides: []model.Slide{
		{ID: "s1", Tasks: []model.Task{
			{ID: "t", When: model.Matcher{Type: protocol.MatcherAction, Action: "activate", Target: protocol.TargetLink}},
		}},
	}}
	e := New(Config{Model: m})
	e.SetActive(ctx, true)

	e.Handle(ctx, ActionInput{Action: "activate"})
	require.False(t, e.Completed())
	e.Handle(ctx, ActionInput{Action: "activate", Detail: model.Detail{IsLink: false}})
	require.False(t, e.Completed())
	e.Handle(ctx, ActionInput{Action: "activate", Detail: model.Detail{IsLink: true}})
	require.True(t, e.Completed())
}

func TestUnmatchableTaskIsTerminalNotError(t *testing.T) {
	ctx := context.Background()
	m := &model.Model{Slides: []model.Slide{
		{ID: "s1", Tasks: []model.Task{{ID: "t", When: model.Matcher{Type: "bogus"}}}},
	}}
	e := New(Config{Model: m})
	e.SetActive(ctx, true)

	for _, a := range []string{"click", "activate", "back", "bogus"} {
		e.Handle(ctx, ActionInput{Action: a, Detail: model.Detail{IsLink: true, IsKeyboardHelpKey: true}})
	}
	e.Handle(ctx, ModeChangeInput{Prev: "none", Next: "bogus"})
	require.False(t, e.Completed())
	require.Equal(t, "s1", e.CurrentSlideID())
}

func TestHostGateFailsClosed(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled host blocks activation", func(t *testing.T) {
		gate := host.NewToggleGate(false)
		e := New(Config{Model: clickModel(), Gate: gate})
		e.SetActive(ctx, true)
		require.False(t, e.Active())
		e.Reset(ctx)
		require.False(t, e.Active())
	})

	t.Run("unknown answer reads as disabled", func(t *testing.T) {
		e := New(Config{Model: clickModel(), Gate: errGate{host.NewToggleGate(true)}})
		e.SetActive(ctx, true)
		require.False(t, e.Active())
	})

	t.Run("gate re-checked on every event", func(t *testing.T) {
		gate := host.NewToggleGate(true)
		e := New(Config{Model: clickModel(), Gate: gate})
		e.SetActive(ctx, true)
		require.True(t, e.Active())

		gate.SetEnabled(false)
		e.Handle(ctx, ActionInput{Action: "click"})
		require.False(t, e.Snapshot().Tasks[0].Done)
		e.NextSlide(ctx)
		require.Equal(t, "s1", e.CurrentSlideID())
	})
}

func TestEmptyModelIsNoOpWalkthrough(t *testing.T) {
	ctx := context.Background()
	cs := &countingStore{Store: store.NewMemory()}
	e := New(Config{Model: &model.Model{}, Store: cs})

	e.SetActive(ctx, true)
	require.False(t, e.Active())
	e.Reset(ctx)
	require.False(t, e.Active())
	e.Handle(ctx, ActionInput{Action: "click"})
	require.Equal(t, 0, cs.sets)
}

func TestPersistenceFailuresSwallowed(t *testing.T) {
	ctx := context.Background()
	e := New(Config{Model: clickModel(), Store: failStore{store.NewMemory()}})

	// In-memory state stays authoritative despite every write failing.
	e.SetActive(ctx, true)
	require.True(t, e.Active())
	e.Handle(ctx, ActionInput{Action: "click"})
	require.True(t, e.Completed())
}

func TestLoadRestoresPersistedState(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := threeSlides()

	a := New(Config{Model: m, Store: st})
	a.SetActive(ctx, true)
	a.Handle(ctx, ActionInput{Action: "one"})
	require.Equal(t, "b", a.CurrentSlideID())

	b := New(Config{Model: m, Store: st})
	b.Load(ctx)
	require.True(t, b.Active())
	require.Equal(t, "b", b.CurrentSlideID())

	// onEnter already fired for a and b in the first session; the restored
	// engine does not refire them.
	require.True(t, b.Snapshot().Active)
}

func TestLoadMalformedRecordDefaults(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.Set(ctx, protocol.KeyProgress, []byte("garbage{{")))
	require.NoError(t, st.Set(ctx, protocol.KeyActive, []byte(`{"weird":1}`)))

	e := New(Config{Model: threeSlides(), Store: st})
	e.Load(ctx)
	require.False(t, e.Active()) // only the literal "true" activates
	require.Equal(t, "a", e.CurrentSlideID())
	require.False(t, e.Completed())
}

func TestLoadUnknownSlideFallsBackToFirst(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	p := progress.New("removed-slide")
	p.MarkTask("old-task")
	require.NoError(t, st.Set(ctx, protocol.KeyProgress, p.Encode()))

	e := New(Config{Model: threeSlides(), Store: st})
	e.Load(ctx)
	require.Equal(t, "a", e.CurrentSlideID())
	require.False(t, e.Snapshot().Tasks[0].Done)
}

func TestLoadRespectsDisabledHost(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.Set(ctx, protocol.KeyActive, []byte("true")))

	e := New(Config{Model: threeSlides(), Store: st, Gate: host.NewToggleGate(false)})
	e.Load(ctx)
	require.False(t, e.Active())
}

func TestTransientAppliedOnceAndDiscarded(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := &model.Model{Slides: []model.Slide{
		{ID: "s1", Tasks: []model.Task{{ID: "t", When: model.Matcher{Type: protocol.MatcherAction, Action: "back"}}}},
		{ID: "s2", Tasks: []model.Task{{ID: "t2", When: model.Matcher{Type: protocol.MatcherAction, Action: "never"}}}},
	}}

	rec := progress.TransientAction{Action: "back", Timestamp: time.Now().UnixMilli()}
	require.NoError(t, st.Set(ctx, protocol.KeyTransient, rec.Encode()))

	e := New(Config{Model: m, Store: st})
	e.SetActive(ctx, true)
	e.ApplyTransient(ctx)
	require.Equal(t, "s2", e.CurrentSlideID())

	// The record is gone from the store.
	_, ok, err := st.Get(ctx, protocol.KeyTransient)
	require.NoError(t, err)
	require.False(t, ok)

	// Duplicate application never double-advances.
	e.ApplyTransient(ctx)
	require.Equal(t, "s2", e.CurrentSlideID())

	// Even a second engine instance sees no record to apply.
	e2 := New(Config{Model: m, Store: st})
	e2.Load(ctx)
	e2.ApplyTransient(ctx)
	require.Equal(t, "s2", e2.CurrentSlideID())
}

func TestTransientExpiredNotApplied(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := clickModel()

	rec := progress.TransientAction{
		Action:    "click",
		Timestamp: time.Now().Add(-16 * time.Second).UnixMilli(),
	}
	require.NoError(t, st.Set(ctx, protocol.KeyTransient, rec.Encode()))

	e := New(Config{Model: m, Store: st})
	e.SetActive(ctx, true)
	e.ApplyTransient(ctx)
	require.Equal(t, "s1", e.CurrentSlideID())

	// Expired records are still discarded.
	_, ok, _ := st.Get(ctx, protocol.KeyTransient)
	require.False(t, ok)
}

func TestBackNavigationImplicitActionOncePerLoad(t *testing.T) {
	ctx := context.Background()
	m := &model.Model{Slides: []model.Slide{
		{ID: "s1", Tasks: []model.Task{
			{ID: "t1", When: model.Matcher{Type: protocol.MatcherAction, Action: protocol.BackAction}},
			{ID: "t2", When: model.Matcher{Type: protocol.MatcherAction, Action: "other"}},
		}},
	}}
	e := New(Config{Model: m})
	e.SetActive(ctx, true)

	e.NoteBackNavigation(ctx)
	require.True(t, e.Snapshot().Tasks[0].Done)
	e.NoteBackNavigation(ctx)
	require.Equal(t, "s1", e.CurrentSlideID())
}

func TestCrossInstanceSyncViaStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := threeSlides()

	a := New(Config{Model: m, Store: st})
	b := New(Config{Model: m, Store: st})

	// Wire both engines to the shared store the way a host would; each
	// ignores notifications for its own writes.
	st.Watch(a.SyncFromStore)
	st.Watch(b.SyncFromStore)

	a.SetActive(ctx, true)
	require.True(t, b.Active())
	require.Equal(t, "a", b.CurrentSlideID())

	a.Handle(ctx, ActionInput{Action: "one"})
	require.Equal(t, "b", a.CurrentSlideID())
	require.Equal(t, "b", b.CurrentSlideID())

	// And the other direction.
	b.Handle(ctx, ActionInput{Action: "two"})
	require.Equal(t, "c", a.CurrentSlideID())
}

func TestOnEnterFiresOncePerLifetime(t *testing.T) {
	ctx := context.Background()
	fx := &effectsRecorder{}
	m := &model.Model{Slides: []model.Slide{
		{ID: "s1", OnEnter: []model.OnEnterAction{{
			Type: protocol.OnEnterOverlay,
			Attrs: map[string]string{
				protocol.AttrTitle:         "Welcome",
				protocol.AttrPrimaryButton: "Start",
				"theme":                    "dark",
			},
		}}},
		{ID: "s2", OnEnter: []model.OnEnterAction{{
			Type:  protocol.OnEnterOpenPage,
			Attrs: map[string]string{protocol.AttrPath: "/settings"},
		}}, Tasks: []model.Task{{ID: "t", When: model.Matcher{Type: protocol.MatcherAction, Action: "x"}}}},
	}}
	rec := &recorder{}
	e := New(Config{Model: m, Effects: fx, Emit: rec.handler()})

	e.SetActive(ctx, true) // s1 has no tasks: fires overlay, advances to s2
	require.Equal(t, "s2", e.CurrentSlideID())
	require.Len(t, fx.overlays, 1)
	require.Equal(t, "Welcome", fx.overlays[0].Title)
	require.Equal(t, "Start", fx.overlays[0].PrimaryButton)
	require.Equal(t, "dark", fx.overlays[0].Attrs["theme"])
	require.Equal(t, []string{"/settings"}, fx.pages)
	require.Contains(t, rec.names(), event.OverlayShown)

	// Going back re-enters s1 without refiring its onEnter; being task-less,
	// s1 immediately auto-advances to s2 again, which does not refire either.
	e.PrevSlide(ctx)
	require.Equal(t, "s2", e.CurrentSlideID())
	require.Len(t, fx.overlays, 1)
	require.Len(t, fx.pages, 1)

	// Reset clears the latch; both slides' onEnter actions fire again as the
	// walkthrough replays from the top.
	e.Reset(ctx)
	require.Len(t, fx.overlays, 2)
	require.Len(t, fx.pages, 2)
}

func TestOnEnterUnknownKindIgnored(t *testing.T) {
	ctx := context.Background()
	fx := &effectsRecorder{}
	m := &model.Model{Slides: []model.Slide{
		{ID: "s1", OnEnter: []model.OnEnterAction{
			{Type: "teleport", Attrs: map[string]string{"to": "moon"}},
			{Type: protocol.OnEnterPopover, Attrs: map[string]string{}},
		}, Tasks: []model.Task{{ID: "t", When: model.Matcher{Type: protocol.MatcherAction, Action: "x"}}}},
	}}
	e := New(Config{Model: m, Effects: fx})
	e.SetActive(ctx, true)
	require.Equal(t, 1, fx.popovers)
}

func TestOnEnterEffectFailureSwallowed(t *testing.T) {
	ctx := context.Background()
	fx := &effectsRecorder{err: errors.New("window gone")}
	rec := &recorder{}
	m := &model.Model{Slides: []model.Slide{
		{ID: "s1", OnEnter: []model.OnEnterAction{{Type: protocol.OnEnterOverlay}},
			Tasks: []model.Task{{ID: "t", When: model.Matcher{Type: protocol.MatcherAction, Action: "x"}}}},
	}}
	e := New(Config{Model: m, Effects: fx, Emit: rec.handler()})
	e.SetActive(ctx, true)
	require.True(t, e.Active())
	require.NotContains(t, rec.names(), event.OverlayShown)
}

func TestSetActiveIdempotent(t *testing.T) {
	ctx := context.Background()
	cs := &countingStore{Store: store.NewMemory()}
	e := New(Config{Model: threeSlides(), Store: cs})

	e.SetActive(ctx, false) // already inactive: no write
	require.Equal(t, 0, cs.sets)

	e.SetActive(ctx, true)
	writes := cs.sets
	e.SetActive(ctx, true)
	require.Equal(t, writes, cs.sets)

	e.SetActive(ctx, false)
	require.False(t, e.Active())
}

func TestActivateAfterCompletionIsNoOp(t *testing.T) {
	ctx := context.Background()
	e := New(Config{Model: clickModel()})
	e.SetActive(ctx, true)
	e.Handle(ctx, ActionInput{Action: "click"})
	require.True(t, e.Completed())

	e.SetActive(ctx, true)
	require.False(t, e.Visible())
	require.True(t, e.Completed())
}

func TestToggleInput(t *testing.T) {
	ctx := context.Background()
	e := New(Config{Model: threeSlides()})
	e.Handle(ctx, ToggleInput{Enabled: true})
	require.True(t, e.Active())
	e.Handle(ctx, ToggleInput{Enabled: false})
	require.False(t, e.Active())
}
