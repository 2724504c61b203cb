// Package event defines the typed events the walkthrough engine emits toward
// the host: slide transitions, slide/walkthrough completion, and overlay
// presentation. Emission is fire-and-forget; the engine never waits on a
// handler.
package event

// Name identifies the type of event.
type Name string

const (
	// SlideTransitionStart fires when a slide change begins.
	SlideTransitionStart Name = "slideTransitionStart"
	// SlideTransitionEnd fires when a slide change settles.
	SlideTransitionEnd Name = "slideTransitionEnd"
	// SlideCompleted fires when all tasks on a slide are complete.
	SlideCompleted Name = "slideCompleted"
	// LastSlideCompleted fires when the final slide completes.
	LastSlideCompleted Name = "lastSlideCompleted"
	// OnboardingCompleted fires when the whole walkthrough finishes.
	OnboardingCompleted Name = "onboardingCompleted"
	// OverlayShown fires when an onEnter overlay effect is presented.
	OverlayShown Name = "overlayShown"
)

// Event is a single typed event emitted by the engine.
type Event struct {
	Name Name
	// SlideID is the slide the event is about (the destination slide for
	// transitions).
	SlideID string
	// FromSlideID is the origin slide for transitions, "" otherwise.
	FromSlideID string
	// Index is the 0-based index of SlideID in the model, -1 if unknown.
	Index int
	// Count is the total number of slides in the model.
	Count int
	// Cause is free text describing what triggered the event.
	Cause string
}

// Handler is a callback that receives engine events.
type Handler func(Event)

// TransitionStart creates a SlideTransitionStart event.
func TransitionStart(from, to string, index, count int, cause string) Event {
	return Event{Name: SlideTransitionStart, FromSlideID: from, SlideID: to, Index: index, Count: count, Cause: cause}
}

// TransitionEnd creates a SlideTransitionEnd event.
func TransitionEnd(from, to string, index, count int, cause string) Event {
	return Event{Name: SlideTransitionEnd, FromSlideID: from, SlideID: to, Index: index, Count: count, Cause: cause}
}

// Completed creates a SlideCompleted event.
func Completed(slideID string, index, count int, cause string) Event {
	return Event{Name: SlideCompleted, SlideID: slideID, Index: index, Count: count, Cause: cause}
}

// LastCompleted creates a LastSlideCompleted event.
func LastCompleted(slideID string, index, count int, cause string) Event {
	return Event{Name: LastSlideCompleted, SlideID: slideID, Index: index, Count: count, Cause: cause}
}

// AllCompleted creates an OnboardingCompleted event.
func AllCompleted(slideID string, index, count int, cause string) Event {
	return Event{Name: OnboardingCompleted, SlideID: slideID, Index: index, Count: count, Cause: cause}
}

// Overlay creates an OverlayShown event.
func Overlay(slideID string, index, count int) Event {
	return Event{Name: OverlayShown, SlideID: slideID, Index: index, Count: count, Cause: "onEnter"}
}
