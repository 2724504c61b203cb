// Package model defines the declarative walkthrough model: slides, tasks,
// matchers, and onEnter actions, plus the loader that reads a model document.
package model

import (
	"github.com/worksonmyai/tourguide/internal/protocol"
)

// Detail carries the boolean flags an action event may set. Matcher targets
// narrow on these flags.
type Detail struct {
	IsLink            bool
	IsKeyboardHelpKey bool
}

// Matcher is the declarative when-condition that decides whether an event
// completes a task. A matcher with an empty or unrecognised Type never
// matches; that is a valid terminal state for the task, not an error.
type Matcher struct {
	Type   protocol.MatcherType `yaml:"type"`
	Action string               `yaml:"action,omitempty"`
	Target string               `yaml:"target,omitempty"`
	Mode   string               `yaml:"mode,omitempty"`
	Change protocol.ModeChange  `yaml:"change,omitempty"`
}

// MatchesAction reports whether an incoming action event satisfies the
// matcher. An action matcher with no Action matches every action; a Target
// further requires the corresponding detail flag. Unknown targets fail closed.
func (m Matcher) MatchesAction(action string, d Detail) bool {
	if m.Type != protocol.MatcherAction {
		return false
	}
	if m.Action != "" && m.Action != action {
		return false
	}
	switch m.Target {
	case "":
		return true
	case protocol.TargetLink:
		return d.IsLink
	case protocol.TargetKeyboardHelpKey:
		return d.IsKeyboardHelpKey
	default:
		return false
	}
}

// MatchesModeChange reports whether a (prev, next) mode transition satisfies
// the matcher. Both Mode and Change must be set; a no-op transition (prev ==
// next) never matches.
func (m Matcher) MatchesModeChange(prev, next string) bool {
	if m.Type != protocol.MatcherMode || m.Mode == "" {
		return false
	}
	switch m.Change {
	case protocol.ChangeEnter:
		return next == m.Mode && prev != m.Mode
	case protocol.ChangeExit:
		return prev == m.Mode && next != m.Mode
	default:
		return false
	}
}

// Task is one completable condition within a slide.
type Task struct {
	ID    string  `yaml:"id"`
	Label string  `yaml:"label"`
	When  Matcher `yaml:"when"`
}

// OnEnterAction is a side effect fired once when a slide first becomes
// current. Type selects the effect; all other attributes pass through
// verbatim in Attrs.
type OnEnterAction struct {
	Type  string
	Attrs map[string]string
}

// Attr returns the named attribute or "" when absent.
func (a OnEnterAction) Attr(name string) string {
	return a.Attrs[name]
}

// Slide is one step of the walkthrough.
type Slide struct {
	ID      string          `yaml:"id"`
	Title   string          `yaml:"title"`
	Body    string          `yaml:"body,omitempty"`
	OnEnter []OnEnterAction `yaml:"onEnter,omitempty"`
	Tasks   []Task          `yaml:"tasks,omitempty"`
}

// Model is an ordered sequence of slides. An empty model is valid and yields
// a no-op walkthrough.
type Model struct {
	Slides []Slide `yaml:"slides"`
}

// Empty reports whether the model has no slides.
func (m *Model) Empty() bool { return m == nil || len(m.Slides) == 0 }

// Len returns the number of slides.
func (m *Model) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Slides)
}

// Index returns the 0-based index of the slide with the given id, or -1.
func (m *Model) Index(id string) int {
	if m == nil {
		return -1
	}
	for i := range m.Slides {
		if m.Slides[i].ID == id {
			return i
		}
	}
	return -1
}

// ByID returns the slide with the given id.
func (m *Model) ByID(id string) (Slide, bool) {
	i := m.Index(id)
	if i < 0 {
		return Slide{}, false
	}
	return m.Slides[i], true
}

// First returns the first slide.
func (m *Model) First() (Slide, bool) {
	if m.Empty() {
		return Slide{}, false
	}
	return m.Slides[0], true
}

// NextAfter returns the slide following the one with the given id. It returns
// false at the last slide or when id is unknown.
func (m *Model) NextAfter(id string) (Slide, bool) {
	i := m.Index(id)
	if i < 0 || i+1 >= len(m.Slides) {
		return Slide{}, false
	}
	return m.Slides[i+1], true
}

// PrevBefore returns the slide preceding the one with the given id. It
// returns false at the first slide or when id is unknown.
func (m *Model) PrevBefore(id string) (Slide, bool) {
	i := m.Index(id)
	if i <= 0 {
		return Slide{}, false
	}
	return m.Slides[i-1], true
}
