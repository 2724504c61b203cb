// Package protocol defines the cross-package vocabulary for tourguide:
// storage keys, matcher types and targets, mode-change directions, onEnter
// action kinds, and transition causes.
package protocol

// Storage keys for the persisted walkthrough record. The active flag and the
// progress record live under separate keys so the host can flip activation
// without rewriting progress.
const (
	KeyActive    = "onboarding:active"
	KeyProgress  = "onboarding:progress"
	KeyTransient = "onboarding:transient"
)

// MatcherType identifies how a task's when-condition is evaluated.
type MatcherType string

const (
	// MatcherAction matches incoming application action events.
	MatcherAction MatcherType = "action"
	// MatcherMode matches mode-change notifications (enter/exit).
	MatcherMode MatcherType = "mode"
)

func (m MatcherType) String() string { return string(m) }

// IsValid reports whether m is a recognised matcher type. Unknown types are
// legal in a model but never match anything.
func (m MatcherType) IsValid() bool {
	switch m {
	case MatcherAction, MatcherMode:
		return true
	default:
		return false
	}
}

// Action matcher targets. A target narrows an action matcher to events whose
// detail carries the corresponding flag. Unknown targets never match.
const (
	TargetLink            = "link"
	TargetKeyboardHelpKey = "keyboardHelpKey"
)

// ModeChange is the direction of a mode matcher.
type ModeChange string

const (
	ChangeEnter ModeChange = "enter"
	ChangeExit  ModeChange = "exit"
)

func (c ModeChange) String() string { return string(c) }

// IsValid reports whether c is a recognised change direction.
func (c ModeChange) IsValid() bool {
	return c == ChangeEnter || c == ChangeExit
}

// Recognised onEnter action kinds. Unrecognised kinds are ignored.
const (
	OnEnterOverlay  = "overlay"
	OnEnterOpenPage = "open-page"
	OnEnterPopover  = "popover"
)

// Well-known onEnter attribute names.
const (
	AttrTitle           = "title"
	AttrText            = "text"
	AttrPrimaryButton   = "primaryButton"
	AttrSecondaryButton = "secondaryButton"
	AttrPath            = "path"
)

// Transition causes carried on emitted events.
const (
	CauseActivate    = "activate"
	CauseAutoAdvance = "auto-advance"
	CauseManualNext  = "manual-next"
	CauseManualPrev  = "manual-prev"
	CauseReset       = "reset"
)

// BackAction is the implicit action delivered when the page was reached via
// back/forward navigation.
const BackAction = "back"
