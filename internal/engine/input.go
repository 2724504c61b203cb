package engine

import "github.com/worksonmyai/tourguide/internal/model"

// Input is the closed union of events the host delivers to the engine.
// Handle matches it exhaustively; there are no duck-typed payloads.
type Input interface {
	isInput()
}

// ActionInput is an application-level action (key press, activation, scroll)
// with its detail flags.
type ActionInput struct {
	Action string
	Detail model.Detail
}

// ModeChangeInput notifies the engine that the host switched modes.
type ModeChangeInput struct {
	Prev string
	Next string
}

// ToggleInput asks the engine to show or dismiss the walkthrough.
type ToggleInput struct {
	Enabled bool
}

func (ActionInput) isInput()     {}
func (ModeChangeInput) isInput() {}
func (ToggleInput) isInput()     {}
