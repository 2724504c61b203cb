package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/worksonmyai/tourguide/internal/engine"
	"github.com/worksonmyai/tourguide/internal/event"
	"github.com/worksonmyai/tourguide/internal/host"
)

// eventTail keeps the most recent engine events for display.
type eventTail struct {
	entries []event.Event
	max     int
}

func newEventTail(max int) *eventTail { return &eventTail{max: max} }

func (t *eventTail) add(ev event.Event) {
	t.entries = append(t.entries, ev)
	if len(t.entries) > t.max {
		t.entries = t.entries[len(t.entries)-t.max:]
	}
}

// storageChangeMsg carries a store change notification onto the program's
// update goroutine, where it is safe to touch the engine.
type storageChangeMsg struct {
	key   string
	value []byte
}

// entryKind tracks what the text input is collecting.
type entryKind int

const (
	entryNone entryKind = iota
	entryAction
	entryMode
)

// playerModel is the interactive walkthrough player. Every engine call
// happens inside Update, which keeps the engine on a single goroutine.
type playerModel struct {
	ctx  context.Context
	eng  *engine.Engine
	gate *host.ToggleGate
	tail *eventTail

	input textinput.Model
	entry entryKind

	body     viewport.Model
	renderer *glamour.TermRenderer
	width    int
	height   int
	ready    bool
}

const bodyHeight = 10

func newPlayerModel(ctx context.Context, eng *engine.Engine, gate *host.ToggleGate, tail *eventTail) playerModel {
	ti := textinput.New()
	ti.CharLimit = 120
	return playerModel{
		ctx:   ctx,
		eng:   eng,
		gate:  gate,
		tail:  tail,
		input: ti,
	}
}

func (m playerModel) Init() tea.Cmd {
	return nil
}

func (m playerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyWidth := msg.Width - 6
		if bodyWidth < 20 {
			bodyWidth = 20
		}
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(bodyWidth),
		)
		if err == nil {
			m.renderer = renderer
		}
		if !m.ready {
			m.body = viewport.New(bodyWidth, bodyHeight)
			m.ready = true
		} else {
			m.body.Width = bodyWidth
		}
		m.refreshBody()
		return m, nil

	case storageChangeMsg:
		m.eng.SyncFromStore(msg.key, msg.value)
		m.refreshBody()
		return m, nil

	case tea.KeyMsg:
		if m.entry != entryNone {
			return m.updateEntry(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m playerModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n":
		m.eng.NextSlide(m.ctx)
	case "p":
		m.eng.PrevSlide(m.ctx)
	case "r":
		m.eng.Reset(m.ctx)
	case "t":
		m.eng.Handle(m.ctx, engine.ToggleInput{Enabled: !m.eng.Active()})
	case "h":
		// Flip the host-enabled gate to demo the fail-closed behavior.
		enabled, _ := m.gate.Enabled(m.ctx)
		m.gate.SetEnabled(!enabled)
	case "a":
		m.entry = entryAction
		m.input.Placeholder = "action [link|help]  e.g. `activate link`"
		m.input.SetValue("")
		m.input.Focus()
	case "m":
		m.entry = entryMode
		m.input.Placeholder = "prevMode nextMode  e.g. `none text_focus`"
		m.input.SetValue("")
		m.input.Focus()
	case "up", "k":
		m.body.LineUp(1)
	case "down", "j":
		m.body.LineDown(1)
	}
	m.refreshBody()
	return m, nil
}

func (m playerModel) updateEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.entry = entryNone
		m.input.Blur()
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		kind := m.entry
		m.entry = entryNone
		m.input.Blur()
		if text == "" {
			return m, nil
		}
		if in, ok := parseEntry(kind, text); ok {
			m.eng.Handle(m.ctx, in)
			m.refreshBody()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// parseEntry turns a typed line into an engine input. Action entries are
// "action" plus optional flag words; mode entries are "prev next".
func parseEntry(kind entryKind, text string) (engine.Input, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, false
	}
	switch kind {
	case entryAction:
		in := engine.ActionInput{Action: fields[0]}
		for _, f := range fields[1:] {
			switch f {
			case "link":
				in.Detail.IsLink = true
			case "help":
				in.Detail.IsKeyboardHelpKey = true
			}
		}
		return in, true
	case entryMode:
		if len(fields) != 2 {
			return nil, false
		}
		return engine.ModeChangeInput{Prev: fields[0], Next: fields[1]}, true
	}
	return nil, false
}

func (m *playerModel) refreshBody() {
	if !m.ready {
		return
	}
	snap := m.eng.Snapshot()
	body := snap.Body
	if body == "" {
		m.body.SetContent("")
		return
	}
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(body); err == nil {
			body = rendered
		}
	}
	m.body.SetContent(body)
}
