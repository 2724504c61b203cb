package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/worksonmyai/tourguide/internal/protocol"
)

func TestMatcherMatchesAction(t *testing.T) {
	tests := []struct {
		name    string
		matcher Matcher
		action  string
		detail  Detail
		want    bool
	}{
		{
			name:    "exact action match",
			matcher: Matcher{Type: protocol.MatcherAction, Action: "click"},
			action:  "click",
			want:    true,
		},
		{
			name:    "action mismatch",
			matcher: Matcher{Type: protocol.MatcherAction, Action: "click"},
			action:  "scroll",
			want:    false,
		},
		{
			name:    "unset action matches any",
			matcher: Matcher{Type: protocol.MatcherAction},
			action:  "whatever",
			want:    true,
		},
		{
			name:    "link target requires isLink",
			matcher: Matcher{Type: protocol.MatcherAction, Action: "activate", Target: protocol.TargetLink},
			action:  "activate",
			detail:  Detail{IsLink: true},
			want:    true,
		},
		{
			name:    "link target without flag",
			matcher: Matcher{Type: protocol.MatcherAction, Action: "activate", Target: protocol.TargetLink},
			action:  "activate",
			detail:  Detail{IsLink: false},
			want:    false,
		},
		{
			name:    "link target with empty detail",
			matcher: Matcher{Type: protocol.MatcherAction, Action: "activate", Target: protocol.TargetLink},
			action:  "activate",
			want:    false,
		},
		{
			name:    "keyboard help target",
			matcher: Matcher{Type: protocol.MatcherAction, Target: protocol.TargetKeyboardHelpKey},
			action:  "keydown",
			detail:  Detail{IsKeyboardHelpKey: true},
			want:    true,
		},
		{
			name:    "unknown target fails closed",
			matcher: Matcher{Type: protocol.MatcherAction, Action: "activate", Target: "videoFrame"},
			action:  "activate",
			detail:  Detail{IsLink: true, IsKeyboardHelpKey: true},
			want:    false,
		},
		{
			name:    "mode matcher never matches actions",
			matcher: Matcher{Type: protocol.MatcherMode, Mode: "click"},
			action:  "click",
			want:    false,
		},
		{
			name:    "empty type never matches",
			matcher: Matcher{Action: "click"},
			action:  "click",
			want:    false,
		},
		{
			name:    "unknown type never matches",
			matcher: Matcher{Type: "gesture", Action: "click"},
			action:  "click",
			want:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.matcher.MatchesAction(tc.action, tc.detail))
		})
	}
}

func TestMatcherMatchesModeChange(t *testing.T) {
	enter := Matcher{Type: protocol.MatcherMode, Mode: "text_focus", Change: protocol.ChangeEnter}
	exit := Matcher{Type: protocol.MatcherMode, Mode: "text_focus", Change: protocol.ChangeExit}

	tests := []struct {
		name       string
		matcher    Matcher
		prev, next string
		want       bool
	}{
		{"enter from other mode", enter, "none", "text_focus", true},
		{"no-op change does not enter", enter, "text_focus", "text_focus", false},
		{"wrong direction does not enter", enter, "text_focus", "none", false},
		{"exit to other mode", exit, "text_focus", "none", true},
		{"no-op change does not exit", exit, "text_focus", "text_focus", false},
		{"wrong direction does not exit", exit, "none", "text_focus", false},
		{"missing mode never fires", Matcher{Type: protocol.MatcherMode, Change: protocol.ChangeEnter}, "none", "", false},
		{"missing change never fires", Matcher{Type: protocol.MatcherMode, Mode: "text_focus"}, "none", "text_focus", false},
		{"action matcher never matches modes", Matcher{Type: protocol.MatcherAction, Action: "x"}, "none", "text_focus", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.matcher.MatchesModeChange(tc.prev, tc.next))
		})
	}
}

func TestModelNavigation(t *testing.T) {
	m := &Model{Slides: []Slide{{ID: "a"}, {ID: "b"}, {ID: "c"}}}

	first, ok := m.First()
	require.True(t, ok)
	require.Equal(t, "a", first.ID)

	next, ok := m.NextAfter("a")
	require.True(t, ok)
	require.Equal(t, "b", next.ID)

	_, ok = m.NextAfter("c")
	require.False(t, ok)

	prev, ok := m.PrevBefore("c")
	require.True(t, ok)
	require.Equal(t, "b", prev.ID)

	_, ok = m.PrevBefore("a")
	require.False(t, ok)

	_, ok = m.NextAfter("unknown")
	require.False(t, ok)

	require.Equal(t, 1, m.Index("b"))
	require.Equal(t, -1, m.Index("zz"))
}

func TestModelEmpty(t *testing.T) {
	var nilModel *Model
	require.True(t, nilModel.Empty())
	require.Equal(t, 0, nilModel.Len())
	require.Equal(t, -1, nilModel.Index("a"))

	m := &Model{}
	require.True(t, m.Empty())
	_, ok := m.First()
	require.False(t, ok)
}

func TestLoad(t *testing.T) {
	doc := `
slides:
  - id: welcome
    title: Welcome to KeyPilot
    body: |
      Press **F** to show link hints.
    onEnter:
      - type: overlay
        title: Welcome
        primaryButton: Start
        theme: dark
    tasks:
      - id: activate-link
        label: Activate a link
        when:
          type: action
          action: activate
          target: link
  - id: modes
    title: Modes
    tasks:
      - id: enter-text-focus
        label: Focus a text field
        when:
          type: mode
          mode: text_focus
          change: enter
  - id: done
    title: All set
`
	m, err := Load([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())

	welcome := m.Slides[0]
	require.Equal(t, "welcome", welcome.ID)
	require.Equal(t, "Welcome to KeyPilot", welcome.Title)
	require.Contains(t, welcome.Body, "link hints")

	require.Len(t, welcome.OnEnter, 1)
	require.Equal(t, protocol.OnEnterOverlay, welcome.OnEnter[0].Type)
	require.Equal(t, "Welcome", welcome.OnEnter[0].Attr(protocol.AttrTitle))
	require.Equal(t, "Start", welcome.OnEnter[0].Attr(protocol.AttrPrimaryButton))
	// Unknown attributes pass through verbatim.
	require.Equal(t, "dark", welcome.OnEnter[0].Attr("theme"))
	require.NotContains(t, welcome.OnEnter[0].Attrs, "type")

	require.Len(t, welcome.Tasks, 1)
	require.Equal(t, protocol.MatcherAction, welcome.Tasks[0].When.Type)
	require.Equal(t, protocol.TargetLink, welcome.Tasks[0].When.Target)

	require.Equal(t, protocol.ChangeEnter, m.Slides[1].Tasks[0].When.Change)
	require.Empty(t, m.Slides[2].Tasks)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"malformed yaml", "slides: [", "parse model document"},
		{"duplicate slide id", "slides: [{id: a}, {id: a}]", `duplicate slide id "a"`},
		{"missing slide id", "slides: [{title: x}]", "missing id"},
		{
			"duplicate task id within slide",
			"slides: [{id: a, tasks: [{id: t, label: x}, {id: t, label: y}]}]",
			`duplicate task id "t"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.doc))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadEmptyDocument(t *testing.T) {
	m, err := Load([]byte(""))
	require.NoError(t, err)
	require.True(t, m.Empty())
}
