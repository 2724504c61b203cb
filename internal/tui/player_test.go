package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worksonmyai/tourguide/internal/engine"
	"github.com/worksonmyai/tourguide/internal/event"
)

func eventWithSlide(id string) event.Event {
	return event.Event{Name: event.SlideCompleted, SlideID: id}
}

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name string
		kind entryKind
		text string
		want engine.Input
		ok   bool
	}{
		{
			name: "plain action",
			kind: entryAction,
			text: "activate",
			want: engine.ActionInput{Action: "activate"},
			ok:   true,
		},
		{
			name: "action with link detail",
			kind: entryAction,
			text: "activate link",
			want: func() engine.Input {
				in := engine.ActionInput{Action: "activate"}
				in.Detail.IsLink = true
				return in
			}(),
			ok: true,
		},
		{
			name: "action with help detail",
			kind: entryAction,
			text: "activate help",
			want: func() engine.Input {
				in := engine.ActionInput{Action: "activate"}
				in.Detail.IsKeyboardHelpKey = true
				return in
			}(),
			ok: true,
		},
		{
			name: "mode change",
			kind: entryMode,
			text: "none text_focus",
			want: engine.ModeChangeInput{Prev: "none", Next: "text_focus"},
			ok:   true,
		},
		{
			name: "mode change needs exactly two fields",
			kind: entryMode,
			text: "text_focus",
			ok:   false,
		},
		{
			name: "blank input",
			kind: entryAction,
			text: "   ",
			ok:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseEntry(tc.kind, tc.text)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestEventTailKeepsMostRecent(t *testing.T) {
	tail := newEventTail(2)
	for _, id := range []string{"s1", "s2", "s3"} {
		tail.add(eventWithSlide(id))
	}
	require.Len(t, tail.entries, 2)
	assert.Equal(t, "s2", tail.entries[0].SlideID)
	assert.Equal(t, "s3", tail.entries[1].SlideID)
}
