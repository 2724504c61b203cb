// Package progress defines the persisted walkthrough state: the Progress
// record and the short-lived transient-action recovery record. Decoding is
// deliberately tolerant: a malformed record coerces field-by-field to
// defaults and never fails, so a corrupt store can only lose progress, not
// break the walkthrough.
package progress

import (
	"sort"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/worksonmyai/tourguide/internal/model"
)

// Progress is the persisted walkthrough state for the whole profile.
type Progress struct {
	// SlideID is the current slide, or "" when the model is empty.
	SlideID string
	// CompletedTaskIDs holds task ids completed on the current slide.
	CompletedTaskIDs map[string]struct{}
	// OnEnterDoneSlideIDs holds slides whose onEnter actions already fired.
	// Lifetime-scoped; only a reset clears it.
	OnEnterDoneSlideIDs map[string]struct{}
	// Completed is true once the last slide finished.
	Completed bool
	// Timestamp is the unix-millisecond time of the last write.
	Timestamp int64
}

// New returns a fresh record positioned at the given first slide.
func New(firstSlideID string) Progress {
	return Progress{
		SlideID:             firstSlideID,
		CompletedTaskIDs:    map[string]struct{}{},
		OnEnterDoneSlideIDs: map[string]struct{}{},
	}
}

// TaskDone reports whether the task id is completed on the current slide.
func (p *Progress) TaskDone(id string) bool {
	_, ok := p.CompletedTaskIDs[id]
	return ok
}

// MarkTask records a completed task. It returns false when the task was
// already complete, which keeps completion monotonic within a slide.
func (p *Progress) MarkTask(id string) bool {
	if p.TaskDone(id) {
		return false
	}
	p.CompletedTaskIDs[id] = struct{}{}
	return true
}

// OnEnterDone reports whether the slide's onEnter actions already fired.
func (p *Progress) OnEnterDone(slideID string) bool {
	_, ok := p.OnEnterDoneSlideIDs[slideID]
	return ok
}

// MarkOnEnterDone records that the slide's onEnter actions fired.
func (p *Progress) MarkOnEnterDone(slideID string) {
	p.OnEnterDoneSlideIDs[slideID] = struct{}{}
}

// SortedTaskIDs returns the completed task ids in stable order.
func (p *Progress) SortedTaskIDs() []string {
	return sortedKeys(p.CompletedTaskIDs)
}

// Encode renders the canonical JSON record.
func (p *Progress) Encode() []byte {
	out := []byte(`{}`)
	if p.SlideID == "" {
		out, _ = sjson.SetBytes(out, "slideId", nil)
	} else {
		out, _ = sjson.SetBytes(out, "slideId", p.SlideID)
	}
	out, _ = sjson.SetBytes(out, "completedTaskIds", sortedKeys(p.CompletedTaskIDs))
	out, _ = sjson.SetBytes(out, "onEnterDoneSlideIds", sortedKeys(p.OnEnterDoneSlideIDs))
	out, _ = sjson.SetBytes(out, "completed", p.Completed)
	out, _ = sjson.SetBytes(out, "timestamp", p.Timestamp)
	return out
}

// Decode parses a persisted record. Every field is coerced defensively:
// wrong types become zero values, string sets drop non-string members.
func Decode(data []byte) Progress {
	p := New("")
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return p
	}
	if v := root.Get("slideId"); v.Type == gjson.String {
		p.SlideID = v.Str
	}
	for _, e := range root.Get("completedTaskIds").Array() {
		if e.Type == gjson.String && e.Str != "" {
			p.CompletedTaskIDs[e.Str] = struct{}{}
		}
	}
	for _, e := range root.Get("onEnterDoneSlideIds").Array() {
		if e.Type == gjson.String && e.Str != "" {
			p.OnEnterDoneSlideIDs[e.Str] = struct{}{}
		}
	}
	p.Completed = root.Get("completed").Type == gjson.True
	if v := root.Get("timestamp"); v.Type == gjson.Number {
		p.Timestamp = int64(v.Num)
	}
	return p
}

// TransientTTL bounds how long a transient action record stays applicable.
const TransientTTL = 15 * time.Second

// TransientAction is a cross-context hint recording an action that happened
// just before a navigation interrupted normal persistence. It is applied at
// most once and discarded whether or not it changed anything.
type TransientAction struct {
	Action    string
	Detail    model.Detail
	Timestamp int64 // unix milliseconds
}

// Expired reports whether the record is older than TransientTTL at now.
func (t TransientAction) Expired(now time.Time) bool {
	written := time.UnixMilli(t.Timestamp)
	return now.Sub(written) > TransientTTL
}

// Encode renders the transient record.
func (t TransientAction) Encode() []byte {
	out := []byte(`{}`)
	out, _ = sjson.SetBytes(out, "action", t.Action)
	out, _ = sjson.SetBytes(out, "detail.isLink", t.Detail.IsLink)
	out, _ = sjson.SetBytes(out, "detail.isKeyboardHelpKey", t.Detail.IsKeyboardHelpKey)
	out, _ = sjson.SetBytes(out, "timestamp", t.Timestamp)
	return out
}

// DecodeTransient parses a transient record with the same tolerance rules as
// Decode. A record with no action is returned as the zero value and treated
// as inapplicable by the caller.
func DecodeTransient(data []byte) TransientAction {
	var t TransientAction
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return t
	}
	if v := root.Get("action"); v.Type == gjson.String {
		t.Action = v.Str
	}
	t.Detail.IsLink = root.Get("detail.isLink").Type == gjson.True
	t.Detail.IsKeyboardHelpKey = root.Get("detail.isKeyboardHelpKey").Type == gjson.True
	if v := root.Get("timestamp"); v.Type == gjson.Number {
		t.Timestamp = int64(v.Num)
	}
	return t
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
