package tui

import (
	"fmt"
	"strings"
)

func (m playerModel) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("tourguide"))
	b.WriteString("\n")

	snap := m.eng.Snapshot()
	switch {
	case snap.Completed:
		b.WriteString(doneStyle.Render("Walkthrough completed."))
		b.WriteString("\n")
	case !snap.Active:
		b.WriteString(hiddenStyle.Render("Walkthrough inactive."))
		b.WriteString("\n")
	default:
		header := fmt.Sprintf("%s  %s", slideTitleStyle.Render(snap.Title),
			labelStyle.Render(fmt.Sprintf("(%d/%d)", snap.SlideIndex+1, snap.SlideCount)))
		var slide strings.Builder
		slide.WriteString(header)
		if snap.Body != "" {
			slide.WriteString("\n")
			slide.WriteString(m.body.View())
		}
		for _, task := range snap.Tasks {
			slide.WriteString("\n")
			if task.Done {
				slide.WriteString(taskDoneStyle.Render("  [x] " + task.Label))
			} else {
				slide.WriteString(taskPendingStyle.Render("  [ ] " + task.Label))
			}
		}
		b.WriteString(slideBoxStyle.Render(slide.String()))
		b.WriteString("\n")
	}

	if len(m.tail.entries) > 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("events"))
		b.WriteString("\n")
		for _, ev := range m.tail.entries {
			line := string(ev.Name)
			if ev.SlideID != "" {
				line += " " + ev.SlideID
			}
			if ev.Cause != "" {
				line += labelStyle.Render(" (" + ev.Cause + ")")
			}
			b.WriteString(eventStyle.Render("  " + line))
			b.WriteString("\n")
		}
	}

	if m.entry != entryNone {
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("> "))
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter: send  esc: cancel"))
	} else {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("a: action  m: mode change  n/p: next/prev  r: reset  t: toggle  h: host gate  q: quit"))
	}
	b.WriteString("\n")
	return b.String()
}
