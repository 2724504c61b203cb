// Package trace reads recorded input traces for replay: one JSON object per
// line, tagged by type. Lines that do not parse are skipped rather than
// failing the replay, mirroring the engine's tolerance for malformed input.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/worksonmyai/tourguide/internal/debug"
	"github.com/worksonmyai/tourguide/internal/engine"
	"github.com/worksonmyai/tourguide/internal/model"
)

// Step is one trace entry with its source line for diagnostics.
type Step struct {
	Input engine.Input
	Line  int
}

// Parse reads a JSONL trace. Recognised line shapes:
//
//	{"type": "action", "action": "activate", "detail": {"isLink": true}}
//	{"type": "mode", "prev": "none", "next": "text_focus"}
//	{"type": "toggle", "enabled": false}
//
// Blank lines and #-comments are ignored; unrecognised lines are skipped
// with a debug log.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		in, ok := parseLine(line)
		if !ok {
			debug.Logf("trace line %d skipped: %s", lineNo, line)
			continue
		}
		steps = append(steps, Step{Input: in, Line: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return steps, nil
}

// ParseFile reads a JSONL trace from disk.
func ParseFile(path string) ([]Step, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseLine(line string) (engine.Input, bool) {
	root := gjson.Parse(line)
	if !root.IsObject() {
		return nil, false
	}
	switch root.Get("type").Str {
	case "action":
		action := root.Get("action")
		if action.Type != gjson.String || action.Str == "" {
			return nil, false
		}
		return engine.ActionInput{
			Action: action.Str,
			Detail: model.Detail{
				IsLink:            root.Get("detail.isLink").Type == gjson.True,
				IsKeyboardHelpKey: root.Get("detail.isKeyboardHelpKey").Type == gjson.True,
			},
		}, true
	case "mode":
		return engine.ModeChangeInput{
			Prev: root.Get("prev").Str,
			Next: root.Get("next").Str,
		}, true
	case "toggle":
		return engine.ToggleInput{Enabled: root.Get("enabled").Type == gjson.True}, true
	default:
		return nil, false
	}
}
