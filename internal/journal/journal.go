// Package journal provides persistent timestamped logging for walkthrough
// sessions. Every run writes a log file to the state logs directory with
// timestamped entries for slide transitions, task completions, and the final
// outcome.
package journal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/worksonmyai/tourguide/internal/event"
)

// timestampFormat is the format for log timestamps.
const timestampFormat = "2006-01-02 15:04:05"

// Logger writes timestamped session entries to a log file and an optional
// additional writer.
type Logger struct {
	file      *os.File
	writer    io.Writer
	startTime time.Time
	logPath   string
}

// Config holds logger configuration.
type Config struct {
	LogsDir string    // Directory for log files
	Name    string    // Session identifier (usually the model filename)
	Writer  io.Writer // Optional additional writer for live output
}

// New creates a logger that writes to a timestamped log file named
// <timestamp>-<name>.log under cfg.LogsDir.
func New(cfg Config) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	name := sanitizeFilename(cfg.Name)
	if name == "" {
		name = "walkthrough"
	}
	logPath := filepath.Join(cfg.LogsDir, fmt.Sprintf("%s-%s.log", timestamp, name))

	f, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	l := &Logger{
		file:      f,
		writer:    cfg.Writer,
		startTime: time.Now(),
		logPath:   logPath,
	}

	l.writef("# Tourguide Session Log\n")
	l.writef("# Started: %s\n\n", l.startTime.Format(timestampFormat))
	return l, nil
}

// Path returns the log file path.
func (l *Logger) Path() string { return l.logPath }

// Event logs one engine event.
func (l *Logger) Event(ev event.Event) {
	switch ev.Name {
	case event.SlideTransitionStart:
		l.Logf("transition %s -> %s (%s)", orDash(ev.FromSlideID), ev.SlideID, ev.Cause)
	case event.SlideTransitionEnd:
		l.Logf("entered slide %s [%d/%d]", ev.SlideID, ev.Index+1, ev.Count)
	case event.SlideCompleted:
		l.Logf("slide %s completed (%s)", ev.SlideID, ev.Cause)
	case event.LastSlideCompleted:
		l.Logf("last slide %s completed", ev.SlideID)
	case event.OnboardingCompleted:
		l.Logf("walkthrough completed after %s", l.elapsed())
	case event.OverlayShown:
		l.Logf("overlay shown on slide %s", ev.SlideID)
	default:
		l.Logf("%s slide=%s cause=%s", ev.Name, ev.SlideID, ev.Cause)
	}
}

// Handler returns an event.Handler that logs and then forwards to next.
// next may be nil.
func (l *Logger) Handler(next event.Handler) event.Handler {
	return func(ev event.Event) {
		l.Event(ev)
		if next != nil {
			next(ev)
		}
	}
}

// Logf writes a timestamped entry.
func (l *Logger) Logf(format string, args ...any) {
	entry := fmt.Sprintf("[%s] %s\n", time.Now().Format(timestampFormat), fmt.Sprintf(format, args...))
	l.writef("%s", entry)
}

// Close writes the footer and closes the file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	l.writef("\n# Ended: %s (elapsed %s)\n", time.Now().Format(timestampFormat), l.elapsed())
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) elapsed() string {
	return time.Since(l.startTime).Round(time.Second).String()
}

func (l *Logger) writef(format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	if l.file != nil {
		fmt.Fprint(l.file, s)
	}
	if l.writer != nil {
		fmt.Fprint(l.writer, s)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// sanitizeFilename keeps log filenames shell-friendly.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
