package tui

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/worksonmyai/tourguide/internal/engine"
	"github.com/worksonmyai/tourguide/internal/event"
	"github.com/worksonmyai/tourguide/internal/host"
	"github.com/worksonmyai/tourguide/internal/journal"
)

var (
	runConfigPath string
	runModelPath  string
	runNoJournal  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play a walkthrough interactively",
	Long: `Run loads the configured walkthrough model and plays it in the terminal.
Task matchers fire on simulated application events entered at the prompt, and
progress persists to the configured store so a later run resumes where this
one left off.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(runConfigPath)
		if err != nil {
			return err
		}
		mod, modelPath, err := resolveModel(cfg, runModelPath, false)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		gate := host.NewToggleGate(true)
		tail := newEventTail(8)

		var emit event.Handler = tail.add
		if cfg.Journal && !runNoJournal {
			name := "walkthrough"
			if modelPath != "" {
				name = filepath.Base(modelPath)
			}
			log, err := journal.New(journal.Config{LogsDir: cfg.LogsDir, Name: name})
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer log.Close()
			emit = log.Handler(tail.add)
		}

		eng := engine.New(engine.Config{
			Model: mod,
			Store: st,
			Gate:  gate,
			Emit:  emit,
		})
		eng.Load(ctx)
		eng.ApplyTransient(ctx)
		eng.SetActive(ctx, true)

		p := tea.NewProgram(
			newPlayerModel(ctx, eng, gate, tail),
			tea.WithAltScreen(),
			tea.WithContext(ctx),
		)

		// Store changes land on the program's update loop, never on the
		// watcher's goroutine.
		cancelWatch := st.Watch(func(key string, value []byte) {
			p.Send(storageChangeMsg{key: key, value: value})
		})
		defer cancelWatch()

		_, err = p.Run()
		if err != nil && ctx.Err() == context.Canceled {
			return nil
		}
		return err
	},
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "config file path")
	runCmd.Flags().StringVarP(&runModelPath, "model", "m", "", "walkthrough model file (overrides config)")
	runCmd.Flags().BoolVar(&runNoJournal, "no-journal", false, "disable the session journal")
}
