package tui

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/worksonmyai/tourguide/internal/engine"
	"github.com/worksonmyai/tourguide/internal/event"
	"github.com/worksonmyai/tourguide/internal/host"
	"github.com/worksonmyai/tourguide/internal/store"
	"github.com/worksonmyai/tourguide/internal/trace"
)

var (
	replayConfigPath string
	replayModelPath  string
)

var replayCmd = &cobra.Command{
	Use:   "replay <trace.jsonl>",
	Short: "Replay a recorded event trace against a model",
	Long: `Replay feeds a JSONL trace of application events through the walkthrough
engine against an in-memory store and prints every event the engine emits,
followed by the final state. Useful for debugging models and matchers without
touching persisted progress.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(replayConfigPath)
		if err != nil {
			return err
		}
		mod, _, err := resolveModel(cfg, replayModelPath, true)
		if err != nil {
			return err
		}
		steps, err := trace.ParseFile(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		eng := engine.New(engine.Config{
			Model: mod,
			Store: store.NewMemory(),
			Gate:  host.NewToggleGate(true),
			Emit: func(ev event.Event) {
				line := string(ev.Name)
				if ev.FromSlideID != "" {
					line += " " + ev.FromSlideID + " ->"
				}
				if ev.SlideID != "" {
					line += " " + ev.SlideID
				}
				if ev.Cause != "" {
					line += " (" + ev.Cause + ")"
				}
				fmt.Fprintln(out, line)
			},
		})
		eng.Load(ctx)
		eng.SetActive(ctx, true)

		for _, step := range steps {
			eng.Handle(ctx, step.Input)
		}

		fmt.Fprintln(out)
		fmt.Fprint(out, string(pretty.Pretty(snapshotJSON(eng.Snapshot()))))
		return nil
	},
}

// snapshotJSON renders the final engine state as a compact JSON document.
func snapshotJSON(snap engine.Snapshot) []byte {
	doc := "{}"
	doc, _ = sjson.Set(doc, "active", snap.Active)
	doc, _ = sjson.Set(doc, "completed", snap.Completed)
	if snap.SlideID != "" {
		doc, _ = sjson.Set(doc, "slideId", snap.SlideID)
		doc, _ = sjson.Set(doc, "slideIndex", snap.SlideIndex)
		doc, _ = sjson.Set(doc, "slideCount", snap.SlideCount)
	}
	for _, task := range snap.Tasks {
		doc, _ = sjson.Set(doc, "tasks."+task.ID, task.Done)
	}
	return []byte(doc)
}

func init() {
	replayCmd.Flags().StringVarP(&replayConfigPath, "config", "c", "", "config file path")
	replayCmd.Flags().StringVarP(&replayModelPath, "model", "m", "", "walkthrough model file (overrides config)")
}
