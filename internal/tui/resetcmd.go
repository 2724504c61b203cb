package tui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worksonmyai/tourguide/internal/engine"
	"github.com/worksonmyai/tourguide/internal/host"
)

var (
	resetConfigPath string
	resetModelPath  string
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset persisted walkthrough progress",
	Long: `Reset clears completion state in the configured store and returns the
walkthrough to its first slide. The next run starts from the beginning, and
onEnter effects fire again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(resetConfigPath)
		if err != nil {
			return err
		}
		mod, _, err := resolveModel(cfg, resetModelPath, false)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		eng := engine.New(engine.Config{
			Model: mod,
			Store: st,
			Gate:  host.NewToggleGate(true),
		})
		eng.Load(ctx)
		eng.Reset(ctx)

		fmt.Fprintln(cmd.OutOrStdout(), "progress reset")
		return nil
	},
}

func init() {
	resetCmd.Flags().StringVarP(&resetConfigPath, "config", "c", "", "config file path")
	resetCmd.Flags().StringVarP(&resetModelPath, "model", "m", "", "walkthrough model file (overrides config)")
}
