package tui

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/worksonmyai/tourguide/internal/protocol"
)

var statusConfigPath string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted walkthrough state",
	Long: `Status prints the raw records the engine keeps in the configured store:
the active flag, the progress record, and any pending transient action.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(statusConfigPath)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		out := cmd.OutOrStdout()
		for _, key := range []string{protocol.KeyActive, protocol.KeyProgress, protocol.KeyTransient} {
			value, ok, err := st.Get(ctx, key)
			if err != nil {
				return fmt.Errorf("read %s: %w", key, err)
			}
			if !ok {
				fmt.Fprintf(out, "%s: (unset)\n", key)
				continue
			}
			fmt.Fprintf(out, "%s:\n%s", key, pretty.Pretty(value))
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVarP(&statusConfigPath, "config", "c", "", "config file path")
}
