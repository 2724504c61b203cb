package tui

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateConfigPath string

var validateCmd = &cobra.Command{
	Use:   "validate <model.yaml>",
	Short: "Validate a walkthrough model document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(validateConfigPath)
		if err != nil {
			return err
		}
		flagModel := ""
		if len(args) == 1 {
			flagModel = args[0]
		}
		mod, path, err := resolveModel(cfg, flagModel, true)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: ok\n", path)
		fmt.Fprintf(out, "slides: %d\n", mod.Len())
		tasks := 0
		onEnter := 0
		for _, s := range mod.Slides {
			tasks += len(s.Tasks)
			onEnter += len(s.OnEnter)
		}
		fmt.Fprintf(out, "tasks: %d\n", tasks)
		fmt.Fprintf(out, "onEnter actions: %d\n", onEnter)
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfigPath, "config", "c", "", "config file path")
}
