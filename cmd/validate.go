package cmd

import (
	"errors"
	"fmt"

	"github.com/manno/inflow/internal/flow"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var validateCmd = &cobra.Command{
	Use:   "validate [definition-file]",
	Short: "Check a workflow definition",
	Long: `Validate loads a workflow definition and reports every problem and warning
without starting a session. The file argument overrides --definition.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := GetLogger()
		out := cmd.OutOrStdout()

		path := viper.GetString("definition")
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return errors.New("no workflow definition given")
		}

		logger.Info("validating workflow definition", "file", path)

		def, err := flow.LoadFile(path)
		if err != nil {
			var verr *flow.ValidationError
			if errors.As(err, &verr) {
				for _, p := range verr.Problems {
					fmt.Fprintf(out, "error: %s\n", p)
				}
			}
			return err
		}

		for _, w := range def.Warnings() {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		fmt.Fprintf(out, "%s: workflow %q with %d steps is valid\n", path, def.Name(), def.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
