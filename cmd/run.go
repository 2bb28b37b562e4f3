package cmd

import (
	"fmt"

	"github.com/manno/inflow/internal/transport/terminal"
	"github.com/manno/inflow/internal/workflow"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Walk through the workflow interactively in the terminal",
	Long: `The run command shows one step at a time with numbered buttons. Answer with
a button number, or use /start, /selections, /restart and /quit.

Example:
  inflow run --definition workflow.yaml
  INFLOW_DEFINITION=workflow.json inflow run --session alice`,
	RunE: runRun,
}

var runSession string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runSession, "session", "", "session id (default is a random id)")
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	def, err := loadDefinition(logger)
	if err != nil {
		return err
	}

	session := runSession
	if session == "" {
		session = workflow.NewID()
	}

	console := terminal.New(newManager(def, logger), session, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	if err := console.Run(cmd.Context()); err != nil {
		logger.Error("console session failed", "error", err)
		return fmt.Errorf("console session failed: %w", err)
	}
	return nil
}
