package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var statusCmd = &cobra.Command{
	Use:   "status <lesson-id>",
	Short: "Print the job status record of a lesson",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := setup(false)
	if err != nil {
		return err
	}

	rec, err := a.tracker.Get(cmdContext(cmd), args[0])
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
