package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "linkedin-agent",
	Short:         "LinkedIn tool & agent service for MeshAgent rooms",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Err(err).Send()
		os.Exit(1)
	}
}
