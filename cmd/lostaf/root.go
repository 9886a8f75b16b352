package main

import (
	"github.com/spf13/cobra"

	"github.com/lostaf-io/lostaf/internal/config"
)

// NewRootCmd builds the lostaf command tree.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lostaf",
		Short:         "Lost & found portal with image-similarity matching",
		Long:          `Serve the LostAF API and run maintenance tasks against its store.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().String("env", config.GetEnv(), "Config environment (local|dev|prod)")

	rootCmd.AddCommand(
		NewServeCmd(),
		NewRematchCmd(),
		NewReindexCmd(),
		NewSessionCmd(),
		NewVersionCmd(),
	)

	return rootCmd
}
