package main

import (
	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "plantid",
	Short: "Identify plants from photos using a running Plant Identifier server",
	Long: `plantid uploads plant photos to a running Plant Identifier server
and prints the identification as text cards.

Examples:
  plantid identify fern.jpg
  plantid identify --server http://localhost:9090 rose.png
  plantid version`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)
	rootCmd.AddCommand(identifyCmd)
	rootCmd.AddCommand(versionCmd)
}
