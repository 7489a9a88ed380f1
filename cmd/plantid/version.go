package main

import (
	"fmt"

	"github.com/spf13/cobra"

	httpDelivery "github.com/plantid/backend/internal/delivery/http"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "plantid %s\n", httpDelivery.Version)
	},
}
