package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	servicekit "github.com/lvsoft/service-kit"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of forge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("forge version %s\n", strings.TrimSpace(servicekit.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
