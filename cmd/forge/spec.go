package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvsoft/service-kit/internal/demo"
)

var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "Print the demo service's OpenAPI contract",
	Long: `Assembles the contract from the demo service's registered operations and
prints it as OpenAPI JSON: exactly the document forge serve exposes at
` + "`/api-docs/openapi.json`" + `.`,
	Run: func(cmd *cobra.Command, args []string) {
		reg := demo.NewRegistry(nil)
		c, err := reg.Contract()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error assembling contract: %v\n", err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(c.Document(), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling contract: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

func init() {
	rootCmd.AddCommand(specCmd)
}
