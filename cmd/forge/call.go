package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvsoft/service-kit/pkg/client"
	"github.com/lvsoft/service-kit/pkg/command"
	"github.com/lvsoft/service-kit/pkg/contract"
)

var callCmd = &cobra.Command{
	Use:   "call <command> [--param value ...] [body]",
	Short: "Invoke one API operation and print the response",
	Long: `Fetches the target service's contract, resolves <command> in the derived
namespace (for example "v1.users.get"), binds the remaining flags to the
operation's parameters and performs the request.

The response payload goes to stdout; diagnostics go to stderr. The exit code
is 0 for a 2xx response and non-zero otherwise, so calls compose in scripts.`,
	// Flag parsing is disabled: everything after <command> belongs to the
	// remote operation, not to forge.
	DisableFlagParsing: true,
	Run:                runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)
}

func runCall(cmd *cobra.Command, args []string) {
	globals, rest := extractGlobals(args)
	for _, a := range rest {
		if a == "-h" || a == "--help" {
			cmd.Help()
			return
		}
	}
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "usage: forge call <command> [--param value ...] [body]")
		os.Exit(2)
	}

	// Re-seed the persistent flags from the hand-extracted values so the
	// shared helpers (and their config-file fallbacks) see them.
	for name, value := range map[string]string{
		"config":    globals.config,
		"log-level": globals.logLevel,
		"url":       globals.url,
		"token":     globals.token,
	} {
		if value != "" {
			rootCmd.PersistentFlags().Set(name, value)
		}
	}

	logger := newLogger()
	base := baseURL()
	token := apiToken()
	ctx := cmd.Context()

	c, err := contract.Fetch(ctx, base, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	tree, err := command.Build(c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	op, err := tree.Resolve(rest[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	flags, positional, err := command.ParseTokens(rest[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	rawBody := ""
	if len(positional) > 0 {
		rawBody = positional[0]
	}

	bound, err := command.Bind(op, flags, rawBody)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	for _, w := range bound.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	exec := client.New(client.WithToken(token), client.WithLogger(logger))
	res, err := exec.Do(ctx, base, bound)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(res.Render())
	if !res.OK() {
		fmt.Fprintf(os.Stderr, "Error: %v\n", res.Err())
		os.Exit(1)
	}
}

// globalFlags are the root persistent flags, recognized by hand because the
// call command disables cobra's flag parsing.
type globalFlags struct {
	url      string
	token    string
	logLevel string
	config   string
}

func extractGlobals(args []string) (globalFlags, []string) {
	var g globalFlags
	known := map[string]*string{
		"--url":       &g.url,
		"--token":     &g.token,
		"--log-level": &g.logLevel,
		"--config":    &g.config,
	}

	var rest []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		matched := false
		for name, dst := range known {
			if a == name && i+1 < len(args) {
				*dst = args[i+1]
				i++
				matched = true
				break
			}
			if len(a) > len(name) && a[:len(name)+1] == name+"=" {
				*dst = a[len(name)+1:]
				matched = true
				break
			}
		}
		if !matched {
			rest = append(rest, a)
		}
	}
	return g, rest
}
