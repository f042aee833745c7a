package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lvsoft/service-kit/internal/presentation/tui"
	"github.com/lvsoft/service-kit/internal/shell"
	"github.com/lvsoft/service-kit/internal/shell/history"
	"github.com/lvsoft/service-kit/pkg/client"
	"github.com/lvsoft/service-kit/pkg/command"
	"github.com/lvsoft/service-kit/pkg/contract"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Open an interactive shell against the target service",
	Long: `Fetches the target service's contract and opens a line-editing shell over
the derived command namespace: history (up/down and ctrl-r reverse search),
tab completion for commands and flags, and asynchronous request dispatch so
the prompt stays responsive while a call is in flight.`,
	Run: func(cmd *cobra.Command, args []string) {
		base := baseURL()
		logger := newLogger()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c, err := contract.Fetch(ctx, base, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching contract from %s: %v\n", base, err)
			os.Exit(1)
		}
		tree, err := command.Build(c)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building command namespace: %v\n", err)
			os.Exit(1)
		}

		store := historyStore(cmd)
		defer store.Close()
		lines, err := store.Load(ctx)
		if err != nil {
			logger.Warn("history load failed", "error", err)
		}

		tui.PrintBanner(os.Stdout)

		sh := shell.New(shell.Config{
			BaseURL:        base,
			Tree:           tree,
			Executor:       client.New(client.WithToken(apiToken()), client.WithLogger(logger)),
			History:        history.NewBuffer(lines),
			Store:          store,
			Logger:         logger,
			RenderMarkdown: tui.NewMarkdownRenderer(),
		})
		if err := sh.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().String("history", "", "History file (default ~/.forge_history.json)")
	replCmd.Flags().String("history-redis", "", "Redis address for shared history (overrides --history)")
}

// historyStore picks the persistence backend for shell history: Redis when
// an address is given, a JSON file otherwise.
func historyStore(cmd *cobra.Command) history.Store {
	addr, _ := cmd.Flags().GetString("history-redis")
	if addr == "" {
		addr = fileConfig().HistoryRedis
	}
	if addr != "" {
		return history.NewRedisStore(addr)
	}

	path, _ := cmd.Flags().GetString("history")
	if path == "" {
		path = fileConfig().History
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return history.NopStore{}
		}
		path = filepath.Join(home, ".forge_history.json")
	}
	return history.NewFileStore(path)
}
