package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/lvsoft/service-kit/internal/config"
	"github.com/lvsoft/service-kit/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Contract-driven client and server for HTTP APIs",
	Long: `Forge compiles a service's OpenAPI contract into a command namespace.
Every (path, method) pair of the contract becomes a dotted command such as
"users.list.get" whose flags mirror the operation's parameters. The same
contract drives a one-shot client, an interactive shell, and the REST and
MCP server projections.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("url", "", "Base URL of the target service (defaults to API_URL or http://localhost:8080)")
	rootCmd.PersistentFlags().String("token", "", "Bearer token for authenticated calls (defaults to FORGE_API_TOKEN)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.forge.yaml)")
}

var (
	cfgOnce sync.Once
	cfg     *config.Config
)

// globalFlag reads a root persistent flag. Reading from rootCmd directly
// keeps the helpers working for the call command, which disables cobra's
// flag parsing and re-seeds these values by hand.
func globalFlag(name string) string {
	v, _ := rootCmd.PersistentFlags().GetString(name)
	return v
}

// fileConfig loads the optional config file once. It only supplies defaults:
// flag and environment values take precedence at every call site.
func fileConfig() *config.Config {
	cfgOnce.Do(func() {
		path := globalFlag("config")
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			cfg = &config.Config{}
		}
	})
	return cfg
}

func baseURL() string {
	if v := globalFlag("url"); v != "" {
		return v
	}
	if v := os.Getenv("API_URL"); v != "" {
		return v
	}
	if v := fileConfig().URL; v != "" {
		return v
	}
	return "http://localhost:8080"
}

func apiToken() string {
	if v := globalFlag("token"); v != "" {
		return v
	}
	if v := os.Getenv("FORGE_API_TOKEN"); v != "" {
		return v
	}
	return fileConfig().Token
}

func logLevel() string {
	if v := globalFlag("log-level"); v != "" {
		return v
	}
	return fileConfig().LogLevel
}

func newLogger() *slog.Logger {
	return logging.New(logging.Level(logLevel()))
}
