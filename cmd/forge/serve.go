package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lvsoft/service-kit/internal/demo"
	"github.com/lvsoft/service-kit/internal/logging"
	"github.com/lvsoft/service-kit/pkg/adapters/resthttp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the built-in demo service over HTTP",
	Long: `Starts the bundled demo service: its registered operations are projected
onto an HTTP router, with the contract served at ` + "`/api-docs/openapi.json`" + `
so forge call and forge repl can discover it.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		logger := logging.NewJSON(logging.Level(logLevel()))

		reg := demo.NewRegistry(logger)
		c, err := reg.Contract()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error assembling contract: %v\n", err)
			os.Exit(1)
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: resthttp.NewHandler(c, reg.Registry, resthttp.WithLogger(logger)),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("server listening", "addr", srv.Addr, "operations", reg.Len())
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("shutdown started", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "error", err)
				if err := srv.Close(); err != nil {
					logger.Error("server close failed", "error", err)
				}
			}
			logger.Info("server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
