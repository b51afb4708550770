package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"coordash/internal"
	"coordash/internal/config"
	"coordash/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	verbose bool
	asJSON  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "coordash",
		Short:         "Inspect the coordination report sheets from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log fetch details to stderr")
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of tables")

	rootCmd.AddCommand(
		newViewsCmd(opts),
		newFetchCmd(opts),
		newQueryCmd(opts),
		newOptionsCmd(opts),
		newNormalizeCmd(opts),
	)
	return rootCmd
}

// withContainer builds the application from the environment, runs fn and
// releases it again
func withContainer(ctx context.Context, opts *rootOptions, fn func(*container.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := internal.LogLevelWarn
	if opts.verbose {
		level = internal.LogLevelDebug
	}
	c, err := container.New(cfg, internal.NewLogger(level, "console"))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.Shutdown(shutdownCtx)
	}()

	return fn(c)
}
