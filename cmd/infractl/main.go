package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	stackName string
	envName   string
	envFile   string
	workDir   string
}

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "infractl",
		Short:         "Deploy and operate the flagdemo stack",
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.stackName, "stack", "flagdemo", "pulumi stack name")
	root.PersistentFlags().StringVar(&opts.envName, "env", "aws/dev", "target environment (aws/dev or aws/prod)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "optional YAML file with stack configuration overrides")
	root.PersistentFlags().StringVar(&opts.workDir, "work-dir", ".", "directory containing the pulumi program")

	root.AddCommand(
		newDeployCmd(opts),
		newDestroyCmd(opts),
		newUpdateConfigCmd(opts),
	)

	return root
}
