package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pulumi/pulumi/sdk/v3/go/auto/optdestroy"
	"github.com/spf13/cobra"
)

func newDestroyCmd(opts *rootOptions) *cobra.Command {
	var keepStack bool

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Tear down every resource of the stack",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDestroy(cmd.Context(), opts, !keepStack)
		},
	}

	cmd.Flags().BoolVar(&keepStack, "keep-stack", false, "keep the emptied stack and its history after the teardown")

	return cmd
}

func runDestroy(ctx context.Context, opts *rootOptions, removeStack bool) error {
	if err := checkDeployPrereqs(ctx, false); err != nil {
		return err
	}

	stack, err := selectStack(ctx, opts)
	if err != nil {
		return err
	}

	slog.Info("destroying infrastructure", "stack", opts.stackName)
	if _, err := stack.Destroy(ctx, optdestroy.ProgressStreams(os.Stdout)); err != nil {
		return fmt.Errorf("stack destroy failed: %w", err)
	}

	if removeStack {
		if err := stack.Workspace().RemoveStack(ctx, opts.stackName); err != nil {
			return fmt.Errorf("removing stack: %w", err)
		}
		slog.Info("stack removed", "stack", opts.stackName)
	}

	fmt.Println("All resources destroyed.")
	return nil
}
