package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pulumi/pulumi/sdk/v3/go/auto/optup"
	"github.com/spf13/cobra"

	ecsClient "github.com/flagops/demo-infra-definitions/resources/aws/ecs"
)

func newDeployCmd(opts *rootOptions) *cobra.Command {
	var skipRedeploy bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Provision the infrastructure and roll out the app image",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeploy(cmd.Context(), opts, skipRedeploy)
		},
	}

	cmd.Flags().BoolVar(&skipRedeploy, "skip-redeploy", false, "skip the forced ECS redeploy after the update")

	return cmd
}

func runDeploy(ctx context.Context, opts *rootOptions, skipRedeploy bool) error {
	if err := checkDeployPrereqs(ctx, true); err != nil {
		return err
	}

	stack, err := selectStack(ctx, opts)
	if err != nil {
		return err
	}

	slog.Info("updating infrastructure", "stack", opts.stackName, "env", opts.envName)
	res, err := stack.Up(ctx, optup.ProgressStreams(os.Stdout))
	if err != nil {
		return fmt.Errorf("stack update failed: %w", err)
	}

	region, err := requireOutput(res.Outputs, "awsRegion")
	if err != nil {
		return err
	}
	clusterArn, err := requireOutput(res.Outputs, "ecsClusterArn")
	if err != nil {
		return err
	}
	serviceName, err := requireOutput(res.Outputs, "ecsServiceName")
	if err != nil {
		return err
	}

	if !skipRedeploy {
		client, err := ecsClient.NewClient(ctx, region)
		if err != nil {
			return err
		}

		// The image tag is usually `latest`, so an unchanged task definition
		// does not pick up a new push without a forced redeploy.
		slog.Info("forcing service redeploy", "cluster", clusterArn, "service", serviceName)
		if err := client.ForceNewDeployment(ctx, clusterArn, serviceName); err != nil {
			return err
		}

		slog.Info("waiting for service to stabilize")
		if err := client.WaitServiceStable(ctx, clusterArn, serviceName); err != nil {
			if ip, ipErr := client.GetTaskPrivateIP(ctx, clusterArn, serviceName); ipErr == nil {
				slog.Error("service task reachable for debugging", "privateIp", ip)
			}
			return fmt.Errorf("service did not stabilize: %w", err)
		}
	}

	appURL, err := requireOutput(res.Outputs, "appUrl")
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Deployment complete. The app may need a minute to pass ALB health checks.")
	fmt.Printf("  Home:   %s/\n", appURL)
	fmt.Printf("  Health: %s/health\n", appURL)
	fmt.Printf("  Config: %s/config\n", appURL)
	fmt.Printf("  Users:  %s/users\n", appURL)

	return nil
}
