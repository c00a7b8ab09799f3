package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// checkDeployPrereqs fails fast before any resource is touched: the pulumi
// and docker binaries must be present, AWS credentials must resolve to an
// identity, and those credentials must be able to obtain an ECR login.
func checkDeployPrereqs(ctx context.Context, needDocker bool) error {
	if _, err := exec.LookPath("pulumi"); err != nil {
		return fmt.Errorf("pulumi binary not found in PATH: %w", err)
	}
	if needDocker {
		if _, err := exec.LookPath("docker"); err != nil {
			return fmt.Errorf("docker binary not found in PATH: %w", err)
		}
	}

	cfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("loading AWS configuration: %w", err)
	}

	identity, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return fmt.Errorf("AWS credentials not usable: %w", err)
	}
	slog.Info("using AWS identity", "account", *identity.Account, "arn", *identity.Arn)

	if needDocker {
		if _, err := ecr.NewFromConfig(cfg).GetAuthorizationToken(ctx, &ecr.GetAuthorizationTokenInput{}); err != nil {
			return fmt.Errorf("cannot obtain ECR authorization token: %w", err)
		}
	}

	return nil
}
