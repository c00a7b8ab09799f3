package ecs

import (
	"context"
	"errors"
	"fmt"
	"time"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	awsECS "github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/cenkalti/backoff/v4"
)

const (
	defaultStabilityInterval = 5 * time.Second
	maxStabilityChecks       = 120
)

type sdkAPI interface {
	UpdateService(ctx context.Context, params *awsECS.UpdateServiceInput, optFns ...func(*awsECS.Options)) (*awsECS.UpdateServiceOutput, error)
	DescribeServices(ctx context.Context, params *awsECS.DescribeServicesInput, optFns ...func(*awsECS.Options)) (*awsECS.DescribeServicesOutput, error)
	ListTasks(ctx context.Context, params *awsECS.ListTasksInput, optFns ...func(*awsECS.Options)) (*awsECS.ListTasksOutput, error)
	DescribeTasks(ctx context.Context, params *awsECS.DescribeTasksInput, optFns ...func(*awsECS.Options)) (*awsECS.DescribeTasksOutput, error)
}

// Client wraps the ECS SDK operations used by the deploy sequencing.
type Client struct {
	api sdkAPI

	stabilityInterval time.Duration
}

func NewClient(ctx context.Context, region string) (*Client, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx,
		awsConfig.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}
	return &Client{
		api:               awsECS.NewFromConfig(cfg),
		stabilityInterval: defaultStabilityInterval,
	}, nil
}

// ForceNewDeployment restarts every task of the service with the current
// task definition, picking up the freshly pushed image.
func (c *Client) ForceNewDeployment(ctx context.Context, cluster, service string) error {
	_, err := c.api.UpdateService(ctx, &awsECS.UpdateServiceInput{
		Cluster:            &cluster,
		Service:            &service,
		ForceNewDeployment: true,
	})
	if err != nil {
		return fmt.Errorf("forcing new deployment of %s/%s: %w", cluster, service, err)
	}
	return nil
}

// WaitServiceStable polls DescribeServices until the service reports a
// single deployment with every desired task running, or the bounded retry
// budget is exhausted.
func (c *Client) WaitServiceStable(ctx context.Context, cluster, service string) error {
	check := func() error {
		out, err := c.api.DescribeServices(ctx, &awsECS.DescribeServicesInput{
			Cluster:  &cluster,
			Services: []string{service},
		})
		if err != nil {
			return err
		}
		if len(out.Services) != 1 {
			return fmt.Errorf("service %s not found on cluster %s", service, cluster)
		}

		svc := out.Services[0]
		if len(svc.Deployments) != 1 {
			return fmt.Errorf("rollout in progress: %d active deployments", len(svc.Deployments))
		}
		if svc.RunningCount != svc.DesiredCount {
			return fmt.Errorf("running %d of %d tasks", svc.RunningCount, svc.DesiredCount)
		}
		return nil
	}

	return backoff.Retry(check, backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.stabilityInterval), maxStabilityChecks), ctx))
}

// GetTaskPrivateIP returns the private IP of the first task of the service,
// for diagnostics when the ALB target is unhealthy.
func (c *Client) GetTaskPrivateIP(ctx context.Context, cluster, service string) (string, error) {
	taskList, err := c.api.ListTasks(ctx, &awsECS.ListTasksInput{
		Cluster:     &cluster,
		ServiceName: &service,
	})
	if err != nil {
		return "", err
	}
	if len(taskList.TaskArns) < 1 {
		return "", errors.New("no task arn found")
	}

	taskArn := taskList.TaskArns[0]
	taskOutput, err := c.api.DescribeTasks(ctx, &awsECS.DescribeTasksInput{
		Cluster: &cluster,
		Tasks:   []string{taskArn},
	})
	if err != nil {
		return "", err
	}
	if len(taskOutput.Tasks) < 1 {
		return "", fmt.Errorf("no task found on cluster %s with arn %s", cluster, taskArn)
	}
	if len(taskOutput.Tasks[0].Containers) < 1 {
		return "", fmt.Errorf("no container found on cluster %s with arn %s", cluster, taskArn)
	}
	if len(taskOutput.Tasks[0].Containers[0].NetworkInterfaces) < 1 {
		return "", fmt.Errorf("no network interface found on cluster %s with arn %s", cluster, taskArn)
	}
	return *taskOutput.Tasks[0].Containers[0].NetworkInterfaces[0].PrivateIpv4Address, nil
}
