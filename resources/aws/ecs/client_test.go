package ecs

import (
	"context"
	"testing"
	"time"

	awsECS "github.com/aws/aws-sdk-go-v2/service/ecs"
	ecsTypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	updateCalls  []*awsECS.UpdateServiceInput
	describeSeqs []*awsECS.DescribeServicesOutput
	describeIdx  int

	listTasksOut     *awsECS.ListTasksOutput
	describeTasksOut *awsECS.DescribeTasksOutput
}

func (s *stubAPI) UpdateService(_ context.Context, params *awsECS.UpdateServiceInput, _ ...func(*awsECS.Options)) (*awsECS.UpdateServiceOutput, error) {
	s.updateCalls = append(s.updateCalls, params)
	return &awsECS.UpdateServiceOutput{}, nil
}

func (s *stubAPI) DescribeServices(_ context.Context, _ *awsECS.DescribeServicesInput, _ ...func(*awsECS.Options)) (*awsECS.DescribeServicesOutput, error) {
	out := s.describeSeqs[s.describeIdx]
	if s.describeIdx < len(s.describeSeqs)-1 {
		s.describeIdx++
	}
	return out, nil
}

func (s *stubAPI) ListTasks(_ context.Context, _ *awsECS.ListTasksInput, _ ...func(*awsECS.Options)) (*awsECS.ListTasksOutput, error) {
	return s.listTasksOut, nil
}

func (s *stubAPI) DescribeTasks(_ context.Context, _ *awsECS.DescribeTasksInput, _ ...func(*awsECS.Options)) (*awsECS.DescribeTasksOutput, error) {
	return s.describeTasksOut, nil
}

func serviceState(deployments, running, desired int32) *awsECS.DescribeServicesOutput {
	deps := make([]ecsTypes.Deployment, deployments)
	return &awsECS.DescribeServicesOutput{
		Services: []ecsTypes.Service{
			{
				Deployments:  deps,
				RunningCount: running,
				DesiredCount: desired,
			},
		},
	}
}

func TestForceNewDeployment(t *testing.T) {
	stub := &stubAPI{}
	client := &Client{api: stub, stabilityInterval: time.Millisecond}

	err := client.ForceNewDeployment(context.Background(), "my-cluster", "my-service")
	require.NoError(t, err)

	require.Len(t, stub.updateCalls, 1)
	assert.Equal(t, "my-cluster", *stub.updateCalls[0].Cluster)
	assert.Equal(t, "my-service", *stub.updateCalls[0].Service)
	assert.True(t, stub.updateCalls[0].ForceNewDeployment)
}

func TestWaitServiceStable(t *testing.T) {
	t.Run("converges after rollout", func(t *testing.T) {
		stub := &stubAPI{
			describeSeqs: []*awsECS.DescribeServicesOutput{
				serviceState(2, 1, 2),
				serviceState(1, 1, 2),
				serviceState(1, 2, 2),
			},
		}
		client := &Client{api: stub, stabilityInterval: time.Millisecond}

		err := client.WaitServiceStable(context.Background(), "c", "s")
		require.NoError(t, err)
		assert.Equal(t, 2, stub.describeIdx)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		stub := &stubAPI{
			describeSeqs: []*awsECS.DescribeServicesOutput{
				serviceState(2, 0, 2),
			},
		}
		client := &Client{api: stub, stabilityInterval: 10 * time.Millisecond}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		err := client.WaitServiceStable(ctx, "c", "s")
		require.Error(t, err)
	})

	t.Run("missing service", func(t *testing.T) {
		stub := &stubAPI{
			describeSeqs: []*awsECS.DescribeServicesOutput{
				{Services: []ecsTypes.Service{}},
			},
		}
		client := &Client{api: stub, stabilityInterval: time.Millisecond}

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := client.WaitServiceStable(ctx, "c", "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestGetTaskPrivateIP(t *testing.T) {
	ip := "10.0.1.23"
	arn := "arn:aws:ecs:us-east-1:123456789012:task/c/abc"
	stub := &stubAPI{
		listTasksOut: &awsECS.ListTasksOutput{TaskArns: []string{arn}},
		describeTasksOut: &awsECS.DescribeTasksOutput{
			Tasks: []ecsTypes.Task{
				{
					Containers: []ecsTypes.Container{
						{
							NetworkInterfaces: []ecsTypes.NetworkInterface{
								{PrivateIpv4Address: &ip},
							},
						},
					},
				},
			},
		},
	}
	client := &Client{api: stub, stabilityInterval: time.Millisecond}

	got, err := client.GetTaskPrivateIP(context.Background(), "c", "s")
	require.NoError(t, err)
	assert.Equal(t, ip, got)

	stub.listTasksOut = &awsECS.ListTasksOutput{TaskArns: nil}
	_, err = client.GetTaskPrivateIP(context.Background(), "c", "s")
	require.Error(t, err)
}
