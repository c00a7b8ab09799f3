package ecs

import (
	"fmt"

	"github.com/flagops/demo-infra-definitions/common/config"
	"github.com/flagops/demo-infra-definitions/common/utils"
	"github.com/flagops/demo-infra-definitions/resources/aws"

	classicECS "github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ecs"
	"github.com/pulumi/pulumi-awsx/sdk/v2/go/awsx/awsx"
	"github.com/pulumi/pulumi-awsx/sdk/v2/go/awsx/ecs"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const (
	// AgentContainerName is the AppConfig agent sidecar; the app reaches it
	// over loopback on AgentPort.
	AgentContainerName = "appconfig-agent"
	AgentPort          = 2772
)

// FargateTaskDefinitionWithAgent builds a task definition from the given app
// containers plus the AppConfig agent sidecar.
func FargateTaskDefinitionWithAgent(
	e aws.Environment,
	name string,
	family pulumi.StringInput,
	containers map[string]ecs.TaskDefinitionContainerDefinitionArgs,
	executionRoleArn, taskRoleArn pulumi.StringInput,
	logGroupName pulumi.StringInput,
	opts ...pulumi.ResourceOption,
) (*ecs.FargateTaskDefinition, error) {
	containers[AgentContainerName] = *AppConfigAgentContainerDefinition(e, logGroupName)

	return ecs.NewFargateTaskDefinition(e.Ctx, e.Namer.ResourceName(name), &ecs.FargateTaskDefinitionArgs{
		Containers: containers,
		Cpu:        pulumi.StringPtr(fmt.Sprintf("%d", e.ECSTaskCPU())),
		Memory:     pulumi.StringPtr(fmt.Sprintf("%d", e.ECSTaskMemory())),
		ExecutionRole: &awsx.DefaultRoleWithPolicyArgs{
			RoleArn: executionRoleArn.ToStringOutput().ToStringPtrOutput(),
		},
		TaskRole: &awsx.DefaultRoleWithPolicyArgs{
			RoleArn: taskRoleArn.ToStringOutput().ToStringPtrOutput(),
		},
		Family: e.CommonNamer.DisplayName(255, family),
	}, utils.MergeOptions(opts, e.WithProviders(config.ProviderAWS, config.ProviderAWSX))...)
}

// FargateService runs a task definition behind the given load balancer wiring.
func FargateService(
	e aws.Environment,
	name string,
	clusterArn pulumi.StringInput,
	taskDefArn pulumi.StringInput,
	subnets pulumi.StringArrayInput,
	securityGroups pulumi.StringArrayInput,
	lbs classicECS.ServiceLoadBalancerArrayInput,
	opts ...pulumi.ResourceOption,
) (*ecs.FargateService, error) {
	return ecs.NewFargateService(e.Ctx, e.Namer.ResourceName(name), &ecs.FargateServiceArgs{
		Cluster:      clusterArn,
		Name:         e.CommonNamer.DisplayName(255, pulumi.String(name)),
		DesiredCount: pulumi.IntPtr(e.ECSDesiredCount()),
		NetworkConfiguration: &classicECS.ServiceNetworkConfigurationArgs{
			AssignPublicIp: pulumi.BoolPtr(e.ECSAssignPublicIP()),
			SecurityGroups: securityGroups,
			Subnets:        subnets,
		},
		LoadBalancers:             lbs,
		TaskDefinition:            taskDefArn,
		EnableExecuteCommand:      pulumi.BoolPtr(true),
		ContinueBeforeSteadyState: pulumi.BoolPtr(true),
	}, utils.MergeOptions(opts, e.WithProviders(config.ProviderAWS, config.ProviderAWSX))...)
}

// AppConfigAgentContainerDefinition is the sidecar serving the flag document
// over loopback HTTP. PREFETCH_LIST makes the agent start a configuration
// session before the app's first poll.
func AppConfigAgentContainerDefinition(e aws.Environment, logGroupName pulumi.StringInput) *ecs.TaskDefinitionContainerDefinitionArgs {
	return &ecs.TaskDefinitionContainerDefinitionArgs{
		Name:      pulumi.String(AgentContainerName),
		Image:     pulumi.String(e.AppConfigAgentImage()),
		Cpu:       pulumi.IntPtr(64),
		Memory:    pulumi.IntPtr(64),
		Essential: pulumi.BoolPtr(true),
		PortMappings: ecs.TaskDefinitionPortMappingArray{
			ecs.TaskDefinitionPortMappingArgs{
				ContainerPort: pulumi.Int(AgentPort),
				HostPort:      pulumi.Int(AgentPort),
				Protocol:      pulumi.StringPtr("tcp"),
			},
		},
		Environment: ecs.TaskDefinitionKeyValuePairArray{
			ecs.TaskDefinitionKeyValuePairArgs{
				Name: pulumi.StringPtr("PREFETCH_LIST"),
				Value: pulumi.Sprintf("/applications/%s/environments/%s/configurations/%s",
					e.AppConfigApplicationName(), e.AppConfigEnvironmentName(), e.AppConfigProfileName()),
			},
			ecs.TaskDefinitionKeyValuePairArgs{
				Name:  pulumi.StringPtr("POLL_INTERVAL"),
				Value: pulumi.Sprintf("%d", e.AppPollIntervalSeconds()),
			},
		},
		LogConfiguration: GetAwsLogsConfiguration(e, logGroupName, AgentContainerName),
	}
}

// GetAwsLogsConfiguration routes container logs to the stack's log group.
func GetAwsLogsConfiguration(e aws.Environment, logGroupName pulumi.StringInput, streamPrefix string) ecs.TaskDefinitionLogConfigurationPtrInput {
	return ecs.TaskDefinitionLogConfigurationArgs{
		LogDriver: pulumi.String("awslogs"),
		Options: pulumi.StringMap{
			"awslogs-group":         logGroupName,
			"awslogs-region":        pulumi.String(e.Region()),
			"awslogs-stream-prefix": pulumi.String(streamPrefix),
		},
	}
}
