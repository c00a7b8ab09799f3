package flagdemo

import (
	"github.com/flagops/demo-infra-definitions/common/config"
	"github.com/flagops/demo-infra-definitions/common/utils"
	"github.com/flagops/demo-infra-definitions/components"
	"github.com/flagops/demo-infra-definitions/components/webapp"
	"github.com/flagops/demo-infra-definitions/resources/aws"
	"github.com/flagops/demo-infra-definitions/resources/aws/ec2"
	ecsResources "github.com/flagops/demo-infra-definitions/resources/aws/ecs"
	"github.com/flagops/demo-infra-definitions/resources/aws/iam"

	classicCloudwatch "github.com/pulumi/pulumi-aws/sdk/v6/go/aws/cloudwatch"
	classicECS "github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ecs"
	classicLB "github.com/pulumi/pulumi-aws/sdk/v6/go/aws/lb"
	"github.com/pulumi/pulumi-awsx/sdk/v2/go/awsx/ecs"
	"github.com/pulumi/pulumi-awsx/sdk/v2/go/awsx/lb"
	docker "github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const appContainerName = "flagdemo"

// FargateAppDefinition deploys the demo app behind an internet-facing ALB,
// with the AppConfig agent sidecar injected into the task definition.
func FargateAppDefinition(
	e aws.Environment,
	clusterArn pulumi.StringInput,
	network *ec2.Network,
	roles *iam.TaskRoles,
	appImage *docker.Image,
	logGroup *classicCloudwatch.LogGroup,
	opts ...pulumi.ResourceOption,
) (*webapp.WebApp, error) {
	namer := e.Namer.WithPrefix("flagdemo").WithPrefix("fg")

	return components.NewComponent(*e.CommonEnvironment, namer.ResourceName("grp"), func(comp *webapp.WebApp) error {
		opts = append(opts, pulumi.Parent(comp))

		alb, err := lb.NewApplicationLoadBalancer(e.Ctx, namer.ResourceName("lb"), &lb.ApplicationLoadBalancerArgs{
			Name:           e.CommonNamer.DisplayName(32, pulumi.String("flagdemo"), pulumi.String("fg")),
			SubnetIds:      network.SubnetIDs(),
			Internal:       pulumi.BoolPtr(false),
			SecurityGroups: pulumi.StringArray{network.AlbSecurityGroup.ID()},
			DefaultTargetGroup: &lb.TargetGroupArgs{
				Name:       e.CommonNamer.DisplayName(32, pulumi.String("flagdemo"), pulumi.String("tg")),
				Port:       pulumi.IntPtr(e.AppPort()),
				Protocol:   pulumi.StringPtr("HTTP"),
				TargetType: pulumi.StringPtr("ip"),
				VpcId:      network.Vpc.ID(),
				HealthCheck: &classicLB.TargetGroupHealthCheckArgs{
					Path:               pulumi.StringPtr("/health"),
					Matcher:            pulumi.StringPtr("200"),
					Interval:           pulumi.IntPtr(15),
					HealthyThreshold:   pulumi.IntPtr(2),
					UnhealthyThreshold: pulumi.IntPtr(3),
				},
			},
			Listener: &lb.ListenerArgs{
				Port:     pulumi.IntPtr(80),
				Protocol: pulumi.StringPtr("HTTP"),
			},
		}, utils.MergeOptions(opts, e.WithProviders(config.ProviderAWS, config.ProviderAWSX))...)
		if err != nil {
			return err
		}

		appContainer := ecs.TaskDefinitionContainerDefinitionArgs{
			Name:      pulumi.String(appContainerName),
			Image:     appImage.ImageName,
			Cpu:       pulumi.IntPtr(0),
			Essential: pulumi.BoolPtr(true),
			Environment: ecs.TaskDefinitionKeyValuePairArray{
				ecs.TaskDefinitionKeyValuePairArgs{
					Name:  pulumi.StringPtr("PORT"),
					Value: pulumi.Sprintf("%d", e.AppPort()),
				},
				ecs.TaskDefinitionKeyValuePairArgs{
					Name:  pulumi.StringPtr("APPCONFIG_APPLICATION"),
					Value: pulumi.StringPtr(e.AppConfigApplicationName()),
				},
				ecs.TaskDefinitionKeyValuePairArgs{
					Name:  pulumi.StringPtr("APPCONFIG_ENVIRONMENT"),
					Value: pulumi.StringPtr(e.AppConfigEnvironmentName()),
				},
				ecs.TaskDefinitionKeyValuePairArgs{
					Name:  pulumi.StringPtr("APPCONFIG_PROFILE"),
					Value: pulumi.StringPtr(e.AppConfigProfileName()),
				},
				ecs.TaskDefinitionKeyValuePairArgs{
					Name:  pulumi.StringPtr("FLAG_POLL_INTERVAL"),
					Value: pulumi.Sprintf("%d", e.AppPollIntervalSeconds()),
				},
			},
			DependsOn: ecs.TaskDefinitionContainerDependencyArray{
				ecs.TaskDefinitionContainerDependencyArgs{
					ContainerName: pulumi.String(ecsResources.AgentContainerName),
					Condition:     pulumi.String("START"),
				},
			},
			PortMappings: ecs.TaskDefinitionPortMappingArray{
				ecs.TaskDefinitionPortMappingArgs{
					ContainerPort: pulumi.IntPtr(e.AppPort()),
					HostPort:      pulumi.IntPtr(e.AppPort()),
					Protocol:      pulumi.StringPtr("tcp"),
				},
			},
			LogConfiguration: ecsResources.GetAwsLogsConfiguration(e, logGroup.Name, "app"),
		}

		taskDef, err := ecsResources.FargateTaskDefinitionWithAgent(
			e,
			"flagdemo",
			pulumi.String("flagdemo-fg"),
			map[string]ecs.TaskDefinitionContainerDefinitionArgs{appContainerName: appContainer},
			roles.ExecutionRole.Arn,
			roles.TaskRole.Arn,
			logGroup.Name,
			opts...,
		)
		if err != nil {
			return err
		}

		svc, err := ecsResources.FargateService(
			e,
			"flagdemo",
			clusterArn,
			taskDef.TaskDefinition.Arn(),
			network.SubnetIDs(),
			pulumi.StringArray{network.TaskSecurityGroup.ID()},
			classicECS.ServiceLoadBalancerArray{
				&classicECS.ServiceLoadBalancerArgs{
					ContainerName:  pulumi.String(appContainerName),
					ContainerPort:  pulumi.Int(e.AppPort()),
					TargetGroupArn: alb.DefaultTargetGroup.Arn(),
				},
			},
			opts...,
		)
		if err != nil {
			return err
		}

		comp.URL = pulumi.Sprintf("http://%s", alb.LoadBalancer.DnsName())
		comp.ClusterArn = clusterArn.ToStringOutput()
		comp.ServiceName = svc.Service.Name()
		comp.LogGroupName = logGroup.Name

		return nil
	}, opts...)
}
