package flagdemo

import (
	"github.com/alessio/shellescape"

	"github.com/flagops/demo-infra-definitions/apps/flagdemo"
	"github.com/flagops/demo-infra-definitions/common/config"
	"github.com/flagops/demo-infra-definitions/common/utils"
	resourcesAws "github.com/flagops/demo-infra-definitions/resources/aws"
	"github.com/flagops/demo-infra-definitions/resources/aws/appconfig"
	"github.com/flagops/demo-infra-definitions/resources/aws/cloudwatch"
	"github.com/flagops/demo-infra-definitions/resources/aws/ec2"
	"github.com/flagops/demo-infra-definitions/resources/aws/ecr"
	"github.com/flagops/demo-infra-definitions/resources/aws/ecs"
	"github.com/flagops/demo-infra-definitions/resources/aws/iam"

	"github.com/pulumi/pulumi-command/sdk/go/command/local"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

func Run(ctx *pulumi.Context) error {
	return run(ctx)
}

func run(ctx *pulumi.Context, options ...Option) error {
	params, err := NewParams(options...)
	if err != nil {
		return err
	}

	awsEnv, err := resourcesAws.NewEnvironment(ctx)
	if err != nil {
		return err
	}

	if err := validateImageTags(awsEnv.GetCommonEnvironment()); err != nil {
		return err
	}

	network, err := ec2.NewNetwork(awsEnv, "net", awsEnv.AppPort())
	if err != nil {
		return err
	}

	ecsCluster, err := ecs.CreateEcsCluster(awsEnv, "flagdemo")
	if err != nil {
		return err
	}

	delivery, err := appconfig.NewConfigDelivery(awsEnv, "flagdemo")
	if err != nil {
		return err
	}

	roles, err := iam.NewTaskRoles(awsEnv, "flagdemo", delivery.ResourceArns())
	if err != nil {
		return err
	}

	logGroup, err := cloudwatch.NewLogGroup(awsEnv, "flagdemo")
	if err != nil {
		return err
	}

	repo, err := ecr.NewRepository(awsEnv, "app")
	if err != nil {
		return err
	}

	appImage, err := ecr.BuildAndPushImage(awsEnv, "app", repo, params.BuildContext, params.Dockerfile)
	if err != nil {
		return err
	}

	// The task only starts once the initial flag document is deployed,
	// otherwise the agent sidecar serves an empty profile.
	app, err := flagdemo.FargateAppDefinition(
		awsEnv,
		ecsCluster.Arn,
		network,
		roles,
		appImage,
		logGroup,
		utils.PulumiDependsOn(delivery.Deployment),
	)
	if err != nil {
		return err
	}

	if awsEnv.HealthProbe() {
		probeCmd := app.URL.ApplyT(func(url string) string {
			return "curl --fail --silent --retry 10 --retry-delay 15 --retry-all-errors " + shellescape.Quote(url+"/health")
		}).(pulumi.StringOutput)

		// The image tag is usually `latest`, so the image name alone does
		// not change on a rebuild. Hashing the Dockerfile re-runs the probe
		// when the image definition changes.
		dockerfileHash, err := utils.FileHash(params.Dockerfile)
		if err != nil {
			return err
		}

		_, err = local.NewCommand(ctx, awsEnv.Namer.ResourceName("health-probe"), &local.CommandArgs{
			Create:   probeCmd,
			Triggers: pulumi.Array{appImage.ImageName, pulumi.String(dockerfileHash)},
		}, utils.PulumiDependsOn(app), awsEnv.WithProviders(config.ProviderCommand))
		if err != nil {
			return err
		}
	}

	ctx.Export("appUrl", app.URL)
	ctx.Export("healthUrl", pulumi.Sprintf("%s/health", app.URL))
	ctx.Export("configUrl", pulumi.Sprintf("%s/config", app.URL))
	ctx.Export("usersUrl", pulumi.Sprintf("%s/users", app.URL))
	ctx.Export("ecsClusterArn", ecsCluster.Arn)
	ctx.Export("ecsClusterName", ecsCluster.Name)
	ctx.Export("ecsServiceName", app.ServiceName)
	ctx.Export("ecrRepositoryUrl", repo.RepositoryUrl)
	ctx.Export("logGroupName", logGroup.Name)
	ctx.Export("awsRegion", pulumi.String(awsEnv.Region()))
	ctx.Export("appconfigApplicationId", delivery.Application.ID())
	ctx.Export("appconfigEnvironmentId", delivery.Environment.EnvironmentId)
	ctx.Export("appconfigProfileId", delivery.Profile.ConfigurationProfileId)
	ctx.Export("appconfigStrategyId", delivery.Strategy.ID())

	return nil
}
