package appconfig

import (
	"github.com/flagops/demo-infra-definitions/common/config"
	"github.com/flagops/demo-infra-definitions/flagconfig"
	"github.com/flagops/demo-infra-definitions/resources/aws"

	classicAppConfig "github.com/pulumi/pulumi-aws/sdk/v6/go/aws/appconfig"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// ConfigDelivery is the full AppConfig chain: application, environment,
// freeform JSON profile, the initial hosted version seeded from the default
// flag document, an all-at-once strategy, and the first deployment.
type ConfigDelivery struct {
	Application *classicAppConfig.Application
	Environment *classicAppConfig.Environment
	Profile     *classicAppConfig.ConfigurationProfile
	Strategy    *classicAppConfig.DeploymentStrategy
	Deployment  *classicAppConfig.Deployment
}

func NewConfigDelivery(e aws.Environment, name string, opts ...pulumi.ResourceOption) (*ConfigDelivery, error) {
	namer := e.Namer.WithPrefix(name)
	opts = append(opts, e.WithProviders(config.ProviderAWS))

	app, err := classicAppConfig.NewApplication(e.Ctx, namer.ResourceName("app"), &classicAppConfig.ApplicationArgs{
		Name:        pulumi.String(e.AppConfigApplicationName()),
		Description: pulumi.String("Feature flags for the flagdemo web app"),
	}, opts...)
	if err != nil {
		return nil, err
	}

	env, err := classicAppConfig.NewEnvironment(e.Ctx, namer.ResourceName("env"), &classicAppConfig.EnvironmentArgs{
		ApplicationId: app.ID(),
		Name:          pulumi.String(e.AppConfigEnvironmentName()),
	}, opts...)
	if err != nil {
		return nil, err
	}

	profile, err := classicAppConfig.NewConfigurationProfile(e.Ctx, namer.ResourceName("profile"), &classicAppConfig.ConfigurationProfileArgs{
		ApplicationId: app.ID(),
		Name:          pulumi.String(e.AppConfigProfileName()),
		LocationUri:   pulumi.String("hosted"),
		Type:          pulumi.StringPtr("AWS.Freeform"),
	}, opts...)
	if err != nil {
		return nil, err
	}

	initialVersion, err := classicAppConfig.NewHostedConfigurationVersion(e.Ctx, namer.ResourceName("initial-version"), &classicAppConfig.HostedConfigurationVersionArgs{
		ApplicationId:          app.ID(),
		ConfigurationProfileId: profile.ConfigurationProfileId,
		ContentType:            pulumi.String("application/json"),
		Content:                pulumi.String(flagconfig.Default().MustMarshalIndent()),
		Description:            pulumi.String("Initial flag document"),
	}, opts...)
	if err != nil {
		return nil, err
	}

	// Demo rollout: everything at once, no bake time. Production strategies
	// would grow gradually and keep a bake window for automatic rollback.
	strategy, err := classicAppConfig.NewDeploymentStrategy(e.Ctx, namer.ResourceName("strategy"), &classicAppConfig.DeploymentStrategyArgs{
		Name:                        e.CommonNamer.DisplayName(64, pulumi.String(name), pulumi.String("all-at-once")),
		DeploymentDurationInMinutes: pulumi.Int(0),
		FinalBakeTimeInMinutes:      pulumi.IntPtr(0),
		GrowthFactor:                pulumi.Float64(100),
		ReplicateTo:                 pulumi.String("NONE"),
	}, opts...)
	if err != nil {
		return nil, err
	}

	deployment, err := classicAppConfig.NewDeployment(e.Ctx, namer.ResourceName("deployment"), &classicAppConfig.DeploymentArgs{
		ApplicationId:          app.ID(),
		EnvironmentId:          env.EnvironmentId,
		ConfigurationProfileId: profile.ConfigurationProfileId,
		ConfigurationVersion:   pulumi.Sprintf("%d", initialVersion.VersionNumber),
		DeploymentStrategyId:   strategy.ID(),
		Description:            pulumi.String("Initial flag document rollout"),
	}, opts...)
	if err != nil {
		return nil, err
	}

	return &ConfigDelivery{
		Application: app,
		Environment: env,
		Profile:     profile,
		Strategy:    strategy,
		Deployment:  deployment,
	}, nil
}

// ResourceArns lists the ARNs the task role needs read access to. The
// configuration session targets a sub-resource of the environment, hence
// the wildcard entry.
func (c *ConfigDelivery) ResourceArns() pulumi.StringArray {
	return pulumi.StringArray{
		c.Application.Arn,
		c.Environment.Arn,
		c.Profile.Arn,
		pulumi.Sprintf("%s/configuration/*", c.Environment.Arn),
	}
}
