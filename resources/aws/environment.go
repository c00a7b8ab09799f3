package aws

import (
	"github.com/flagops/demo-infra-definitions/common/config"
	"github.com/flagops/demo-infra-definitions/common/namer"

	sdkaws "github.com/pulumi/pulumi-aws/sdk/v6/go/aws"
	"github.com/pulumi/pulumi-random/sdk/v4/go/random"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	sdkconfig "github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

const (
	awsConfigNamespace = "aws"
	awsRegionParamName = "region"

	// Networking
	InfraVPCCIDRParamName           = "aws/vpcCIDR"
	InfraAvailabilityZonesParamName = "aws/availabilityZones"

	// ECS
	InfraEcsTaskCPUParamName        = "aws/ecs/taskCPU"
	InfraEcsTaskMemoryParamName     = "aws/ecs/taskMemory"
	InfraEcsDesiredCountParamName   = "aws/ecs/desiredCount"
	InfraEcsAssignPublicIPParamName = "aws/ecs/assignPublicIP"

	// App surface
	InfraAppPortParamName          = "aws/appPort"
	InfraEcrRepositoryParamName    = "aws/ecrRepository"
	InfraLogRetentionDaysParamName = "aws/logRetentionDays"
	InfraHealthProbeParamName      = "aws/healthProbe"

	// AppConfig
	InfraAppConfigApplicationParamName = "aws/appconfig/application"
	InfraAppConfigEnvironmentParamName = "aws/appconfig/environment"
	InfraAppConfigProfileParamName     = "aws/appconfig/profile"
)

type Environment struct {
	*config.CommonEnvironment

	Namer namer.Namer

	awsConfig  *sdkconfig.Config
	envDefault environmentDefault

	randomAZs pulumi.StringArrayOutput
}

var _ config.Env = (*Environment)(nil)

func WithCommonEnvironment(e *config.CommonEnvironment) func(*Environment) {
	return func(awsEnv *Environment) {
		awsEnv.CommonEnvironment = e
	}
}

func NewEnvironment(ctx *pulumi.Context, options ...func(*Environment)) (Environment, error) {
	env := Environment{
		Namer:     namer.NewNamer(ctx, awsConfigNamespace),
		awsConfig: sdkconfig.New(ctx, awsConfigNamespace),
	}

	for _, opt := range options {
		opt(&env)
	}

	if env.CommonEnvironment == nil {
		commonEnv, err := config.NewCommonEnvironment(ctx)
		if err != nil {
			return Environment{}, err
		}

		env.CommonEnvironment = &commonEnv
	}
	env.envDefault = getEnvironmentDefault(env.InfraEnvironmentName())

	awsProvider, err := sdkaws.NewProvider(ctx, string(config.ProviderAWS), &sdkaws.ProviderArgs{
		Region: pulumi.String(env.Region()),
		DefaultTags: sdkaws.ProviderDefaultTagsArgs{
			Tags: env.ResourcesTags(),
		},
		SkipCredentialsValidation: pulumi.BoolPtr(false),
		SkipMetadataApiCheck:      pulumi.BoolPtr(false),
	})
	if err != nil {
		return Environment{}, err
	}
	env.RegisterProvider(config.ProviderAWS, awsProvider)

	// Spread the app subnets over two zones picked from the configured list.
	shuffle, err := random.NewRandomShuffle(ctx, env.Namer.ResourceName("rnd-azs"), &random.RandomShuffleArgs{
		Inputs:      pulumi.ToStringArray(env.AvailabilityZones()),
		ResultCount: pulumi.IntPtr(2),
	})
	if err != nil {
		return Environment{}, err
	}
	env.randomAZs = shuffle.Results

	return env, nil
}

// Common
func (e *Environment) Region() string {
	return e.GetStringWithDefault(e.awsConfig, awsRegionParamName, e.envDefault.aws.region)
}

func (e *Environment) VPCCIDR() string {
	return e.GetStringWithDefault(e.InfraConfig, InfraVPCCIDRParamName, e.envDefault.infra.vpcCIDR)
}

func (e *Environment) AvailabilityZones() []string {
	return e.GetStringListWithDefault(e.InfraConfig, InfraAvailabilityZonesParamName, e.envDefault.infra.availabilityZones)
}

// RandomAZs returns two availability zones shuffled at stack creation.
func (e *Environment) RandomAZs() pulumi.StringArrayOutput {
	return e.randomAZs
}

// ECS
func (e *Environment) ECSTaskCPU() int {
	return e.GetIntWithDefault(e.InfraConfig, InfraEcsTaskCPUParamName, e.envDefault.infra.ecs.taskCPU)
}

func (e *Environment) ECSTaskMemory() int {
	return e.GetIntWithDefault(e.InfraConfig, InfraEcsTaskMemoryParamName, e.envDefault.infra.ecs.taskMemory)
}

func (e *Environment) ECSDesiredCount() int {
	return e.GetIntWithDefault(e.InfraConfig, InfraEcsDesiredCountParamName, e.envDefault.infra.ecs.desiredCount)
}

func (e *Environment) ECSAssignPublicIP() bool {
	return e.GetBoolWithDefault(e.InfraConfig, InfraEcsAssignPublicIPParamName, e.envDefault.infra.ecs.assignPublicIP)
}

// App surface
func (e *Environment) AppPort() int {
	return e.GetIntWithDefault(e.InfraConfig, InfraAppPortParamName, e.envDefault.infra.appPort)
}

func (e *Environment) ECRRepositoryName() string {
	return e.GetStringWithDefault(e.InfraConfig, InfraEcrRepositoryParamName, e.envDefault.infra.ecrRepository)
}

func (e *Environment) LogRetentionDays() int {
	return e.GetIntWithDefault(e.InfraConfig, InfraLogRetentionDaysParamName, e.envDefault.infra.logRetentionDays)
}

// HealthProbe gates the post-deploy curl against the ALB.
func (e *Environment) HealthProbe() bool {
	return e.GetBoolWithDefault(e.InfraConfig, InfraHealthProbeParamName, e.envDefault.infra.healthProbe)
}

// AppConfig
func (e *Environment) AppConfigApplicationName() string {
	return e.GetStringWithDefault(e.InfraConfig, InfraAppConfigApplicationParamName, e.envDefault.infra.appconfig.application)
}

func (e *Environment) AppConfigEnvironmentName() string {
	return e.GetStringWithDefault(e.InfraConfig, InfraAppConfigEnvironmentParamName, e.envDefault.infra.appconfig.environment)
}

func (e *Environment) AppConfigProfileName() string {
	return e.GetStringWithDefault(e.InfraConfig, InfraAppConfigProfileParamName, e.envDefault.infra.appconfig.profile)
}

func (e *Environment) GetCommonEnvironment() *config.CommonEnvironment {
	return e.CommonEnvironment
}
