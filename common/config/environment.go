package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/flagops/demo-infra-definitions/common/namer"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	sdkconfig "github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

const (
	multiValueSeparator = ","

	InfraConfigNamespace = "infra"
	AppConfigNamespace   = "demoapp"

	// Infra namespace
	InfraEnvironmentParamName = "env"

	// App namespace
	AppImageTagParamName     = "imageTag"
	AppAgentImageParamName   = "agentImage"
	AppPollIntervalParamName = "pollIntervalSeconds"
)

// ProviderID identifies an explicitly registered pulumi provider.
type ProviderID string

const (
	ProviderAWS     ProviderID = "aws"
	ProviderAWSX    ProviderID = "awsx"
	ProviderDocker  ProviderID = "docker"
	ProviderRandom  ProviderID = "random"
	ProviderCommand ProviderID = "command"
)

type CommonEnvironment struct {
	Ctx         *pulumi.Context
	InfraConfig *sdkconfig.Config
	AppConfig   *sdkconfig.Config
	CommonNamer namer.Namer

	providers map[ProviderID]pulumi.ProviderResource
}

func NewCommonEnvironment(ctx *pulumi.Context) (CommonEnvironment, error) {
	env := CommonEnvironment{
		Ctx:         ctx,
		InfraConfig: sdkconfig.New(ctx, InfraConfigNamespace),
		AppConfig:   sdkconfig.New(ctx, AppConfigNamespace),
		CommonNamer: namer.NewNamer(ctx, ""),
		providers:   make(map[ProviderID]pulumi.ProviderResource),
	}
	ctx.Log.Debug(fmt.Sprintf("infra environment: %s", env.InfraEnvironmentName()), nil)
	return env, nil
}

// Infra namespace
func (e *CommonEnvironment) InfraEnvironmentName() string {
	return e.GetStringWithDefault(e.InfraConfig, InfraEnvironmentParamName, "aws/dev")
}

func (e *CommonEnvironment) ResourcesTags() pulumi.StringMap {
	defaultTags := pulumi.StringMap{
		"managed-by": pulumi.String("pulumi"),
		"project":    pulumi.String(e.Ctx.Project()),
		"stack":      pulumi.String(e.Ctx.Stack()),
	}

	if u, err := user.Current(); err == nil {
		defaultTags["username"] = pulumi.String(u.Username)
	}

	// Map environment variables
	lookupVars := []string{"TEAM"}
	for _, varName := range lookupVars {
		if val := os.Getenv(varName); val != "" {
			defaultTags[strings.ToLower(varName)] = pulumi.String(val)
		}
	}

	return defaultTags
}

// App namespace
func (e *CommonEnvironment) AppImageTag() string {
	return e.GetStringWithDefault(e.AppConfig, AppImageTagParamName, "latest")
}

func (e *CommonEnvironment) AppConfigAgentImage() string {
	return e.GetStringWithDefault(e.AppConfig, AppAgentImageParamName, "public.ecr.aws/aws-appconfig/aws-appconfig-agent:2.x")
}

func (e *CommonEnvironment) AppPollIntervalSeconds() int {
	return e.GetIntWithDefault(e.AppConfig, AppPollIntervalParamName, 30)
}

// RegisterProvider records an explicit provider so dependent resources can
// opt into it with WithProviders.
func (e *CommonEnvironment) RegisterProvider(id ProviderID, provider pulumi.ProviderResource) {
	e.providers[id] = provider
}

// WithProviders returns a resource option selecting previously registered
// providers. Unregistered IDs are skipped, falling back to default providers.
func (e *CommonEnvironment) WithProviders(ids ...ProviderID) pulumi.ResourceOption {
	var providers []pulumi.ProviderResource
	for _, id := range ids {
		if p, found := e.providers[id]; found {
			providers = append(providers, p)
		}
	}
	return pulumi.Providers(providers...)
}

func (e *CommonEnvironment) GetBoolWithDefault(config *sdkconfig.Config, paramName string, defaultValue bool) bool {
	val, err := config.TryBool(paramName)
	if err == nil {
		return val
	}

	if !errors.Is(err, sdkconfig.ErrMissingVar) {
		e.Ctx.Log.Error(fmt.Sprintf("Parameter %s not parsable, err: %v, will use default value: %v", paramName, err, defaultValue), nil)
	}

	return defaultValue
}

func (e *CommonEnvironment) GetStringListWithDefault(config *sdkconfig.Config, paramName string, defaultValue []string) []string {
	val, err := config.Try(paramName)
	if err == nil {
		return strings.Split(val, multiValueSeparator)
	}

	if !errors.Is(err, sdkconfig.ErrMissingVar) {
		e.Ctx.Log.Error(fmt.Sprintf("Parameter %s not parsable, err: %v, will use default value: %v", paramName, err, defaultValue), nil)
	}

	return defaultValue
}

func (e *CommonEnvironment) GetStringWithDefault(config *sdkconfig.Config, paramName string, defaultValue string) string {
	val, err := config.Try(paramName)
	if err == nil {
		return val
	}

	if !errors.Is(err, sdkconfig.ErrMissingVar) {
		e.Ctx.Log.Error(fmt.Sprintf("Parameter %s not parsable, err: %v, will use default value: %v", paramName, err, defaultValue), nil)
	}

	return defaultValue
}

func (e *CommonEnvironment) GetIntWithDefault(config *sdkconfig.Config, paramName string, defaultValue int) int {
	val, err := config.TryInt(paramName)
	if err == nil {
		return val
	}

	if !errors.Is(err, sdkconfig.ErrMissingVar) {
		e.Ctx.Log.Error(fmt.Sprintf("Parameter %s not parsable, err: %v, will use default value: %v", paramName, err, defaultValue), nil)
	}

	return defaultValue
}

// Env is implemented by cloud-specific environments.
type Env interface {
	GetCommonEnvironment() *CommonEnvironment
}
