package aws

import (
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws"
)

const (
	devEnv  = "aws/dev"
	prodEnv = "aws/prod"
)

type environmentDefault struct {
	aws   awsProvider
	infra infra
}

type awsProvider struct {
	region string
}

type infra struct {
	vpcCIDR           string
	availabilityZones []string
	appPort           int
	ecrRepository     string
	logRetentionDays  int
	healthProbe       bool

	ecs       infraECS
	appconfig infraAppConfig
}

type infraECS struct {
	taskCPU        int
	taskMemory     int
	desiredCount   int
	assignPublicIP bool
}

type infraAppConfig struct {
	application string
	environment string
	profile     string
}

func getEnvironmentDefault(envName string) environmentDefault {
	switch envName {
	case devEnv:
		return devDefault()
	case prodEnv:
		return prodDefault()
	default:
		panic("Unknown environment: " + envName)
	}
}

func devDefault() environmentDefault {
	return environmentDefault{
		aws: awsProvider{
			region: string(aws.RegionUSEast1),
		},
		infra: infra{
			vpcCIDR:           "10.0.0.0/16",
			availabilityZones: []string{"us-east-1a", "us-east-1b", "us-east-1c"},
			appPort:           8080,
			ecrRepository:     "flagdemo-app",
			logRetentionDays:  7,
			healthProbe:       true,
			ecs: infraECS{
				taskCPU:        256,
				taskMemory:     512,
				desiredCount:   1,
				assignPublicIP: true,
			},
			appconfig: infraAppConfig{
				application: "flagdemo",
				environment: "dev",
				profile:     "app-config",
			},
		},
	}
}

func prodDefault() environmentDefault {
	return environmentDefault{
		aws: awsProvider{
			region: string(aws.RegionUSEast1),
		},
		infra: infra{
			vpcCIDR:           "10.1.0.0/16",
			availabilityZones: []string{"us-east-1a", "us-east-1b", "us-east-1c"},
			appPort:           8080,
			ecrRepository:     "flagdemo-app",
			logRetentionDays:  30,
			healthProbe:       true,
			ecs: infraECS{
				taskCPU:        512,
				taskMemory:     1024,
				desiredCount:   2,
				assignPublicIP: false,
			},
			appconfig: infraAppConfig{
				application: "flagdemo",
				environment: "prod",
				profile:     "app-config",
			},
		},
	}
}
