package ecs

import (
	"github.com/flagops/demo-infra-definitions/common/config"
	"github.com/flagops/demo-infra-definitions/resources/aws"

	classicECS "github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ecs"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

func CreateEcsCluster(e aws.Environment, name string, opts ...pulumi.ResourceOption) (*classicECS.Cluster, error) {
	opts = append(opts, e.WithProviders(config.ProviderAWS))

	return classicECS.NewCluster(e.Ctx, e.Namer.ResourceName(name), &classicECS.ClusterArgs{
		Name: e.CommonNamer.DisplayName(255, pulumi.String(name)),
		Settings: classicECS.ClusterSettingArray{
			classicECS.ClusterSettingArgs{
				Name:  pulumi.String("containerInsights"),
				Value: pulumi.String("enabled"),
			},
		},
	}, opts...)
}
