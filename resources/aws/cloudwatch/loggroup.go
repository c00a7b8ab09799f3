package cloudwatch

import (
	"github.com/flagops/demo-infra-definitions/common/config"
	"github.com/flagops/demo-infra-definitions/resources/aws"

	classicCloudwatch "github.com/pulumi/pulumi-aws/sdk/v6/go/aws/cloudwatch"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

func NewLogGroup(e aws.Environment, name string, opts ...pulumi.ResourceOption) (*classicCloudwatch.LogGroup, error) {
	opts = append(opts, e.WithProviders(config.ProviderAWS))

	return classicCloudwatch.NewLogGroup(e.Ctx, e.Namer.ResourceName(name), &classicCloudwatch.LogGroupArgs{
		Name:            pulumi.Sprintf("/ecs/%s-%s", e.Ctx.Stack(), name),
		RetentionInDays: pulumi.IntPtr(e.LogRetentionDays()),
	}, opts...)
}
