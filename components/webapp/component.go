package webapp

import (
	"github.com/flagops/demo-infra-definitions/components"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// WebApp represents a containerized web application running on Fargate
// behind an application load balancer, with its configuration delivered
// through an AppConfig agent sidecar.
type WebApp struct {
	pulumi.ResourceState
	components.Component

	URL          pulumi.StringOutput `pulumi:"url"`
	ClusterArn   pulumi.StringOutput `pulumi:"clusterArn"`
	ServiceName  pulumi.StringOutput `pulumi:"serviceName"`
	LogGroupName pulumi.StringOutput `pulumi:"logGroupName"`
}
