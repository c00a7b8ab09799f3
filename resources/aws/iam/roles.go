package iam

import (
	"github.com/flagops/demo-infra-definitions/common/config"
	"github.com/flagops/demo-infra-definitions/common/utils"
	"github.com/flagops/demo-infra-definitions/resources/aws"

	classicIAM "github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const ecsTasksAssumeRolePolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"Service": "ecs-tasks.amazonaws.com"},
      "Action": "sts:AssumeRole"
    }
  ]
}`

// TaskRoles groups the two roles every Fargate task definition needs.
type TaskRoles struct {
	ExecutionRole *classicIAM.Role
	TaskRole      *classicIAM.Role
}

// NewTaskRoles creates the task execution role (image pull + log delivery)
// and the task role carrying an inline policy that lets the AppConfig agent
// sidecar read the stack's configuration resources.
func NewTaskRoles(e aws.Environment, name string, appconfigArns pulumi.StringArrayInput, opts ...pulumi.ResourceOption) (*TaskRoles, error) {
	namer := e.Namer.WithPrefix(name)
	opts = append(opts, e.WithProviders(config.ProviderAWS))

	executionRole, err := classicIAM.NewRole(e.Ctx, namer.ResourceName("execution-role"), &classicIAM.RoleArgs{
		AssumeRolePolicy: pulumi.String(ecsTasksAssumeRolePolicy),
		ManagedPolicyArns: pulumi.StringArray{
			pulumi.String("arn:aws:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy"),
		},
	}, opts...)
	if err != nil {
		return nil, err
	}

	taskRole, err := classicIAM.NewRole(e.Ctx, namer.ResourceName("task-role"), &classicIAM.RoleArgs{
		AssumeRolePolicy: pulumi.String(ecsTasksAssumeRolePolicy),
	}, opts...)
	if err != nil {
		return nil, err
	}

	appconfigPolicy := appconfigArns.ToStringArrayOutput().ApplyT(func(arns []string) string {
		resources := make([]any, 0, len(arns))
		for _, arn := range arns {
			resources = append(resources, arn)
		}
		return utils.JSONMustMarshal(map[string]any{
			"Version": "2012-10-17",
			"Statement": []any{
				map[string]any{
					"Effect": "Allow",
					"Action": []any{
						"appconfig:StartConfigurationSession",
						"appconfig:GetLatestConfiguration",
					},
					"Resource": resources,
				},
			},
		})
	}).(pulumi.StringOutput)

	if _, err := classicIAM.NewRolePolicy(e.Ctx, namer.ResourceName("appconfig-read"), &classicIAM.RolePolicyArgs{
		Role:   taskRole.Name,
		Policy: appconfigPolicy,
	}, opts...); err != nil {
		return nil, err
	}

	return &TaskRoles{
		ExecutionRole: executionRole,
		TaskRole:      taskRole,
	}, nil
}
