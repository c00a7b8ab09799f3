package ecr

import (
	"github.com/flagops/demo-infra-definitions/common/config"
	"github.com/flagops/demo-infra-definitions/common/utils"
	"github.com/flagops/demo-infra-definitions/resources/aws"

	classicECR "github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ecr"
	"github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const keepLastImages = 10

// NewRepository creates the app image repository. ForceDelete lets a stack
// destroy remove the repository together with every pushed image, which is
// what keeps the destroy path free of residual billable resources.
func NewRepository(e aws.Environment, name string, opts ...pulumi.ResourceOption) (*classicECR.Repository, error) {
	opts = append(opts, e.WithProviders(config.ProviderAWS))

	repo, err := classicECR.NewRepository(e.Ctx, e.Namer.ResourceName(name), &classicECR.RepositoryArgs{
		Name:        e.CommonNamer.DisplayName(256, pulumi.String(e.ECRRepositoryName())),
		ForceDelete: pulumi.BoolPtr(true),
		ImageScanningConfiguration: classicECR.RepositoryImageScanningConfigurationArgs{
			ScanOnPush: pulumi.Bool(true),
		},
	}, opts...)
	if err != nil {
		return nil, err
	}

	if _, err := classicECR.NewLifecyclePolicy(e.Ctx, e.Namer.ResourceName(name, "lifecycle"), &classicECR.LifecyclePolicyArgs{
		Repository: repo.Name,
		Policy: pulumi.String(utils.JSONMustMarshal(map[string]any{
			"rules": []any{
				map[string]any{
					"rulePriority": 1,
					"description":  "expire untagged and old images",
					"selection": map[string]any{
						"tagStatus":   "any",
						"countType":   "imageCountMoreThan",
						"countNumber": keepLastImages,
					},
					"action": map[string]any{"type": "expire"},
				},
			},
		})),
	}, opts...); err != nil {
		return nil, err
	}

	return repo, nil
}

// BuildAndPushImage builds the demo app image from the repository root and
// pushes it to ECR with credentials minted from the registry auth token.
func BuildAndPushImage(e aws.Environment, name string, repo *classicECR.Repository, buildContext, dockerfile string, opts ...pulumi.ResourceOption) (*docker.Image, error) {
	authToken := classicECR.GetAuthorizationTokenOutput(e.Ctx, classicECR.GetAuthorizationTokenOutputArgs{
		RegistryId: repo.RegistryId.ToStringPtrOutput(),
	}, nil)

	return docker.NewImage(e.Ctx, e.Namer.ResourceName(name, "image"), &docker.ImageArgs{
		ImageName: pulumi.Sprintf("%s:%s", repo.RepositoryUrl, e.AppImageTag()),
		Build: &docker.DockerBuildArgs{
			Context:    pulumi.String(buildContext),
			Dockerfile: pulumi.String(dockerfile),
			Platform:   pulumi.String("linux/amd64"),
		},
		Registry: &docker.RegistryArgs{
			Server:   repo.RepositoryUrl,
			Username: authToken.UserName(),
			Password: authToken.Password(),
		},
	}, utils.MergeOptions(opts, e.WithProviders(config.ProviderDocker))...)
}
