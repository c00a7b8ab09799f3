package flagdemo

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver"

	"github.com/flagops/demo-infra-definitions/common"
	"github.com/flagops/demo-infra-definitions/common/config"
)

const mutableImageTag = "latest"

// Params defines the parameters of the flagdemo scenario, following the
// functional options pattern.
type Params struct {
	BuildContext string
	Dockerfile   string
}

type Option = func(*Params) error

func NewParams(options ...Option) (*Params, error) {
	p := &Params{
		BuildContext: ".",
		Dockerfile:   "apps/flagdemo/images/flagdemo/Dockerfile",
	}
	return common.ApplyOption(p, options)
}

// WithBuildContext overrides the docker build context of the app image.
func WithBuildContext(path string) func(*Params) error {
	return func(p *Params) error {
		p.BuildContext = path
		return nil
	}
}

// WithDockerfile overrides the Dockerfile used for the app image.
func WithDockerfile(path string) func(*Params) error {
	return func(p *Params) error {
		p.Dockerfile = path
		return nil
	}
}

// validateImageTags rejects tags that can silently drift. The app tag must be
// `latest` or a semver version; the agent tag must be a semver constraint so
// pins like `2.x` or `2.0.4` both pass.
func validateImageTags(e *config.CommonEnvironment) error {
	return validateTags(e.AppImageTag(), e.AppConfigAgentImage())
}

func validateTags(appTag, agentImage string) error {
	if appTag != mutableImageTag {
		if _, err := semver.NewVersion(appTag); err != nil {
			return fmt.Errorf("invalid app image tag %q: %w", appTag, err)
		}
	}

	idx := strings.LastIndex(agentImage, ":")
	if idx < 0 || idx == len(agentImage)-1 {
		return fmt.Errorf("agent image %q has no tag", agentImage)
	}
	if _, err := semver.NewConstraint(agentImage[idx+1:]); err != nil {
		return fmt.Errorf("invalid agent image tag in %q: %w", agentImage, err)
	}
	return nil
}
