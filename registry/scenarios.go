package registry

import (
	"strings"

	"github.com/samber/lo"

	"github.com/flagops/demo-infra-definitions/scenarios/aws/flagdemo"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

type ScenarioRegistry map[string]pulumi.RunFunc

func Scenarios() ScenarioRegistry {
	return ScenarioRegistry{
		"aws/flagdemo": flagdemo.Run,
	}
}

func (s ScenarioRegistry) Get(name string) pulumi.RunFunc {
	return s[strings.ToLower(name)]
}

func (s ScenarioRegistry) List() []string {
	return lo.Keys(s)
}
