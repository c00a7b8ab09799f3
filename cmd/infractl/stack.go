package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"gopkg.in/yaml.v3"

	"github.com/flagops/demo-infra-definitions/common/config"
)

const scenarioName = "aws/flagdemo"

// selectStack upserts the stack against the local pulumi program and pushes
// the scenario selection plus any file-based overrides into its config.
func selectStack(ctx context.Context, opts *rootOptions) (auto.Stack, error) {
	stack, err := auto.UpsertStackLocalSource(ctx, opts.stackName, opts.workDir)
	if err != nil {
		return auto.Stack{}, fmt.Errorf("upserting stack %s: %w", opts.stackName, err)
	}

	cfg := auto.ConfigMap{
		"scenario":  auto.ConfigValue{Value: scenarioName},
		"infra:env": auto.ConfigValue{Value: opts.envName},
	}

	if opts.envFile != "" {
		overrides, err := loadEnvFile(opts.envFile)
		if err != nil {
			return auto.Stack{}, err
		}
		for k, v := range overrides {
			cfg[k] = v
		}
	}

	if err := stack.SetAllConfig(ctx, cfg); err != nil {
		return auto.Stack{}, fmt.Errorf("setting stack config: %w", err)
	}

	return stack, nil
}

// loadEnvFile flattens a YAML environment file into individual config keys,
// as structured values cannot be set through the Automation API.
func loadEnvFile(path string) (auto.ConfigMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading environment file: %w", err)
	}

	var envCfg config.EnvironmentConfig
	if err := yaml.Unmarshal(data, &envCfg); err != nil {
		return nil, fmt.Errorf("parsing environment file %s: %w", path, err)
	}

	cfg := auto.ConfigMap{}
	setIf := func(key, value string) {
		if value != "" {
			cfg[key] = auto.ConfigValue{Value: value}
		}
	}

	c := envCfg.Config
	setIf("aws:region", c.AWS.Region)
	setIf("infra:env", c.Infra.Env)
	setIf("infra:aws/vpcCIDR", c.Infra.AWS.VPCCIDR)
	setIf("infra:aws/availabilityZones", strings.Join(c.Infra.AWS.AvailabilityZones, ","))
	setIf("demoapp:imageTag", c.DemoApp.ImageTag)
	setIf("demoapp:agentImage", c.DemoApp.AgentImage)

	if c.DemoApp.PollIntervalSeconds > 0 {
		cfg["demoapp:pollIntervalSeconds"] = auto.ConfigValue{Value: strconv.Itoa(c.DemoApp.PollIntervalSeconds)}
	}
	if c.Infra.AWS.ECS.TaskCPU > 0 {
		cfg["infra:aws/ecs/taskCPU"] = auto.ConfigValue{Value: strconv.Itoa(c.Infra.AWS.ECS.TaskCPU)}
	}
	if c.Infra.AWS.ECS.TaskMemory > 0 {
		cfg["infra:aws/ecs/taskMemory"] = auto.ConfigValue{Value: strconv.Itoa(c.Infra.AWS.ECS.TaskMemory)}
	}
	if c.Infra.AWS.ECS.DesiredCount > 0 {
		cfg["infra:aws/ecs/desiredCount"] = auto.ConfigValue{Value: strconv.Itoa(c.Infra.AWS.ECS.DesiredCount)}
	}

	return cfg, nil
}

// requireOutput extracts a string stack output, failing with a hint when the
// stack has not been deployed yet.
func requireOutput(outputs auto.OutputMap, key string) (string, error) {
	out, found := outputs[key]
	if !found {
		return "", fmt.Errorf("stack output %q not found, run `infractl deploy` first", key)
	}
	s, ok := out.Value.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("stack output %q is not a string", key)
	}
	return s, nil
}
