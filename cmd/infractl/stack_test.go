package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prod.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
config:
  aws:
    region: eu-west-1
  infra:
    env: aws/prod
    aws:
      vpcCIDR: 10.5.0.0/16
      ecs:
        desiredCount: 3
  demoapp:
    imageTag: 1.2.0
    pollIntervalSeconds: 60
`), 0o644))

	cfg, err := loadEnvFile(path)
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg["aws:region"].Value)
	assert.Equal(t, "aws/prod", cfg["infra:env"].Value)
	assert.Equal(t, "10.5.0.0/16", cfg["infra:aws/vpcCIDR"].Value)
	assert.Equal(t, "3", cfg["infra:aws/ecs/desiredCount"].Value)
	assert.Equal(t, "1.2.0", cfg["demoapp:imageTag"].Value)
	assert.Equal(t, "60", cfg["demoapp:pollIntervalSeconds"].Value)

	// Unset values are omitted instead of clobbering stack config.
	_, found := cfg["demoapp:agentImage"]
	assert.False(t, found)
	_, found = cfg["infra:aws/ecs/taskCPU"]
	assert.False(t, found)
}

func TestLoadEnvFileErrors(t *testing.T) {
	_, err := loadEnvFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("config: [not: a: map"), 0o644))
	_, err = loadEnvFile(path)
	assert.Error(t, err)
}

func TestRequireOutput(t *testing.T) {
	outputs := auto.OutputMap{
		"appUrl": auto.OutputValue{Value: "http://alb.example.com"},
		"count":  auto.OutputValue{Value: 3.0},
	}

	v, err := requireOutput(outputs, "appUrl")
	require.NoError(t, err)
	assert.Equal(t, "http://alb.example.com", v)

	_, err = requireOutput(outputs, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "infractl deploy")

	_, err = requireOutput(outputs, "count")
	assert.Error(t, err)
}
