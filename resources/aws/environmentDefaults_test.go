package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvironmentDefault(t *testing.T) {
	dev := getEnvironmentDefault(devEnv)
	assert.Equal(t, "10.0.0.0/16", dev.infra.vpcCIDR)
	assert.Equal(t, 256, dev.infra.ecs.taskCPU)
	assert.Equal(t, 1, dev.infra.ecs.desiredCount)
	assert.True(t, dev.infra.ecs.assignPublicIP)
	assert.Equal(t, "dev", dev.infra.appconfig.environment)

	prod := getEnvironmentDefault(prodEnv)
	assert.Equal(t, "10.1.0.0/16", prod.infra.vpcCIDR)
	assert.Equal(t, 2, prod.infra.ecs.desiredCount)
	assert.False(t, prod.infra.ecs.assignPublicIP)
	assert.Equal(t, 30, prod.infra.logRetentionDays)

	assert.Panics(t, func() { getEnvironmentDefault("aws/staging") })
}
