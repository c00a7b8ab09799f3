package ec2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_carveSubnets(t *testing.T) {
	t.Run("carves consecutive /24 blocks", func(t *testing.T) {
		subnets, err := carveSubnets("10.0.0.0/16", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.0/24", "10.0.1.0/24"}, subnets)
	})

	t.Run("respects a non-zero base", func(t *testing.T) {
		subnets, err := carveSubnets("10.1.0.0/16", 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"10.1.0.0/24", "10.1.1.0/24", "10.1.2.0/24"}, subnets)
	})

	t.Run("masks the host bits", func(t *testing.T) {
		subnets, err := carveSubnets("192.168.14.7/20", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"192.168.0.0/24", "192.168.1.0/24"}, subnets)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := carveSubnets("not-a-cidr", 2)
		assert.Error(t, err)

		_, err = carveSubnets("10.0.0.0/24", 2)
		assert.Error(t, err)

		_, err = carveSubnets("2001:db8::/32", 2)
		assert.Error(t, err)
	})
}
