package utils

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

func PulumiDependsOn(resources ...pulumi.Resource) pulumi.ResourceOption {
	return pulumi.DependsOn(resources)
}

// MergeOptions appends `opts` to a copy of `current`, leaving `current` untouched.
func MergeOptions[T any](current []T, opts ...T) []T {
	merged := make([]T, 0, len(current)+len(opts))
	merged = append(merged, current...)
	return append(merged, opts...)
}
