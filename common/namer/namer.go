package namer

import (
	"strings"

	"github.com/flagops/demo-infra-definitions/common/utils"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const nameSep = "-"

// Namer builds deterministic resource names under a dash-separated prefix hierarchy.
type Namer struct {
	ctx    *pulumi.Context
	prefix string
}

func NewNamer(ctx *pulumi.Context, prefix string) Namer {
	return Namer{
		ctx:    ctx,
		prefix: prefix,
	}
}

func (n Namer) WithPrefix(prefix string) Namer {
	childNamer := Namer{ctx: n.ctx}
	if n.prefix != "" {
		childNamer.prefix = n.prefix + nameSep
	}
	childNamer.prefix += prefix
	return childNamer
}

// ResourceName returns the concatenation of `parts` prefixed
// with the namer prefix.
func (n Namer) ResourceName(parts ...string) string {
	if len(parts) == 0 {
		panic("resource name requires at least one part")
	}

	var resourceName string
	if n.prefix != "" {
		resourceName = n.prefix + nameSep
	}

	return resourceName + strings.Join(parts, nameSep)
}

// DisplayName returns the concatenation of the stack name and `parts`,
// truncated to maxLen with a hash suffix when needed. AWS display names
// carry hard limits (32 chars for load balancers, 255 for ECS families).
func (n Namer) DisplayName(maxLen int, parts ...pulumi.StringInput) pulumi.StringInput {
	var convertedParts []interface{}
	for _, part := range parts {
		convertedParts = append(convertedParts, part)
	}
	return pulumi.All(convertedParts...).ApplyT(func(args []interface{}) string {
		strArgs := []string{n.ctx.Stack()}
		for _, arg := range args {
			strArgs = append(strArgs, arg.(string))
		}
		return utils.StrUniqueWithMaxLen(n.ResourceName(strArgs...), maxLen)
	}).(pulumi.StringOutput)
}
