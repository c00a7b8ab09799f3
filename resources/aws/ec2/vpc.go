package ec2

import (
	"fmt"
	"net/netip"

	"github.com/flagops/demo-infra-definitions/common/config"
	"github.com/flagops/demo-infra-definitions/resources/aws"

	classicEC2 "github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ec2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const publicSubnetCount = 2

// Network is the minimal public network serving the demo: a VPC with two
// public subnets in shuffled availability zones, an internet gateway, and
// the two security groups (ALB-facing and task-facing).
type Network struct {
	Vpc               *classicEC2.Vpc
	PublicSubnets     []*classicEC2.Subnet
	AlbSecurityGroup  *classicEC2.SecurityGroup
	TaskSecurityGroup *classicEC2.SecurityGroup
}

func (n *Network) SubnetIDs() pulumi.StringArray {
	ids := make(pulumi.StringArray, 0, len(n.PublicSubnets))
	for _, s := range n.PublicSubnets {
		ids = append(ids, s.ID())
	}
	return ids
}

func NewNetwork(e aws.Environment, name string, appPort int, opts ...pulumi.ResourceOption) (*Network, error) {
	namer := e.Namer.WithPrefix(name)
	opts = append(opts, e.WithProviders(config.ProviderAWS))

	vpc, err := classicEC2.NewVpc(e.Ctx, namer.ResourceName("vpc"), &classicEC2.VpcArgs{
		CidrBlock:          pulumi.String(e.VPCCIDR()),
		EnableDnsSupport:   pulumi.BoolPtr(true),
		EnableDnsHostnames: pulumi.BoolPtr(true),
		Tags: pulumi.StringMap{
			"Name": e.CommonNamer.DisplayName(255, pulumi.String(name), pulumi.String("vpc")),
		},
	}, opts...)
	if err != nil {
		return nil, err
	}

	igw, err := classicEC2.NewInternetGateway(e.Ctx, namer.ResourceName("igw"), &classicEC2.InternetGatewayArgs{
		VpcId: vpc.ID(),
	}, opts...)
	if err != nil {
		return nil, err
	}

	routeTable, err := classicEC2.NewRouteTable(e.Ctx, namer.ResourceName("rt"), &classicEC2.RouteTableArgs{
		VpcId: vpc.ID(),
		Routes: classicEC2.RouteTableRouteArray{
			classicEC2.RouteTableRouteArgs{
				CidrBlock: pulumi.String("0.0.0.0/0"),
				GatewayId: igw.ID(),
			},
		},
	}, opts...)
	if err != nil {
		return nil, err
	}

	subnetCIDRs, err := carveSubnets(e.VPCCIDR(), publicSubnetCount)
	if err != nil {
		return nil, err
	}

	subnets := make([]*classicEC2.Subnet, 0, publicSubnetCount)
	for i, cidr := range subnetCIDRs {
		subnet, err := classicEC2.NewSubnet(e.Ctx, namer.ResourceName("subnet", fmt.Sprintf("%d", i)), &classicEC2.SubnetArgs{
			VpcId:               vpc.ID(),
			CidrBlock:           pulumi.String(cidr),
			AvailabilityZone:    e.RandomAZs().Index(pulumi.Int(i)),
			MapPublicIpOnLaunch: pulumi.BoolPtr(true),
		}, opts...)
		if err != nil {
			return nil, err
		}

		if _, err := classicEC2.NewRouteTableAssociation(e.Ctx, namer.ResourceName("rta", fmt.Sprintf("%d", i)), &classicEC2.RouteTableAssociationArgs{
			SubnetId:     subnet.ID(),
			RouteTableId: routeTable.ID(),
		}, opts...); err != nil {
			return nil, err
		}

		subnets = append(subnets, subnet)
	}

	albSG, err := classicEC2.NewSecurityGroup(e.Ctx, namer.ResourceName("alb-sg"), &classicEC2.SecurityGroupArgs{
		VpcId:       vpc.ID(),
		Description: pulumi.String("HTTP from anywhere to the demo load balancer"),
		Ingress: classicEC2.SecurityGroupIngressArray{
			classicEC2.SecurityGroupIngressArgs{
				Protocol:   pulumi.String("tcp"),
				FromPort:   pulumi.Int(80),
				ToPort:     pulumi.Int(80),
				CidrBlocks: pulumi.StringArray{pulumi.String("0.0.0.0/0")},
			},
		},
		Egress: classicEC2.SecurityGroupEgressArray{
			classicEC2.SecurityGroupEgressArgs{
				Protocol:   pulumi.String("-1"),
				FromPort:   pulumi.Int(0),
				ToPort:     pulumi.Int(0),
				CidrBlocks: pulumi.StringArray{pulumi.String("0.0.0.0/0")},
			},
		},
	}, opts...)
	if err != nil {
		return nil, err
	}

	taskSG, err := classicEC2.NewSecurityGroup(e.Ctx, namer.ResourceName("task-sg"), &classicEC2.SecurityGroupArgs{
		VpcId:       vpc.ID(),
		Description: pulumi.String("App port from the load balancer only"),
		Ingress: classicEC2.SecurityGroupIngressArray{
			classicEC2.SecurityGroupIngressArgs{
				Protocol:       pulumi.String("tcp"),
				FromPort:       pulumi.Int(appPort),
				ToPort:         pulumi.Int(appPort),
				SecurityGroups: pulumi.StringArray{albSG.ID()},
			},
		},
		Egress: classicEC2.SecurityGroupEgressArray{
			classicEC2.SecurityGroupEgressArgs{
				Protocol:   pulumi.String("-1"),
				FromPort:   pulumi.Int(0),
				ToPort:     pulumi.Int(0),
				CidrBlocks: pulumi.StringArray{pulumi.String("0.0.0.0/0")},
			},
		},
	}, opts...)
	if err != nil {
		return nil, err
	}

	return &Network{
		Vpc:               vpc,
		PublicSubnets:     subnets,
		AlbSecurityGroup:  albSG,
		TaskSecurityGroup: taskSG,
	}, nil
}

// carveSubnets slices /24 blocks out of the VPC CIDR, one per subnet.
func carveSubnets(cidr string, count int) ([]string, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return nil, fmt.Errorf("parsing VPC CIDR %q: %w", cidr, err)
	}
	if !prefix.Addr().Is4() {
		return nil, fmt.Errorf("VPC CIDR %q: only IPv4 is supported", cidr)
	}
	if prefix.Bits() > 23 {
		return nil, fmt.Errorf("VPC CIDR %q too small to carve %d /24 subnets", cidr, count)
	}
	if count > 256 {
		return nil, fmt.Errorf("cannot carve %d subnets from %q", count, cidr)
	}

	base := prefix.Masked().Addr().As4()
	subnets := make([]string, 0, count)
	for i := 0; i < count; i++ {
		addr := base
		addr[2] = base[2] + byte(i)
		subnets = append(subnets, netip.PrefixFrom(netip.AddrFrom4(addr), 24).String())
	}
	return subnets, nil
}
