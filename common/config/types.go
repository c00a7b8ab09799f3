package config

// Structured objects cannot be set through the Automation API
// (https://github.com/pulumi/pulumi/issues/5506), so the infractl CLI
// flattens this document into individual stack config keys.
type EnvironmentConfig struct {
	Config Config `yaml:"config"`
}

type Config struct {
	AWS     AWS     `yaml:"aws"`
	Infra   Infra   `yaml:"infra"`
	DemoApp DemoApp `yaml:"demoapp"`
}

type AWS struct {
	Region string `yaml:"region"`
}

type Infra struct {
	Env string   `yaml:"env"`
	AWS AWSInfra `yaml:"aws"`
}

type AWSInfra struct {
	VPCCIDR           string   `yaml:"vpcCIDR"`
	AvailabilityZones []string `yaml:"availabilityZones"`
	ECS               ECS      `yaml:"ecs"`
}

type ECS struct {
	TaskCPU        int  `yaml:"taskCPU"`
	TaskMemory     int  `yaml:"taskMemory"`
	DesiredCount   int  `yaml:"desiredCount"`
	AssignPublicIP bool `yaml:"assignPublicIP"`
}

type DemoApp struct {
	ImageTag            string `yaml:"imageTag"`
	AgentImage          string `yaml:"agentImage"`
	PollIntervalSeconds int    `yaml:"pollIntervalSeconds"`
}
