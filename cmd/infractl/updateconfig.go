package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	awsSDKConfig "github.com/aws/aws-sdk-go-v2/config"
	awsAppConfig "github.com/aws/aws-sdk-go-v2/service/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/flagops/demo-infra-definitions/flagconfig"
)

type updateConfigFlags struct {
	featureX bool
	apiURL   string
	maxUsers int
	debug    bool
	fromFile string
}

func newUpdateConfigCmd(opts *rootOptions) *cobra.Command {
	flags := &updateConfigFlags{}

	cmd := &cobra.Command{
		Use:   "update-config",
		Short: "Publish a new flag document without redeploying the app",
		Long: `Publish a new hosted configuration version and deploy it through AppConfig.
Running tasks pick up the change on their next agent poll, no restart needed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdateConfig(cmd.Context(), opts, flags, cmd.Flags())
		},
	}

	cmd.Flags().BoolVar(&flags.featureX, "feature-x", false, "enable or disable the users feature")
	cmd.Flags().StringVar(&flags.apiURL, "api-url", "", "downstream API URL exposed to the app")
	cmd.Flags().IntVar(&flags.maxUsers, "max-users", 0, "maximum number of users returned by /users")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "enable debug mode in the app")
	cmd.Flags().StringVar(&flags.fromFile, "from-file", "", "JSON file with the full flag document")

	return cmd
}

// buildDocument assembles the document to publish: file content (or defaults)
// first, then explicitly set flags on top. Unset flags never override.
func buildDocument(flags *updateConfigFlags, changed func(name string) bool) (flagconfig.Document, error) {
	doc := flagconfig.Default()

	if flags.fromFile != "" {
		data, err := os.ReadFile(flags.fromFile)
		if err != nil {
			return doc, fmt.Errorf("reading flag document: %w", err)
		}
		fileDoc, err := flagconfig.Parse(data)
		if err != nil {
			return doc, fmt.Errorf("parsing flag document %s: %w", flags.fromFile, err)
		}
		doc, err = flagconfig.Merge(doc, fileDoc)
		if err != nil {
			return doc, err
		}
	}

	if changed("feature-x") {
		doc.FeatureXEnabled = flags.featureX
	}
	if changed("api-url") {
		doc.APIURL = flags.apiURL
	}
	if changed("max-users") {
		doc.MaxUsers = flags.maxUsers
	}
	if changed("debug") {
		doc.DebugMode = flags.debug
	}

	return doc, nil
}

func runUpdateConfig(ctx context.Context, opts *rootOptions, flags *updateConfigFlags, flagSet *pflag.FlagSet) error {
	if err := checkDeployPrereqs(ctx, false); err != nil {
		return err
	}

	doc, err := buildDocument(flags, flagSet.Changed)
	if err != nil {
		return err
	}

	stack, err := selectStack(ctx, opts)
	if err != nil {
		return err
	}
	outputs, err := stack.Outputs(ctx)
	if err != nil {
		return fmt.Errorf("reading stack outputs: %w", err)
	}

	region, err := requireOutput(outputs, "awsRegion")
	if err != nil {
		return err
	}
	applicationID, err := requireOutput(outputs, "appconfigApplicationId")
	if err != nil {
		return err
	}
	environmentID, err := requireOutput(outputs, "appconfigEnvironmentId")
	if err != nil {
		return err
	}
	profileID, err := requireOutput(outputs, "appconfigProfileId")
	if err != nil {
		return err
	}
	strategyID, err := requireOutput(outputs, "appconfigStrategyId")
	if err != nil {
		return err
	}

	cfg, err := awsSDKConfig.LoadDefaultConfig(ctx, awsSDKConfig.WithRegion(region))
	if err != nil {
		return fmt.Errorf("loading AWS configuration: %w", err)
	}
	client := awsAppConfig.NewFromConfig(cfg)

	content, err := doc.Marshal()
	if err != nil {
		return err
	}
	contentType := "application/json"

	version, err := client.CreateHostedConfigurationVersion(ctx, &awsAppConfig.CreateHostedConfigurationVersionInput{
		ApplicationId:          &applicationID,
		ConfigurationProfileId: &profileID,
		Content:                content,
		ContentType:            &contentType,
	})
	if err != nil {
		return fmt.Errorf("creating hosted configuration version: %w", err)
	}
	slog.Info("created configuration version", "version", version.VersionNumber)

	versionLabel := strconv.Itoa(int(version.VersionNumber))
	deployment, err := client.StartDeployment(ctx, &awsAppConfig.StartDeploymentInput{
		ApplicationId:          &applicationID,
		EnvironmentId:          &environmentID,
		ConfigurationProfileId: &profileID,
		ConfigurationVersion:   &versionLabel,
		DeploymentStrategyId:   &strategyID,
	})
	if err != nil {
		return fmt.Errorf("starting configuration deployment: %w", err)
	}

	fmt.Printf("Deployment %d started for version %s.\n", deployment.DeploymentNumber, versionLabel)
	fmt.Println("Running tasks pick up the new document on their next poll (within ~30s).")
	fmt.Println(doc.MustMarshalIndent())

	return nil
}
