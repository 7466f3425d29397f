package provider

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// Settings are the stack values every component reads.
type Settings struct {
	ProjectID string
	Region    string
}

func Load(ctx *pulumi.Context) Settings {
	gcpCfg := config.New(ctx, "gcp")
	return Settings{
		ProjectID: gcpCfg.Require("project"),
		Region:    gcpCfg.Require("region"),
	}
}

func SetupDefaultProvider(ctx *pulumi.Context, s Settings) (*gcp.Provider, error) {
	return gcp.NewProvider(ctx, "gcpProvider", &gcp.ProviderArgs{
		Project:             pulumi.String(s.ProjectID),
		Region:              pulumi.String(s.Region),
		UserProjectOverride: pulumi.Bool(true),
	})
}
