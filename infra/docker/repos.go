package docker

import (
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/artifactregistry"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/fintrack/infra/provider"
)

const RepositoryID = "fintrack"

func CreateCloudrunRepo(ctx *pulumi.Context, prov *gcp.Provider, s provider.Settings) (*artifactregistry.Repository, error) {
	return artifactregistry.NewRepository(ctx, "apiRepository", &artifactregistry.RepositoryArgs{
		Format:       pulumi.String("DOCKER"),
		RepositoryId: pulumi.String(RepositoryID),
		Location:     pulumi.String(s.Region),
		Description:  pulumi.String("fintrack api images"),
	},
		pulumi.Provider(prov),
	)
}
