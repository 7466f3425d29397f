package cloudrun

import (
	"fmt"
	"strconv"

	"github.com/pulumi/pulumi-docker/sdk/v4/go/docker"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/cloudrun"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/GregMSThompson/fintrack/infra/common"
	infradocker "github.com/GregMSThompson/fintrack/infra/docker"
	"github.com/GregMSThompson/fintrack/infra/provider"
)

// Runtime is what the api container needs beyond the stack config.
type Runtime struct {
	KMSKeyName pulumi.StringOutput
	// AMQPSecretID is empty when no broker is configured.
	AMQPSecretID pulumi.StringOutput
	HasAMQP      bool
}

func CreateServiceAccount(ctx *pulumi.Context, prov *gcp.Provider, s provider.Settings) (*serviceaccount.Account, error) {
	apiSA, err := serviceaccount.NewAccount(ctx, "apiServiceAccount", &serviceaccount.AccountArgs{
		AccountId:   pulumi.String("fintrack-api"),
		DisplayName: pulumi.String("fintrack API"),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return nil, err
	}

	member := apiSA.Email.ApplyT(func(email string) string {
		return fmt.Sprintf("serviceAccount:%s", email)
	}).(pulumi.StringOutput)

	// Firestore read/write, and custom claims for role changes
	for name, role := range map[string]string{
		"firestoreAccess": "roles/datastore.user",
		"firebaseAuthAdm": "roles/firebaseauth.admin",
	} {
		_, err = projects.NewIAMMember(ctx, name, &projects.IAMMemberArgs{
			Role:    pulumi.String(role),
			Member:  member,
			Project: pulumi.String(s.ProjectID),
		},
			pulumi.Provider(prov),
		)
		if err != nil {
			return nil, err
		}
	}

	return apiSA, nil
}

func SetupCloudRun(ctx *pulumi.Context, prov *gcp.Provider, s provider.Settings, apiSA *serviceaccount.Account, rt Runtime, res ...pulumi.Resource) (*cloudrun.Service, error) {
	img, err := buildApiImage(ctx, s, res...)
	if err != nil {
		return nil, err
	}

	srv, err := enableCloudRun(ctx, prov)
	if err != nil {
		return nil, err
	}

	svc, err := createCloudRunService(ctx, s, img, apiSA, rt, prov, srv)
	if err != nil {
		return nil, err
	}

	if err := setIAMAccessPolicy(ctx, s, svc, prov); err != nil {
		return nil, err
	}

	return svc, nil
}

func buildApiImage(ctx *pulumi.Context, s provider.Settings, res ...pulumi.Resource) (*docker.Image, error) {
	hash, err := common.SourceHash("../")
	if err != nil {
		return nil, err
	}

	return docker.NewImage(ctx, "apiImage", &docker.ImageArgs{
		Build: docker.DockerBuildArgs{
			Platform:   pulumi.String("linux/amd64"),
			Context:    pulumi.String(".."),                    // build from repo root
			Dockerfile: pulumi.String("../cmd/api/Dockerfile"), // Dockerfile path relative to repo root
		},
		ImageName: pulumi.String(fmt.Sprintf("%s-docker.pkg.dev/%s/%s/fintrack-api:%s",
			s.Region, s.ProjectID, infradocker.RepositoryID, hash)),
	},
		pulumi.DependsOn(res),
	)
}

func enableCloudRun(ctx *pulumi.Context, prov *gcp.Provider) (*projects.Service, error) {
	return projects.NewService(ctx, "cloudRunService", &projects.ServiceArgs{
		Service: pulumi.String("run.googleapis.com"),
	},
		pulumi.Provider(prov),
	)
}

func plainEnv(name string, value pulumi.StringInput) *cloudrun.ServiceTemplateSpecContainerEnvArgs {
	return &cloudrun.ServiceTemplateSpecContainerEnvArgs{
		Name:  pulumi.String(name),
		Value: value,
	}
}

func createCloudRunService(ctx *pulumi.Context,
	s provider.Settings,
	img *docker.Image,
	apiSA *serviceaccount.Account,
	rt Runtime,
	prov *gcp.Provider,
	res ...pulumi.Resource) (*cloudrun.Service, error) {
	crCfg := config.New(ctx, "cloudrun")
	appCfg := config.New(ctx, "fintrack")

	minScale := crCfg.Require("minScale")
	maxScale := crCfg.Require("maxScale")
	cpu := crCfg.Require("cpu")
	memory := crCfg.Require("memory")
	concurrency := crCfg.Require("concurrency")
	logLevel := crCfg.Require("logLevel")
	timeout, _ := strconv.Atoi(crCfg.Require("timeout"))

	envs := cloudrun.ServiceTemplateSpecContainerEnvArray{
		plainEnv("PROJECTID", pulumi.String(s.ProjectID)),
		plainEnv("LOGLEVEL", pulumi.String(logLevel)),
		plainEnv("KMSKEYNAME", rt.KMSKeyName),
	}
	if tz := appCfg.Get("timezone"); tz != "" {
		envs = append(envs, plainEnv("TIMEZONE", pulumi.String(tz)))
	}
	if sym := appCfg.Get("currencySymbol"); sym != "" {
		envs = append(envs, plainEnv("CURRENCYSYMBOL", pulumi.String(sym)))
	}
	if rt.HasAMQP {
		envs = append(envs,
			plainEnv("AMQPEXCHANGE", pulumi.String(appCfg.Get("amqpExchange"))),
			&cloudrun.ServiceTemplateSpecContainerEnvArgs{
				Name: pulumi.String("AMQPURL"),
				ValueFrom: &cloudrun.ServiceTemplateSpecContainerEnvValueFromArgs{
					SecretKeyRef: &cloudrun.ServiceTemplateSpecContainerEnvValueFromSecretKeyRefArgs{
						Name: rt.AMQPSecretID,
						Key:  pulumi.String("latest"),
					},
				},
			})
	}

	return cloudrun.NewService(ctx, "apiService", &cloudrun.ServiceArgs{
		Location: pulumi.String(s.Region),

		Template: &cloudrun.ServiceTemplateArgs{
			Metadata: &cloudrun.ServiceTemplateMetadataArgs{
				Annotations: pulumi.StringMap{
					// Autoscaling bounds
					"autoscaling.knative.dev/minScale": pulumi.String(minScale),
					"autoscaling.knative.dev/maxScale": pulumi.String(maxScale),

					// Instance sizing
					"run.googleapis.com/cpu":    pulumi.String(cpu),
					"run.googleapis.com/memory": pulumi.String(memory),

					// Allow throttling when idle (reduces cost)
					"run.googleapis.com/cpu-throttling": pulumi.String("true"),

					"run.googleapis.com/container-concurrency": pulumi.String(concurrency),
				},
			},

			Spec: &cloudrun.ServiceTemplateSpecArgs{
				ServiceAccountName: apiSA.Email,
				TimeoutSeconds:     pulumi.Int(timeout),

				Containers: cloudrun.ServiceTemplateSpecContainerArray{
					&cloudrun.ServiceTemplateSpecContainerArgs{
						Image: img.ImageName,
						Ports: cloudrun.ServiceTemplateSpecContainerPortArray{
							&cloudrun.ServiceTemplateSpecContainerPortArgs{
								ContainerPort: pulumi.Int(8080),
							},
						},
						Envs: envs,
					},
				},
			},
		},
	},
		pulumi.Provider(prov),
		pulumi.DependsOn(res),
	)
}

// setIAMAccessPolicy opens the service to the internet; the api checks
// Firebase ID tokens itself and serves category reads anonymously.
func setIAMAccessPolicy(ctx *pulumi.Context, s provider.Settings, svc *cloudrun.Service, prov *gcp.Provider) error {
	_, err := cloudrun.NewIamMember(ctx, "publicInvoker", &cloudrun.IamMemberArgs{
		Service:  svc.Name,
		Location: pulumi.String(s.Region),
		Role:     pulumi.String("roles/run.invoker"),
		Member:   pulumi.String("allUsers"),
	},
		pulumi.Provider(prov),
	)
	return err
}
