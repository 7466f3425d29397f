package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/GregMSThompson/fintrack/infra/cloudrun"
	"github.com/GregMSThompson/fintrack/infra/docker"
	"github.com/GregMSThompson/fintrack/infra/firestore"
	"github.com/GregMSThompson/fintrack/infra/identity"
	"github.com/GregMSThompson/fintrack/infra/kms"
	"github.com/GregMSThompson/fintrack/infra/provider"
	"github.com/GregMSThompson/fintrack/infra/secret"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		settings := provider.Load(ctx)

		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx, settings)
		if err != nil {
			return err
		}

		// enable identity platform so the api can verify firebase tokens
		ident, err := identity.SetupIdentity(ctx, prov)
		if err != nil {
			return err
		}

		// database plus the composite indexes the queries need
		if err := firestore.SetupFirestore(ctx, prov, settings); err != nil {
			return err
		}

		repo, err := docker.CreateCloudrunRepo(ctx, prov, settings)
		if err != nil {
			return err
		}

		apiSA, err := cloudrun.CreateServiceAccount(ctx, prov, settings)
		if err != nil {
			return err
		}

		var rt cloudrun.Runtime
		rt.KMSKeyName, err = kms.SetupNotesKey(ctx, prov, settings, apiSA)
		if err != nil {
			return err
		}

		// the broker url carries credentials, so it goes through secret manager
		if amqpURL, cerr := config.New(ctx, "fintrack").TrySecret("amqpUrl"); cerr == nil {
			sm, err := secret.SetupSecretManager(ctx, prov, apiSA)
			if err != nil {
				return err
			}
			rt.AMQPSecretID, err = sm.AddSecret(ctx, "amqpUrlSecret", "fintrack-amqp-url", amqpURL)
			if err != nil {
				return err
			}
			rt.HasAMQP = true
		}

		svc, err := cloudrun.SetupCloudRun(ctx, prov, settings, apiSA, rt, ident, repo)
		if err != nil {
			return err
		}

		ctx.Export("apiUrl", svc.Statuses.Index(pulumi.Int(0)).Url())
		ctx.Export("notesKey", rt.KMSKeyName)
		return nil
	})
}
