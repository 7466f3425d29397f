package kms

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/kms"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v9/go/gcp/serviceaccount"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/fintrack/infra/provider"
)

// SetupNotesKey creates the key transaction notes are sealed with and lets the
// api account use it. The returned ID is the value for KMSKEYNAME.
func SetupNotesKey(ctx *pulumi.Context, prov *gcp.Provider, s provider.Settings, apiSA *serviceaccount.Account) (pulumi.StringOutput, error) {
	empty := pulumi.String("").ToStringOutput()

	svc, err := projects.NewService(ctx, "kmsService", &projects.ServiceArgs{
		Service: pulumi.String("cloudkms.googleapis.com"),
	}, pulumi.Provider(prov))
	if err != nil {
		return empty, err
	}

	ring, err := kms.NewKeyRing(ctx, "fintrack-ring", &kms.KeyRingArgs{
		Location: pulumi.String(s.Region),
		Name:     pulumi.String("fintrack"),
	},
		pulumi.Provider(prov),
		pulumi.DependsOn([]pulumi.Resource{svc}),
	)
	if err != nil {
		return empty, err
	}

	key, err := kms.NewCryptoKey(ctx, "transaction-notes-key", &kms.CryptoKeyArgs{
		KeyRing:        ring.ID(),
		Name:           pulumi.String("transaction-notes"),
		Purpose:        pulumi.String("ENCRYPT_DECRYPT"),
		RotationPeriod: pulumi.String("7776000s"), // 90 days
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return empty, err
	}

	_, err = kms.NewCryptoKeyIAMMember(ctx, "notesKeyUser", &kms.CryptoKeyIAMMemberArgs{
		CryptoKeyId: key.ID(),
		Role:        pulumi.String("roles/cloudkms.cryptoKeyEncrypterDecrypter"),
		Member: apiSA.Email.ApplyT(func(email string) string {
			return fmt.Sprintf("serviceAccount:%s", email)
		}).(pulumi.StringOutput),
	},
		pulumi.Provider(prov),
	)
	if err != nil {
		return empty, err
	}

	return key.ID().ToStringOutput(), nil
}
