package crypto

import (
	"context"
	"encoding/base64"
	"strings"

	"cloud.google.com/go/kms/apiv1/kmspb"
	"github.com/googleapis/gax-go/v2"

	"github.com/GregMSThompson/fintrack/internal/errs"
)

// sealedPrefix marks values produced by KMS.Seal so Open can pass through
// values written before a key was configured.
const sealedPrefix = "kms:v1:"

type kmsClient interface {
	Encrypt(ctx context.Context, req *kmspb.EncryptRequest, opts ...gax.CallOption) (*kmspb.EncryptResponse, error)
	Decrypt(ctx context.Context, req *kmspb.DecryptRequest, opts ...gax.CallOption) (*kmspb.DecryptResponse, error)
}

type kms struct {
	client  kmsClient
	keyName string
}

func NewKMS(client kmsClient, keyName string) *kms {
	return &kms{client: client, keyName: keyName}
}

// Seal encrypts plaintext with the configured key and returns prefixed base64 text.
// Empty input stays empty.
func (k *kms) Seal(ctx context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	resp, err := k.client.Encrypt(ctx, &kmspb.EncryptRequest{
		Name:      k.keyName,
		Plaintext: []byte(plaintext),
	})
	if err != nil {
		return "", errs.NewEncryptionError("kms encrypt", err)
	}
	return sealedPrefix + base64.StdEncoding.EncodeToString(resp.Ciphertext), nil
}

// Open reverses Seal. Values without the sealed prefix are returned unchanged.
func (k *kms) Open(ctx context.Context, sealed string) (string, error) {
	if !strings.HasPrefix(sealed, sealedPrefix) {
		return sealed, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil {
		return "", errs.NewEncryptionError("decode ciphertext", err)
	}
	resp, err := k.client.Decrypt(ctx, &kmspb.DecryptRequest{
		Name:       k.keyName,
		Ciphertext: raw,
	})
	if err != nil {
		return "", errs.NewEncryptionError("kms decrypt", err)
	}
	return string(resp.Plaintext), nil
}

type Sealer interface {
	Seal(ctx context.Context, plaintext string) (string, error)
	Open(ctx context.Context, sealed string) (string, error)
}

// Plain is used when no KMS key is configured.
type Plain struct{}

func (Plain) Seal(_ context.Context, plaintext string) (string, error) { return plaintext, nil }
func (Plain) Open(_ context.Context, sealed string) (string, error)    { return sealed, nil }
