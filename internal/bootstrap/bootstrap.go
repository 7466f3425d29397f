package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/firestore"
	kmsapi "cloud.google.com/go/kms/apiv1"
	"firebase.google.com/go/v4/auth"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/fintrack/internal/config"
	"github.com/GregMSThompson/fintrack/internal/crypto"
	"github.com/GregMSThompson/fintrack/internal/events"
	"github.com/GregMSThompson/fintrack/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	Sealer    crypto.Sealer
	Publisher events.Publisher

	kms *kmsapi.KeyManagementClient
}

func init() {
	// amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}

	bs.Sealer = crypto.Plain{}
	if cfg.KMSKeyName != "" {
		bs.kms, err = kmsapi.NewKeyManagementClient(applicationCtx)
		if err != nil {
			return bs, err
		}
		bs.Sealer = crypto.NewKMS(bs.kms, cfg.KMSKeyName)
	} else {
		bs.Log.Warn("KMSKEYNAME not set, transaction notes are stored unencrypted")
	}

	bs.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		bs.Publisher, err = events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return bs, err
		}
	} else {
		bs.Log.Info("AMQPURL not set, domain events are discarded")
	}

	return bs, nil
}

// Close releases every client Run opened.
func (bs *Bootstrap) Close() error {
	var errList []error
	if bs.Publisher != nil {
		errList = append(errList, bs.Publisher.Close())
	}
	if bs.kms != nil {
		errList = append(errList, bs.kms.Close())
	}
	if bs.Firestore != nil {
		errList = append(errList, bs.Firestore.Close())
	}
	return errors.Join(errList...)
}
