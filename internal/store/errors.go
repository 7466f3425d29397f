package store

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/fintrack/internal/errs"
)

func readError(err error, what string) error {
	if status.Code(err) == codes.NotFound {
		return errs.NewNotFoundError(what + " not found")
	}
	return errs.NewDatabaseError("read", "failed to get "+what, err)
}

// txError passes typed errors raised inside a Firestore transaction through
// and wraps everything else.
func txError(op, message string, err error) error {
	var (
		notFound *errs.NotFoundError
		exists   *errs.AlreadyExistsError
		conflict *errs.ConflictError
		invalid  *errs.ValidationError
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &exists), errors.As(err, &conflict), errors.As(err, &invalid):
		return err
	case status.Code(err) == codes.AlreadyExists:
		return errs.NewAlreadyExistsError(message + ": already exists")
	case status.Code(err) == codes.NotFound:
		return errs.NewNotFoundError(message + ": not found")
	}
	return errs.NewDatabaseError(op, message, err)
}
