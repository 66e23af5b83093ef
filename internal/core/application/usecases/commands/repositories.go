// Package commands contains the operations that change order or cart state.
// Each command is validated by its constructor and executed by a handler value with a
// Handle(ctx, cmd) method. Order writes run inside a unit of work.
package commands

import (
	"context"
	"errors"

	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"
)

type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides the order repository bound to the transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW is the transaction boundary of order commands.
	//
	// Example:
	//   uow := factory.Create()
	//   if err := uow.Begin(ctx); err != nil { ... }
	//   defer uow.Rollback(ctx)
	//   ... uow.OrderRepository() ...
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// persistenceError keeps domain errors as they are and classifies anything else coming
// out of the store as a retryable persistence failure.
func persistenceError(operation string, err error) error {
	if err == nil {
		return nil
	}
	for _, domainErr := range []error{
		errs.ErrObjectNotFound,
		errs.ErrValueIsInvalid,
		errs.ErrValueIsRequired,
		errs.ErrValueIsOutOfRange,
		errs.ErrTransitionNotAllowed,
		errs.ErrPersistenceFailed,
	} {
		if errors.Is(err, domainErr) {
			return err
		}
	}
	return errs.NewPersistenceFailedError(operation, err)
}
