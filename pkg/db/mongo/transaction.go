package mongo

import (
	"context"
	"fmt"

	apperrors "ambulink/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// TransactionFunc receives a context that carries the session when the
// manager runs a real transaction; repositories must use it for every call.
type TransactionFunc func(ctx context.Context) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{
		client: client,
	}
}

func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

type sequentialManager struct{}

// NewSequentialManager runs fn directly. Used on standalone servers where
// multi-document transactions are unavailable; callers compensate instead.
func NewSequentialManager() TransactionManager {
	return sequentialManager{}
}

func (sequentialManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	return fn(ctx)
}

// NewManager picks a transactional or sequential manager.
func NewManager(client *mongo.Client, useTransactions bool) TransactionManager {
	if useTransactions && client != nil {
		return NewTransactionManager(client)
	}
	return NewSequentialManager()
}
