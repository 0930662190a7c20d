package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/movie_catalog/internal/domain"
)

// TxManager implements domain.TxManager over a sqlx connection pool. Each
// WithinTx call opens one transaction and hands fn repositories bound to it.
type TxManager struct {
	db *sqlx.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx runs fn inside a single transaction. The transaction commits only
// when fn returns nil; any error rolls back every write fn made.
func (m *TxManager) WithinTx(ctx context.Context, fn func(s domain.Stores) error) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stores := domain.Stores{
		Movies:  &MovieRepository{db: tx},
		Reviews: &ReviewRepository{db: tx},
	}

	if err := fn(stores); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
