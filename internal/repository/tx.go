package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Stores exposes the repositories bound to one unit of work.
type Stores interface {
	Users() UserRepository
	Registrations() RegistrationRepository
}

// TxManager runs fn as one atomic unit: every write made through the stores
// it receives commits together or not at all.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}

type stores struct {
	users         UserRepository
	registrations RegistrationRepository
}

// NewStores binds the Postgres repositories to db, which may be the pool or
// an open transaction.
func NewStores(db DBTX) Stores {
	return &stores{
		users:         NewUserRepository(db),
		registrations: NewRegistrationRepository(db),
	}
}

func (s *stores) Users() UserRepository                 { return s.users }
func (s *stores) Registrations() RegistrationRepository { return s.registrations }

// PostgresTxManager runs units of work on a single pooled connection.
type PostgresTxManager struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPostgresTxManager builds a manager. timeout bounds a unit of work whose
// context carries no deadline; zero disables it.
func NewPostgresTxManager(pool *pgxpool.Pool, timeout time.Duration) *PostgresTxManager {
	return &PostgresTxManager{pool: pool, timeout: timeout}
}

// RunInTx begins a transaction, runs fn and commits. Any error or panic from
// fn rolls back; the connection goes back to the pool on every path.
func (m *PostgresTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if err = fn(ctx, NewStores(tx)); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
