package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/staff_scheduler/internal/repository/base"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func newRepositories(db base.DBTX) Repositories {
	return Repositories{
		Staff:        NewStaffRepository(db),
		Availability: NewAvailabilityRepository(db),
		Bookings:     NewBookingRepository(db),
	}
}

func (s *PostgresStore) Repositories() Repositories {
	return newRepositories(s.pool)
}

// WithinTx runs fn in a read committed transaction. Overlap safety comes from
// row locks taken by the services plus the bookings exclusion constraint.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, newRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
