package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/filedrop/internal/domain"
)

const pgUniqueViolation = "23505"

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type postgresTicketRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresTicketRepository instantiates the Postgres-backed repository.
// table is the configured metadata table identifier.
func NewPostgresTicketRepository(pool *pgxpool.Pool, table string) (TicketRepository, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table identifier: %q", table)
	}
	return &postgresTicketRepository{pool: pool, table: table}, nil
}

func (r *postgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query := fmt.Sprintf(`
        INSERT INTO %s (id, state, original_name, content_type, size_bytes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at`, r.table)
	err := r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.State,
		ticket.OriginalName,
		ticket.ContentType,
		ticket.SizeBytes,
	).Scan(&ticket.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrTicketExists
		}
		return err
	}
	return nil
}

// Consume flips ACTIVE -> CONSUMED in one conditional UPDATE. The WHERE clause
// is the precondition and RETURNING captures the row atomically with the
// write, so concurrent redeemers racing on the same id get exactly one winner
// and no second round trip is needed to read the metadata.
func (r *postgresTicketRepository) Consume(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`
        UPDATE %s SET state=$1, consumed_at=NOW()
        WHERE id=$2 AND state=$3
        RETURNING id, state, original_name, content_type, size_bytes, created_at, consumed_at`, r.table)
	var ticket domain.Ticket
	err := r.pool.QueryRow(ctx, query, domain.TicketStateConsumed, id, domain.TicketStateActive).Scan(
		&ticket.ID,
		&ticket.State,
		&ticket.OriginalName,
		&ticket.ContentType,
		&ticket.SizeBytes,
		&ticket.CreatedAt,
		&ticket.ConsumedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTicketUnavailable
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *postgresTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`
        SELECT id, state, original_name, content_type, size_bytes, created_at, consumed_at
        FROM %s WHERE id=$1`, r.table)
	var ticket domain.Ticket
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.State,
		&ticket.OriginalName,
		&ticket.ContentType,
		&ticket.SizeBytes,
		&ticket.CreatedAt,
		&ticket.ConsumedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}
