package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/filedrop/internal/domain"
)

// ErrTicketExists is returned when creation would overwrite an existing id.
var ErrTicketExists = errors.New("ticket id already exists")

// ErrTicketUnavailable is the merged outcome for a conditional consume that did
// not apply: the ticket is already consumed or was never issued. Callers must
// not be able to tell the two apart.
var ErrTicketUnavailable = errors.New("ticket already consumed or unknown")

// ErrTicketNotFound is returned by plain reads of a missing ticket.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketRepository encapsulates ticket persistence. Consume is the single
// synchronization primitive of the whole service: it must evaluate the state
// precondition and apply the transition as one indivisible store operation,
// returning the record as it exists after the transition.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Consume(ctx context.Context, id string) (*domain.Ticket, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
}
