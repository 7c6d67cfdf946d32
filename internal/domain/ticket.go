package domain

import "time"

// TicketState enumerates lifecycle states for transfer tickets.
type TicketState string

const (
	TicketStateActive   TicketState = "ACTIVE"
	TicketStateConsumed TicketState = "CONSUMED"
)

// Ticket represents one authorized file-transfer session. The ticket id doubles
// as the object-storage key. Descriptive fields are immutable after creation;
// State moves only ACTIVE -> CONSUMED, exactly once.
type Ticket struct {
	ID           string
	State        TicketState
	OriginalName string
	ContentType  string
	SizeBytes    int64
	CreatedAt    time.Time
	ConsumedAt   *time.Time
}
