package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketIssued         EventType = "ticket_issued"
	EventTicketRedeemed       EventType = "ticket_redeemed"
	EventTicketRedeemConflict EventType = "ticket_redeem_conflict"
)

// Event represents a lifecycle event emitted by the issuer and redeemer.
type Event struct {
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TicketIssuedPayload payload.
type TicketIssuedPayload struct {
	OriginalName string `json:"original_name"`
	ContentType  string `json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
}

// TicketRedeemedPayload payload.
type TicketRedeemedPayload struct {
	OriginalName string `json:"original_name"`
	ContentType  string `json:"content_type"`
}
