package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherInvokesSubscribedHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []string
	d.Subscribe(EventTicketIssued, func(ctx context.Context, e Event) error {
		got = append(got, e.TicketID)
		return nil
	})
	d.Subscribe(EventTicketRedeemed, func(ctx context.Context, e Event) error {
		t.Fatal("handler for other event type must not fire")
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketIssued, TicketID: "t-1"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(got) != 1 || got[0] != "t-1" {
		t.Fatalf("handler calls = %v", got)
	}
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()

	var second bool
	d.Subscribe(EventTicketRedeemConflict, func(ctx context.Context, e Event) error {
		return errors.New("first handler fails")
	})
	d.Subscribe(EventTicketRedeemConflict, func(ctx context.Context, e Event) error {
		second = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketRedeemConflict}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !second {
		t.Fatal("second handler did not run")
	}
}
