package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/filedrop/internal/events"
	"github.com/spec-kit/filedrop/internal/observability"
	"github.com/spec-kit/filedrop/internal/repository"
	"github.com/spec-kit/filedrop/internal/storage"
	apperrors "github.com/spec-kit/filedrop/pkg/util"
)

// RedeemerService consumes tickets and hands out download authorizations.
//
// Redemption is intentionally non-idempotent: a second call with the same id,
// even from the original requester retrying after a timeout, fails exactly
// like a forged or reused link. Correctness rests entirely on the store's
// conditional write; no in-process locking is involved.
type RedeemerService struct {
	tickets    repository.TicketRepository
	presigner  storage.Presigner
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// RedeemerDependencies bundles collaborators for the redeemer service.
type RedeemerDependencies struct {
	TicketRepo repository.TicketRepository
	Presigner  storage.Presigner
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// RedeemResult is returned on successful redemption.
type RedeemResult struct {
	DownloadURL string
}

// NewRedeemerService constructs the service.
func NewRedeemerService(deps RedeemerDependencies) *RedeemerService {
	return &RedeemerService{
		tickets:    deps.TicketRepo,
		presigner:  deps.Presigner,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// Redeem atomically flips the ticket ACTIVE -> CONSUMED and, only on success,
// returns a download authorization reflecting the stored metadata. A ticket
// that is already consumed and one that never existed produce the same
// rejection, so ids cannot be probed.
func (s *RedeemerService) Redeem(ctx context.Context, ticketID string) (*RedeemResult, error) {
	if strings.TrimSpace(ticketID) == "" {
		return nil, apperrors.NewValidationError("Missing ticket_id parameter")
	}

	ticket, err := s.tickets.Consume(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketUnavailable) {
			s.metrics.RecordTicketConflict()
			s.publishEvent(ctx, events.Event{
				Type:     events.EventTicketRedeemConflict,
				TicketID: ticketID,
			})
			return nil, apperrors.NewTicketUnusable()
		}
		return nil, apperrors.NewInternalError(err)
	}

	downloadURL, err := s.presigner.PresignDownload(ctx, ticket.ID, ticket.OriginalName, ticket.ContentType)
	if err != nil {
		// The ticket is consumed but no authorization was delivered; the
		// transition is never rolled back, so the payload is unreachable.
		s.logger.Error("download authorization failed after consumption",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	s.metrics.RecordTicketRedeemed()
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketRedeemed,
		TicketID: ticket.ID,
		Payload: events.TicketRedeemedPayload{
			OriginalName: ticket.OriginalName,
			ContentType:  ticket.ContentType,
		},
	})

	return &RedeemResult{DownloadURL: downloadURL}, nil
}

func (s *RedeemerService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
