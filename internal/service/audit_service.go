package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/filedrop/internal/events"
)

// AuditService records ticket lifecycle events as structured log lines. It is
// the only consumer of the dispatcher; handlers stay out of the request path's
// error handling (a failed audit line never fails a request).
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to lifecycle events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTicketIssued, a.handleIssued)
	a.dispatcher.Subscribe(events.EventTicketRedeemed, a.handleRedeemed)
	a.dispatcher.Subscribe(events.EventTicketRedeemConflict, a.handleConflict)
}

func (a *AuditService) handleIssued(ctx context.Context, event events.Event) error {
	a.logger.Info("TicketIssued", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleRedeemed(ctx context.Context, event events.Event) error {
	a.logger.Info("TicketRedeemed", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleConflict(ctx context.Context, event events.Event) error {
	a.logger.Info("TicketRedeemConflict", zap.String("ticket_id", event.TicketID))
	return nil
}
