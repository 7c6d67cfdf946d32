package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/filedrop/internal/config"
	"github.com/spec-kit/filedrop/internal/domain"
	"github.com/spec-kit/filedrop/internal/events"
	"github.com/spec-kit/filedrop/internal/observability"
	"github.com/spec-kit/filedrop/internal/repository"
	"github.com/spec-kit/filedrop/internal/storage"
	apperrors "github.com/spec-kit/filedrop/pkg/util"
)

// Defaults substituted when the client omits file metadata.
const (
	defaultFilename    = "downloaded_file"
	defaultContentType = "application/octet-stream"
)

// IssuerService creates tickets and hands out upload authorizations.
type IssuerService struct {
	tickets    repository.TicketRepository
	presigner  storage.Presigner
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	cfg        config.TicketConfig
}

// IssuerDependencies bundles collaborators for the issuer service.
type IssuerDependencies struct {
	TicketRepo repository.TicketRepository
	Presigner  storage.Presigner
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// IssueInput describes a ticket creation request.
type IssueInput struct {
	Filename    string
	ContentType string
	SizeBytes   int64
}

// IssueResult is returned on successful issuance.
type IssueResult struct {
	TicketID  string
	UploadURL string
}

// NewIssuerService constructs the service.
func NewIssuerService(cfg config.TicketConfig, deps IssuerDependencies) *IssuerService {
	return &IssuerService{
		tickets:    deps.TicketRepo,
		presigner:  deps.Presigner,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		cfg:        cfg,
	}
}

// Issue validates the declared size, writes a fresh ACTIVE ticket, and
// requests an upload authorization scoped to the new id. The size check runs
// before any store interaction; an oversized request leaves no record behind.
func (s *IssuerService) Issue(ctx context.Context, input IssueInput) (*IssueResult, error) {
	if input.SizeBytes < 0 {
		return nil, apperrors.NewValidationError("file_size must be non-negative")
	}
	if input.SizeBytes > s.cfg.MaxFileSizeBytes() {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("File size exceeds the maximum limit of %d MB", s.cfg.MaxFileSizeMB))
	}

	filename := strings.TrimSpace(input.Filename)
	if filename == "" {
		filename = defaultFilename
	}
	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" {
		contentType = defaultContentType
	}

	ticket := &domain.Ticket{
		ID:           uuid.NewString(),
		State:        domain.TicketStateActive,
		OriginalName: filename,
		ContentType:  contentType,
		SizeBytes:    input.SizeBytes,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	uploadURL, err := s.presigner.PresignUpload(ctx, ticket.ID, ticket.SizeBytes)
	if err != nil {
		// The metadata write already committed. The ACTIVE record is orphaned
		// with no usable upload path; external housekeeping reclaims it.
		s.logger.Warn("upload authorization failed after metadata write; ticket orphaned",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	s.metrics.RecordTicketIssued()
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketIssued,
		TicketID: ticket.ID,
		Payload: events.TicketIssuedPayload{
			OriginalName: ticket.OriginalName,
			ContentType:  ticket.ContentType,
			SizeBytes:    ticket.SizeBytes,
		},
	})

	return &IssueResult{TicketID: ticket.ID, UploadURL: uploadURL}, nil
}

func (s *IssuerService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
