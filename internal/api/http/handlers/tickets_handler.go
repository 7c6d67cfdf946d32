package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/filedrop/internal/api/dto"
	"github.com/spec-kit/filedrop/internal/service"
	apperrors "github.com/spec-kit/filedrop/pkg/util"
)

// TicketsHandler manages ticket issuance and redemption endpoints.
type TicketsHandler struct {
	issuer   *service.IssuerService
	redeemer *service.RedeemerService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(issuer *service.IssuerService, redeemer *service.RedeemerService) *TicketsHandler {
	return &TicketsHandler{issuer: issuer, redeemer: redeemer}
}

// CreateTicket POST /api/v1/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	result, err := h.issuer.Issue(c.UserContext(), service.IssueInput{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		SizeBytes:   req.FileSize,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.CreateTicketResponse{
		TicketID:  result.TicketID,
		UploadURL: result.UploadURL,
	})
}

// RedeemTicket GET /api/v1/tickets/redeem?ticket_id=...
// With redirect=1 the download URL is returned as a 302 Location instead of
// a JSON body.
func (h *TicketsHandler) RedeemTicket(c *fiber.Ctx) error {
	result, err := h.redeemer.Redeem(c.UserContext(), c.Query("ticket_id"))
	if err != nil {
		return err
	}
	if c.Query("redirect") == "1" {
		return c.Redirect(result.DownloadURL, fiber.StatusFound)
	}
	return c.JSON(dto.RedeemTicketResponse{DownloadURL: result.DownloadURL})
}
