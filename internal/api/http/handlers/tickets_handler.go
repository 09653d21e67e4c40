package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-panel/internal/api/dto"
	"github.com/spec-kit/support-panel/internal/auth"
	"github.com/spec-kit/support-panel/internal/service"
	"github.com/spec-kit/support-panel/pkg/util"
)

// TicketsHandler manages panel ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tickets})
}

// UpdateTicket PATCH /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	operator, _ := auth.OperatorFromContext(c)

	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	input := service.TicketUpdateInput{
		Status:      req.Status,
		AssigneeSet: req.Assignee.Set,
		Assignee:    req.Assignee.Value,
		Note:        req.Note,
	}
	if req.Message != nil {
		input.Message = &service.MessageInput{
			Text:   req.Message.Text,
			Sender: req.Message.Sender,
		}
	}

	id := c.Params("id")
	if err := h.service.UpdateTicket(c.Context(), operator, id, input); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "updated": true}})
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	operator, _ := auth.OperatorFromContext(c)

	id := c.Params("id")
	if err := h.service.DeleteTicket(c.Context(), operator, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "deleted": true}})
}
