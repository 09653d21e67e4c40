package events

import (
	"time"

	"github.com/spec-kit/support-panel/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketNoteAdded     EventType = "ticket_note_added"
	EventTicketMessageAdded  EventType = "ticket_message_added"
	EventTicketDeleted       EventType = "ticket_deleted"
)

// Event represents a domain event emitted after a successful mutation.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Operator  string      `json:"operator,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload. Assignee is nil when the ticket was
// unassigned.
type TicketAssignedPayload struct {
	Assignee *string `json:"assignee,omitempty"`
}

// TicketNoteAddedPayload payload.
type TicketNoteAddedPayload struct {
	Preview string `json:"preview"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	Sender  domain.MessageSender `json:"sender"`
	Preview string               `json:"preview"`
}
