package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether the status is one of the defined lifecycle states.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityNormal   TicketPriority = "normal"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// Valid reports whether the priority is a defined level.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// TicketChannel enumerates intake channels.
type TicketChannel string

const (
	TicketChannelEmail TicketChannel = "email"
	TicketChannelChat  TicketChannel = "chat"
	TicketChannelPhone TicketChannel = "phone"
	TicketChannelWeb   TicketChannel = "web"
)

// Valid reports whether the channel is a defined intake channel.
func (c TicketChannel) Valid() bool {
	switch c {
	case TicketChannelEmail, TicketChannelChat, TicketChannelPhone, TicketChannelWeb:
		return true
	}
	return false
}

// MessageSender indicates who authored a conversation message.
type MessageSender string

const (
	SenderCustomer MessageSender = "customer"
	SenderSupport  MessageSender = "support"
	SenderSystem   MessageSender = "system"
)

// Valid reports whether the sender is a defined author type.
func (s MessageSender) Valid() bool {
	switch s {
	case SenderCustomer, SenderSupport, SenderSystem:
		return true
	}
	return false
}

// Defaults applied when a raw record carries an unknown or missing value.
const (
	DefaultStatus   = TicketStatusOpen
	DefaultPriority = TicketPriorityMedium
	DefaultChannel  = TicketChannelWeb
	DefaultSender   = SenderCustomer
)

// UndefinedTicketID marks records whose identifier could not be resolved.
// Such records still render in the panel instead of failing the whole list.
const UndefinedTicketID = "UNDEFINED"

// TicketNote is an internal-only annotation, never shown to the customer.
type TicketNote struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// TicketMessage is one entry in the customer-support conversation thread.
type TicketMessage struct {
	Sender    MessageSender `json:"sender"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Ticket is the canonical shape of a customer-reported issue. Notes and
// messages are append-only: persisted entries never change content or
// position.
type Ticket struct {
	ID          string          `json:"id"`
	Customer    string          `json:"customer"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Country     string          `json:"country,omitempty"`
	Category    string          `json:"category,omitempty"`
	Subject     string          `json:"subject"`
	Description string          `json:"description"`
	Status      TicketStatus    `json:"status"`
	Priority    TicketPriority  `json:"priority"`
	Channel     TicketChannel   `json:"channel"`
	Assignee    string          `json:"assignee,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Notes       []TicketNote    `json:"notes"`
	Messages    []TicketMessage `json:"messages"`
}
