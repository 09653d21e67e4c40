// Package normalize maps heterogeneous raw ticket documents into the
// canonical domain shape. Records entered through different paths disagree
// on field names and may omit fields entirely; normalization is a total
// function with an explicit default table, never an error.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spec-kit/support-panel/internal/domain"
)

// Fallback text for records missing descriptive fields.
const (
	unknownCustomer = "Unknown customer"
	noSubject       = "No subject provided"
	noDescription   = "No description provided."
)

// Normalizer converts raw store documents into canonical Tickets. Now is
// the clock used for missing timestamps; override it in tests for
// deterministic output.
type Normalizer struct {
	Now func() time.Time
}

// New returns a Normalizer using the wall clock.
func New() *Normalizer {
	return &Normalizer{Now: time.Now}
}

// Ticket maps one raw document to the canonical shape. It never fails:
// unknown enum values fall back to their defaults, malformed histories
// coerce to empty sequences, and a record without any identifier is
// marked rather than dropped.
func (n *Normalizer) Ticket(raw map[string]any) domain.Ticket {
	now := n.Now()

	createdAt := firstTimestamp(raw, now, "createdAt", "created_at")
	updatedAt := firstTimestamp(raw, createdAt, "updatedAt", "updated_at")

	return domain.Ticket{
		ID:          resolveID(raw),
		Customer:    firstString(raw, unknownCustomer, "customer", "customerName", "fullName"),
		Email:       firstString(raw, "", "email"),
		Phone:       firstString(raw, "", "phone", "phoneNumber", "contactNumber"),
		Country:     firstString(raw, "", "country"),
		Category:    firstString(raw, "", "category"),
		Subject:     firstString(raw, noSubject, "subject", "title"),
		Description: firstString(raw, noDescription, "description", "details"),
		Status:      statusOf(raw["status"]),
		Priority:    priorityOf(raw["priority"]),
		Channel:     channelOf(raw["channel"]),
		Assignee:    firstString(raw, "", "assignee", "owner"),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		Notes:       notesOf(raw["notes"], now),
		Messages:    messagesOf(raw["messages"], now),
	}
}

// Tickets maps a raw document batch, preserving order.
func (n *Normalizer) Tickets(raw []bson.M) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, len(raw))
	for _, doc := range raw {
		tickets = append(tickets, n.Ticket(doc))
	}
	return tickets
}

// resolveID picks the first usable identifier: explicit ticket id, generic
// id field, then the store key rendered as hex.
func resolveID(raw map[string]any) string {
	for _, key := range []string{"ticketId", "id", "_id"} {
		switch v := raw[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case primitive.ObjectID:
			return v.Hex()
		}
	}
	return domain.UndefinedTicketID
}

func statusOf(v any) domain.TicketStatus {
	if s, ok := nonEmptyString(v); ok {
		if status := domain.TicketStatus(strings.ToLower(s)); status.Valid() {
			return status
		}
	}
	return domain.DefaultStatus
}

func priorityOf(v any) domain.TicketPriority {
	if s, ok := nonEmptyString(v); ok {
		if priority := domain.TicketPriority(strings.ToLower(s)); priority.Valid() {
			return priority
		}
	}
	return domain.DefaultPriority
}

func channelOf(v any) domain.TicketChannel {
	if s, ok := nonEmptyString(v); ok {
		if channel := domain.TicketChannel(strings.ToLower(s)); channel.Valid() {
			return channel
		}
	}
	return domain.DefaultChannel
}

// senderOf admits every canonical author type, including system entries
// written by automated paths, and falls back to customer.
func senderOf(v any) domain.MessageSender {
	if s, ok := nonEmptyString(v); ok {
		if sender := domain.MessageSender(strings.ToLower(s)); sender.Valid() {
			return sender
		}
	}
	return domain.DefaultSender
}

func notesOf(v any, now time.Time) []domain.TicketNote {
	entries, ok := asSlice(v)
	if !ok {
		return []domain.TicketNote{}
	}
	notes := make([]domain.TicketNote, 0, len(entries))
	for _, entry := range entries {
		doc, _ := asMap(entry)
		notes = append(notes, domain.TicketNote{
			Text:      textOf(doc["text"]),
			CreatedAt: timestampOf(doc["createdAt"], now),
		})
	}
	return notes
}

func messagesOf(v any, now time.Time) []domain.TicketMessage {
	entries, ok := asSlice(v)
	if !ok {
		return []domain.TicketMessage{}
	}
	messages := make([]domain.TicketMessage, 0, len(entries))
	for _, entry := range entries {
		doc, _ := asMap(entry)
		messages = append(messages, domain.TicketMessage{
			Sender:    senderOf(doc["sender"]),
			Text:      textOf(doc["text"]),
			CreatedAt: timestampOf(doc["createdAt"], now),
		})
	}
	return messages
}

func firstString(raw map[string]any, fallback string, keys ...string) string {
	for _, key := range keys {
		if s, ok := nonEmptyString(raw[key]); ok {
			return s
		}
	}
	return fallback
}

func firstTimestamp(raw map[string]any, fallback time.Time, keys ...string) time.Time {
	for _, key := range keys {
		if t, ok := parseTimestamp(raw[key]); ok {
			return t
		}
	}
	return fallback
}

func timestampOf(v any, fallback time.Time) time.Time {
	if t, ok := parseTimestamp(v); ok {
		return t
	}
	return fallback
}

func parseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	case string:
		parsed, err := domain.ParseTimestamp(t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// textOf stringifies entry text the way the panel always has: nil becomes
// empty, scalars render in their literal form.
func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case bson.A:
		return []any(s), true
	case []any:
		return s, true
	}
	return nil, false
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case bson.M:
		return map[string]any(m), true
	case map[string]any:
		return m, true
	}
	return map[string]any{}, false
}
