package normalize_test

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spec-kit/support-panel/internal/domain"
	"github.com/spec-kit/support-panel/internal/normalize"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newNormalizer() *normalize.Normalizer {
	n := normalize.New()
	n.Now = func() time.Time { return fixedNow }
	return n
}

func TestUnknownEnumValuesFallBackToDefaults(t *testing.T) {
	n := newNormalizer()
	ticket := n.Ticket(map[string]any{
		"status":  "bogus",
		"channel": "sms",
	})

	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("status = %q, want open", ticket.Status)
	}
	if ticket.Priority != domain.TicketPriorityMedium {
		t.Fatalf("priority = %q, want medium", ticket.Priority)
	}
	if ticket.Channel != domain.TicketChannelWeb {
		t.Fatalf("channel = %q, want web", ticket.Channel)
	}
}

func TestEnumMatchingIsCaseInsensitive(t *testing.T) {
	n := newNormalizer()
	ticket := n.Ticket(map[string]any{
		"status":   "In_Progress",
		"priority": "CRITICAL",
		"channel":  "Phone",
	})

	if ticket.Status != domain.TicketStatusInProgress {
		t.Fatalf("status = %q", ticket.Status)
	}
	if ticket.Priority != domain.TicketPriorityCritical {
		t.Fatalf("priority = %q", ticket.Priority)
	}
	if ticket.Channel != domain.TicketChannelPhone {
		t.Fatalf("channel = %q", ticket.Channel)
	}
}

func TestIdentifierResolution(t *testing.T) {
	n := newNormalizer()
	oid := primitive.NewObjectID()

	cases := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{"explicit ticketId wins", map[string]any{"ticketId": "T-42", "id": "x", "_id": oid}, "T-42"},
		{"generic id", map[string]any{"id": "abc-1", "_id": oid}, "abc-1"},
		{"store key as hex", map[string]any{"_id": oid}, oid.Hex()},
		{"string store key", map[string]any{"_id": "raw-key"}, "raw-key"},
		{"nothing resolves", map[string]any{}, domain.UndefinedTicketID},
		{"empty strings skipped", map[string]any{"ticketId": "", "id": "", "_id": oid}, oid.Hex()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Ticket(tc.raw).ID; got != tc.want {
				t.Fatalf("id = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLegacyFieldAliases(t *testing.T) {
	n := newNormalizer()
	ticket := n.Ticket(map[string]any{
		"fullName":      "Asha Rao",
		"contactNumber": "+91 1234",
		"title":         "Login broken",
		"details":       "Cannot sign in since Monday.",
		"owner":         "Priya",
	})

	if ticket.Customer != "Asha Rao" {
		t.Fatalf("customer = %q", ticket.Customer)
	}
	if ticket.Phone != "+91 1234" {
		t.Fatalf("phone = %q", ticket.Phone)
	}
	if ticket.Subject != "Login broken" {
		t.Fatalf("subject = %q", ticket.Subject)
	}
	if ticket.Description != "Cannot sign in since Monday." {
		t.Fatalf("description = %q", ticket.Description)
	}
	if ticket.Assignee != "Priya" {
		t.Fatalf("assignee = %q", ticket.Assignee)
	}
}

func TestAliasPrecedence(t *testing.T) {
	n := newNormalizer()
	ticket := n.Ticket(map[string]any{
		"customer":     "Primary",
		"customerName": "Secondary",
		"fullName":     "Tertiary",
	})
	if ticket.Customer != "Primary" {
		t.Fatalf("customer = %q, want first alias", ticket.Customer)
	}
}

func TestMissingDescriptiveFieldsGetPlaceholders(t *testing.T) {
	n := newNormalizer()
	ticket := n.Ticket(map[string]any{})

	if ticket.Customer != "Unknown customer" {
		t.Fatalf("customer = %q", ticket.Customer)
	}
	if ticket.Subject != "No subject provided" {
		t.Fatalf("subject = %q", ticket.Subject)
	}
	if ticket.Description != "No description provided." {
		t.Fatalf("description = %q", ticket.Description)
	}
	if ticket.Assignee != "" {
		t.Fatalf("assignee = %q, want unassigned", ticket.Assignee)
	}
}

func TestMalformedHistoryCoercesToEmpty(t *testing.T) {
	n := newNormalizer()

	ticket := n.Ticket(map[string]any{"notes": "not-a-list"})
	if ticket.Notes == nil || len(ticket.Notes) != 0 {
		t.Fatalf("notes = %#v, want empty non-nil slice", ticket.Notes)
	}
	if ticket.Messages == nil || len(ticket.Messages) != 0 {
		t.Fatalf("messages = %#v, want empty non-nil slice", ticket.Messages)
	}
}

func TestHistoryEntryDefaults(t *testing.T) {
	n := newNormalizer()
	ticket := n.Ticket(map[string]any{
		"notes": bson.A{
			bson.M{"text": "first", "createdAt": "2024-04-30T10:00:00.000Z"},
			bson.M{},
			"garbage entry",
		},
	})

	if len(ticket.Notes) != 3 {
		t.Fatalf("len(notes) = %d, want 3", len(ticket.Notes))
	}
	if ticket.Notes[0].Text != "first" {
		t.Fatalf("notes[0].Text = %q", ticket.Notes[0].Text)
	}
	want := time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC)
	if !ticket.Notes[0].CreatedAt.Equal(want) {
		t.Fatalf("notes[0].CreatedAt = %v, want %v", ticket.Notes[0].CreatedAt, want)
	}
	for i := 1; i < 3; i++ {
		if ticket.Notes[i].Text != "" {
			t.Fatalf("notes[%d].Text = %q, want empty", i, ticket.Notes[i].Text)
		}
		if !ticket.Notes[i].CreatedAt.Equal(fixedNow) {
			t.Fatalf("notes[%d].CreatedAt = %v, want clock time", i, ticket.Notes[i].CreatedAt)
		}
	}
}

func TestSenderAdmitsAllCanonicalAuthors(t *testing.T) {
	n := newNormalizer()
	ticket := n.Ticket(map[string]any{
		"messages": bson.A{
			bson.M{"sender": "support", "text": "hello"},
			bson.M{"sender": "SYSTEM", "text": "auto-closed"},
			bson.M{"sender": "agent", "text": "who?"},
			bson.M{"text": "no sender"},
		},
	})

	want := []domain.MessageSender{
		domain.SenderSupport,
		domain.SenderSystem,
		domain.SenderCustomer,
		domain.SenderCustomer,
	}
	if len(ticket.Messages) != len(want) {
		t.Fatalf("len(messages) = %d, want %d", len(ticket.Messages), len(want))
	}
	for i, sender := range want {
		if ticket.Messages[i].Sender != sender {
			t.Fatalf("messages[%d].Sender = %q, want %q", i, ticket.Messages[i].Sender, sender)
		}
	}
}

func TestTimestampFallbackChain(t *testing.T) {
	n := newNormalizer()

	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	ticket := n.Ticket(map[string]any{"created_at": created.Format(time.RFC3339)})
	if !ticket.CreatedAt.Equal(created) {
		t.Fatalf("createdAt = %v, want %v", ticket.CreatedAt, created)
	}
	if !ticket.UpdatedAt.Equal(created) {
		t.Fatalf("updatedAt = %v, want createdAt fallback", ticket.UpdatedAt)
	}

	bare := n.Ticket(map[string]any{})
	if !bare.CreatedAt.Equal(fixedNow) || !bare.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("timestamps = %v/%v, want clock time", bare.CreatedAt, bare.UpdatedAt)
	}
}

func TestTimestampAcceptsStoreNativeTypes(t *testing.T) {
	n := newNormalizer()
	created := time.Date(2024, 2, 2, 2, 2, 2, 0, time.UTC)

	asTime := n.Ticket(map[string]any{"createdAt": created})
	if !asTime.CreatedAt.Equal(created) {
		t.Fatalf("time.Time createdAt = %v", asTime.CreatedAt)
	}

	asDateTime := n.Ticket(map[string]any{"createdAt": primitive.NewDateTimeFromTime(created)})
	if !asDateTime.CreatedAt.Equal(created) {
		t.Fatalf("primitive.DateTime createdAt = %v", asDateTime.CreatedAt)
	}

	asJunk := n.Ticket(map[string]any{"createdAt": 12345})
	if !asJunk.CreatedAt.Equal(fixedNow) {
		t.Fatalf("junk createdAt = %v, want clock time", asJunk.CreatedAt)
	}
}

func TestNormalizationIsDeterministic(t *testing.T) {
	n := newNormalizer()
	raw := map[string]any{
		"ticketId": "T-1",
		"customer": "Dana",
		"status":   "resolved",
		"notes":    bson.A{bson.M{"text": "checked"}},
		"messages": bson.A{bson.M{"sender": "support", "text": "done"}},
	}

	first := n.Ticket(raw)
	second := n.Ticket(raw)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalization not deterministic:\n%#v\n%#v", first, second)
	}
}

func TestTicketsPreservesOrder(t *testing.T) {
	n := newNormalizer()
	docs := []bson.M{
		{"ticketId": "T-3"},
		{"ticketId": "T-2"},
		{"ticketId": "T-1"},
	}
	tickets := n.Tickets(docs)
	if len(tickets) != 3 {
		t.Fatalf("len = %d", len(tickets))
	}
	for i, want := range []string{"T-3", "T-2", "T-1"} {
		if tickets[i].ID != want {
			t.Fatalf("tickets[%d].ID = %q, want %q", i, tickets[i].ID, want)
		}
	}
}
