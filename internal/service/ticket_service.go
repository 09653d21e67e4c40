package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-panel/internal/cache"
	"github.com/spec-kit/support-panel/internal/domain"
	"github.com/spec-kit/support-panel/internal/events"
	"github.com/spec-kit/support-panel/internal/normalize"
	"github.com/spec-kit/support-panel/internal/repository"
	"github.com/spec-kit/support-panel/pkg/util"
)

// TicketService coordinates panel ticket workflows: listing with
// normalization, partial updates, and deletion.
type TicketService struct {
	store      repository.TicketStore
	normalizer *normalize.Normalizer
	cache      cache.TicketListCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store      repository.TicketStore
	Normalizer *normalize.Normalizer
	Cache      cache.TicketListCache
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// MessageInput describes a conversation entry to append.
type MessageInput struct {
	Text   string
	Sender string
}

// TicketUpdateInput carries the optional mutation intents of a partial
// update. AssigneeSet distinguishes an explicit clear (true with nil
// Assignee) from an omitted field (false).
type TicketUpdateInput struct {
	Status      *string
	AssigneeSet bool
	Assignee    *string
	Note        *string
	Message     *MessageInput
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		store:      deps.Store,
		normalizer: deps.Normalizer,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// ListTickets returns the canonical ticket list, newest update first. The
// raw store documents are normalized before they leave the service.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	if s.cache != nil {
		if tickets, ok := s.cache.Get(ctx); ok {
			return tickets, nil
		}
	}

	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	tickets := s.normalizer.Tickets(docs)

	if s.cache != nil {
		s.cache.Set(ctx, tickets)
	}
	return tickets, nil
}

// UpdateTicket applies a partial update as one atomic merge. A request
// with no effective intent is rejected before any store interaction.
func (s *TicketService) UpdateTicket(ctx context.Context, operator, id string, input TicketUpdateInput) error {
	patch, err := buildPatch(input)
	if err != nil {
		return err
	}
	if patch.Empty() {
		return util.NewEmptyPatch()
	}

	if err := s.store.Update(ctx, id, patch); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	if patch.Status != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: id,
			Operator: operator,
			Payload:  events.TicketStatusChangedPayload{NewStatus: *patch.Status},
		})
	}
	if patch.AssigneeSet {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: id,
			Operator: operator,
			Payload:  events.TicketAssignedPayload{Assignee: patch.Assignee},
		})
	}
	if patch.Note != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketNoteAdded,
			TicketID: id,
			Operator: operator,
			Payload:  events.TicketNoteAddedPayload{Preview: preview(*patch.Note)},
		})
	}
	if patch.Message != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketMessageAdded,
			TicketID: id,
			Operator: operator,
			Payload: events.TicketMessageAddedPayload{
				Sender:  patch.Message.Sender,
				Preview: preview(patch.Message.Text),
			},
		})
	}
	return nil
}

// DeleteTicket removes a ticket and its entire history. Deleting an
// already-deleted ticket surfaces NotFound, never a silent success.
func (s *TicketService) DeleteTicket(ctx context.Context, operator, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
		Operator: operator,
	})
	return nil
}

// buildPatch validates and canonicalizes the update input. Blank strings
// count as omitted intents, matching what the panel form submits.
func buildPatch(input TicketUpdateInput) (repository.TicketPatch, error) {
	var patch repository.TicketPatch

	if input.Status != nil {
		raw := strings.TrimSpace(*input.Status)
		if raw != "" {
			status := domain.TicketStatus(strings.ToLower(raw))
			if !status.Valid() {
				return repository.TicketPatch{}, util.NewValidationError("unknown status", map[string]any{"status": raw})
			}
			patch.Status = &status
		}
	}

	if input.AssigneeSet {
		patch.AssigneeSet = true
		if input.Assignee != nil {
			if trimmed := strings.TrimSpace(*input.Assignee); trimmed != "" {
				patch.Assignee = &trimmed
			}
		}
	}

	if input.Note != nil {
		if trimmed := strings.TrimSpace(*input.Note); trimmed != "" {
			patch.Note = &trimmed
		}
	}

	if input.Message != nil {
		if text := strings.TrimSpace(input.Message.Text); text != "" {
			sender := domain.MessageSender(strings.ToLower(strings.TrimSpace(input.Message.Sender)))
			if !sender.Valid() {
				sender = domain.DefaultSender
			}
			patch.Message = &repository.MessageInput{Text: text, Sender: sender}
		}
	}

	return patch, nil
}

func preview(text string) string {
	const max = 80
	if len(text) <= max {
		return text
	}
	return text[:max]
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
