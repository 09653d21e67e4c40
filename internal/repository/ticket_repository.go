package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/support-panel/internal/config"
	"github.com/spec-kit/support-panel/internal/domain"
	"github.com/spec-kit/support-panel/internal/persistence"
	"github.com/spec-kit/support-panel/pkg/util"
)

// listLimit caps a single List read.
const listLimit = 200

// MessageInput describes one conversation entry to append.
type MessageInput struct {
	Text   string
	Sender domain.MessageSender
}

// TicketPatch bundles the independent mutation intents of a partial
// update. Status and assignee are field merges; note and message are
// appends. All present intents commit as one atomic operation.
//
// Assignee is tri-state: AssigneeSet false leaves the stored value
// untouched, AssigneeSet true with a nil Assignee clears it.
type TicketPatch struct {
	Status      *domain.TicketStatus
	AssigneeSet bool
	Assignee    *string
	Note        *string
	Message     *MessageInput
}

// Empty reports whether the patch carries no mutation intent.
func (p TicketPatch) Empty() bool {
	return p.Status == nil && !p.AssigneeSet && p.Note == nil && p.Message == nil
}

// TicketStore encapsulates durable ticket persistence. List returns raw
// documents in store shape; callers normalize them before rendering.
type TicketStore interface {
	List(ctx context.Context) ([]bson.M, error)
	Update(ctx context.Context, id string, patch TicketPatch) error
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	mongo        *persistence.Mongo
	collection   string
	queryTimeout time.Duration
	now          func() time.Time
}

// NewTicketRepository instantiates the mongo-backed store.
func NewTicketRepository(m *persistence.Mongo, cfg config.MongoConfig) TicketStore {
	return &ticketRepository{
		mongo:        m,
		collection:   cfg.Collection,
		queryTimeout: cfg.QueryTimeout(),
		now:          time.Now,
	}
}

func (r *ticketRepository) List(ctx context.Context) ([]bson.M, error) {
	coll, err := r.mongo.Collection(ctx, r.collection)
	if err != nil {
		return nil, util.NewStoreUnavailable(err)
	}

	opCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	findOpts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetLimit(listLimit)

	cursor, err := coll.Find(opCtx, bson.D{}, findOpts)
	if err != nil {
		return nil, r.storeError(err)
	}

	var docs []bson.M
	if err := cursor.All(opCtx, &docs); err != nil {
		return nil, r.storeError(err)
	}
	return docs, nil
}

func (r *ticketRepository) Update(ctx context.Context, id string, patch TicketPatch) error {
	if patch.Empty() {
		return util.NewEmptyPatch()
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return util.NewInvalidID(id)
	}

	coll, err := r.mongo.Collection(ctx, r.collection)
	if err != nil {
		return util.NewStoreUnavailable(err)
	}

	opCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	result, err := coll.UpdateOne(opCtx, bson.M{"_id": oid}, buildUpdateDocument(patch, r.now()))
	if err != nil {
		return r.storeError(err)
	}
	if result.MatchedCount == 0 {
		return util.NewNotFound("ticket", map[string]any{"id": id})
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return util.NewInvalidID(id)
	}

	coll, err := r.mongo.Collection(ctx, r.collection)
	if err != nil {
		return util.NewStoreUnavailable(err)
	}

	opCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	result, err := coll.DeleteOne(opCtx, bson.M{"_id": oid})
	if err != nil {
		return r.storeError(err)
	}
	if result.DeletedCount == 0 {
		return util.NewNotFound("ticket", map[string]any{"id": id})
	}
	return nil
}

// buildUpdateDocument translates a patch into a single $set/$push merge.
// updatedAt advances on every update, even when only an append is present.
func buildUpdateDocument(patch TicketPatch, now time.Time) bson.M {
	stamp := domain.FormatTimestamp(now)

	set := bson.M{"updatedAt": stamp}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.AssigneeSet {
		if patch.Assignee == nil {
			set["assignee"] = nil
		} else {
			set["assignee"] = *patch.Assignee
		}
	}

	update := bson.M{"$set": set}

	push := bson.M{}
	if patch.Note != nil {
		push["notes"] = bson.M{
			"text":      *patch.Note,
			"createdAt": stamp,
		}
	}
	if patch.Message != nil {
		push["messages"] = bson.M{
			"sender":    string(patch.Message.Sender),
			"text":      patch.Message.Text,
			"createdAt": stamp,
		}
	}
	if len(push) > 0 {
		update["$push"] = push
	}

	return update
}

func (r *ticketRepository) storeError(err error) error {
	if persistence.Recoverable(err) {
		r.mongo.Reset()
	}
	return util.NewStoreUnavailable(err)
}
