package repository

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/spec-kit/support-panel/internal/config"
	"github.com/spec-kit/support-panel/internal/domain"
	"github.com/spec-kit/support-panel/pkg/util"
)

var patchNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func statusPtr(s domain.TicketStatus) *domain.TicketStatus { return &s }

func TestTicketPatchEmpty(t *testing.T) {
	if !(TicketPatch{}).Empty() {
		t.Fatal("zero patch should be empty")
	}
	if (TicketPatch{Status: statusPtr(domain.TicketStatusClosed)}).Empty() {
		t.Fatal("status patch should not be empty")
	}
	if (TicketPatch{AssigneeSet: true}).Empty() {
		t.Fatal("assignee clear should not be empty")
	}
	if (TicketPatch{Note: strPtr("n")}).Empty() {
		t.Fatal("note patch should not be empty")
	}
	if (TicketPatch{Message: &MessageInput{Text: "m", Sender: domain.SenderSupport}}).Empty() {
		t.Fatal("message patch should not be empty")
	}
}

func TestBuildUpdateDocumentCombinedIntents(t *testing.T) {
	patch := TicketPatch{
		Status:      statusPtr(domain.TicketStatusResolved),
		AssigneeSet: true,
		Assignee:    strPtr("Asha"),
		Note:        strPtr("called customer"),
		Message:     &MessageInput{Text: "we fixed it", Sender: domain.SenderSupport},
	}

	update := buildUpdateDocument(patch, patchNow)
	stamp := domain.FormatTimestamp(patchNow)

	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("missing $set in %#v", update)
	}
	if set["updatedAt"] != stamp {
		t.Fatalf("updatedAt = %v, want %v", set["updatedAt"], stamp)
	}
	if set["status"] != "resolved" {
		t.Fatalf("status = %v", set["status"])
	}
	if set["assignee"] != "Asha" {
		t.Fatalf("assignee = %v", set["assignee"])
	}

	push, ok := update["$push"].(bson.M)
	if !ok {
		t.Fatalf("missing $push in %#v", update)
	}
	note := push["notes"].(bson.M)
	if note["text"] != "called customer" || note["createdAt"] != stamp {
		t.Fatalf("note entry = %#v", note)
	}
	msg := push["messages"].(bson.M)
	if msg["sender"] != "support" || msg["text"] != "we fixed it" || msg["createdAt"] != stamp {
		t.Fatalf("message entry = %#v", msg)
	}
}

func TestBuildUpdateDocumentAppendOnlyStillTouchesUpdatedAt(t *testing.T) {
	update := buildUpdateDocument(TicketPatch{Note: strPtr("just a note")}, patchNow)

	set := update["$set"].(bson.M)
	if len(set) != 1 || set["updatedAt"] != domain.FormatTimestamp(patchNow) {
		t.Fatalf("$set = %#v, want only updatedAt", set)
	}
	push := update["$push"].(bson.M)
	if _, ok := push["notes"]; !ok {
		t.Fatalf("$push = %#v, want notes entry", push)
	}
	if _, ok := push["messages"]; ok {
		t.Fatalf("unexpected messages push: %#v", push)
	}
}

func TestBuildUpdateDocumentAssigneeClearVersusOmit(t *testing.T) {
	cleared := buildUpdateDocument(TicketPatch{AssigneeSet: true}, patchNow)
	set := cleared["$set"].(bson.M)
	val, present := set["assignee"]
	if !present || val != nil {
		t.Fatalf("$set = %#v, want explicit nil assignee", set)
	}

	omitted := buildUpdateDocument(TicketPatch{Status: statusPtr(domain.TicketStatusClosed)}, patchNow)
	set = omitted["$set"].(bson.M)
	if _, present := set["assignee"]; present {
		t.Fatalf("$set = %#v, assignee must stay untouched", set)
	}
}

func TestBuildUpdateDocumentWithoutAppendsHasNoPush(t *testing.T) {
	update := buildUpdateDocument(TicketPatch{Status: statusPtr(domain.TicketStatusOpen)}, patchNow)
	if _, ok := update["$push"]; ok {
		t.Fatalf("unexpected $push: %#v", update)
	}
}

func TestUpdateValidatesBeforeStoreInteraction(t *testing.T) {
	// A nil store handle proves validation happens before any I/O.
	repo := NewTicketRepository(nil, config.MongoConfig{Collection: "supportTickets"})
	ctx := context.Background()

	err := repo.Update(ctx, "64b0c8f1a2d3e4f5a6b7c8d9", TicketPatch{})
	if util.CodeOf(err) != util.CodeEmptyPatch {
		t.Fatalf("empty patch: code = %q, want EMPTY_PATCH", util.CodeOf(err))
	}

	err = repo.Update(ctx, "not-a-hex-id", TicketPatch{Note: strPtr("n")})
	if util.CodeOf(err) != util.CodeInvalidID {
		t.Fatalf("bad id: code = %q, want INVALID_ID", util.CodeOf(err))
	}
}

func TestDeleteValidatesBeforeStoreInteraction(t *testing.T) {
	repo := NewTicketRepository(nil, config.MongoConfig{Collection: "supportTickets"})

	err := repo.Delete(context.Background(), "nope")
	if util.CodeOf(err) != util.CodeInvalidID {
		t.Fatalf("code = %q, want INVALID_ID", util.CodeOf(err))
	}
}
