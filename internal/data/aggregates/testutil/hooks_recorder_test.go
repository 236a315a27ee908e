package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
)

func TestHooksRecorder_CapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("agg.op", "success", 10*time.Millisecond)
	h.IncDuplicateName("agg.op")

	if len(h.Operations) != 1 {
		t.Fatalf("expected 1 op event, got %d", len(h.Operations))
	}
	if h.Operations[0].Name != "agg.op" || h.LastStatus() != "success" {
		t.Fatalf("unexpected op event: %+v", h.Operations[0])
	}
	if len(h.Duplicates) != 1 || h.Duplicates[0] != "agg.op" {
		t.Fatalf("unexpected duplicates: %+v", h.Duplicates)
	}
}

func TestNotifierRecorder_CopiesBatch(t *testing.T) {
	n := &NotifierRecorder{}
	events := []*catalog.ChangeEvent{
		catalog.NewChangeEvent("agg.op", catalog.EntityRecipe, catalog.ChangeCreated, uuid.New()),
	}
	n.Publish(context.Background(), events)
	events[0] = nil

	if n.Count() != 1 || n.Batches[0][0] == nil {
		t.Fatalf("unexpected batches: %+v", n.Batches)
	}
}
