package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/recipe-catalog/internal/data/aggregates"
	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
)

// HooksRecorder captures aggregate hook signals in tests.
type HooksRecorder struct {
	mu sync.Mutex

	Operations []OperationEvent
	Duplicates []string
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, OperationEvent{
		Name:     name,
		Status:   status,
		Duration: dur,
	})
}

func (h *HooksRecorder) IncDuplicateName(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Duplicates = append(h.Duplicates, name)
}

// LastStatus returns the status of the most recent operation, or "".
func (h *HooksRecorder) LastStatus() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.Operations) == 0 {
		return ""
	}
	return h.Operations[len(h.Operations)-1].Status
}

// NotifierRecorder captures published change events in tests.
type NotifierRecorder struct {
	mu sync.Mutex

	Batches [][]*catalog.ChangeEvent
}

var _ aggregates.Notifier = (*NotifierRecorder)(nil)

func (n *NotifierRecorder) Publish(_ context.Context, events []*catalog.ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	cp := make([]*catalog.ChangeEvent, len(events))
	copy(cp, events)
	n.Batches = append(n.Batches, cp)
}

func (n *NotifierRecorder) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Batches)
}
