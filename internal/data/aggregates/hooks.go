package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
	"github.com/yungbote/recipe-catalog/internal/observability"
)

// Hooks captures aggregate-level observability events.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncDuplicateName(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncDuplicateName(string)                        {}

type observabilityHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks creates aggregate hooks backed by observability metrics.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return &observabilityHooks{metrics: metrics}
}

func (h *observabilityHooks) ObserveOperation(name, status string, dur time.Duration) {
	if h == nil || h.metrics == nil {
		return
	}
	h.metrics.ObserveWrite(strings.TrimSpace(name), strings.TrimSpace(status), dur)
}

func (h *observabilityHooks) IncDuplicateName(name string) {
	if h == nil || h.metrics == nil {
		return
	}
	h.metrics.IncDuplicateName(strings.TrimSpace(name))
}

// Notifier receives the change events of a write after it has committed.
// It is never called for a failed write.
type Notifier interface {
	Publish(ctx context.Context, events []*catalog.ChangeEvent)
}

type noopNotifier struct{}

func (noopNotifier) Publish(context.Context, []*catalog.ChangeEvent) {}
