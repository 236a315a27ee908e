package bus

import (
	"context"

	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
)

// Bus relays committed change events between catalog instances.
type Bus interface {
	Publish(ctx context.Context, events []*catalog.ChangeEvent) error
	StartForwarder(ctx context.Context, onEvent func(ev *catalog.ChangeEvent)) error
	Close() error
}

// envelope tags each event with the publishing instance so a forwarder can
// skip its own messages.
type envelope struct {
	Origin string               `json:"origin"`
	Event  *catalog.ChangeEvent `json:"event"`
}
