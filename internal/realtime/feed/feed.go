package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
)

const defaultBuffer = 64

// Observer is called synchronously for every published event, in commit order.
type Observer func(ctx context.Context, ev *catalog.ChangeEvent)

// Subscription receives events on a buffered channel. A full buffer drops
// events for that subscriber only; pollers recover them with ChangesSince.
type Subscription struct {
	ID       uuid.UUID
	Outbound chan *catalog.ChangeEvent
	done     chan struct{}
	once     sync.Once
}

func (s *Subscription) Done() <-chan struct{} { return s.done }

// Feed is the in-process observer list fired after each committed write.
type Feed struct {
	mu        sync.RWMutex
	log       *logger.Logger
	subs      map[*Subscription]struct{}
	observers map[uint64]Observer
	nextObs   uint64
}

func New(log *logger.Logger) *Feed {
	return &Feed{
		log:       log.With("component", "ChangeFeed"),
		subs:      make(map[*Subscription]struct{}),
		observers: make(map[uint64]Observer),
	}
}

// Observe registers fn and returns a func that removes it.
func (f *Feed) Observe(fn Observer) func() {
	if fn == nil {
		return func() {}
	}
	f.mu.Lock()
	id := f.nextObs
	f.nextObs++
	f.observers[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.observers, id)
		f.mu.Unlock()
	}
}

func (f *Feed) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	sub := &Subscription{
		ID:       uuid.New(),
		Outbound: make(chan *catalog.ChangeEvent, buffer),
		done:     make(chan struct{}),
	}
	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()
	f.log.Debug("Change feed subscriber added", "subscriberID", sub.ID)
	return sub
}

// Unsubscribe removes sub and closes its channels. Safe to call twice.
func (f *Feed) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	sub.once.Do(func() {
		f.mu.Lock()
		delete(f.subs, sub)
		f.mu.Unlock()
		close(sub.done)
		close(sub.Outbound)
		f.log.Debug("Change feed subscriber removed", "subscriberID", sub.ID)
	})
}

// Publish notifies observers, then fans events out to subscribers.
func (f *Feed) Publish(ctx context.Context, events []*catalog.ChangeEvent) {
	f.mu.RLock()
	observers := make([]Observer, 0, len(f.observers))
	for _, o := range f.observers {
		observers = append(observers, o)
	}
	f.mu.RUnlock()

	for _, ev := range events {
		if ev == nil {
			continue
		}
		for _, o := range observers {
			o(ctx, ev)
		}
	}
	f.Deliver(events...)
}

// Deliver fans events out to subscribers without calling observers. Events
// relayed from another instance come in here.
func (f *Feed) Deliver(events ...*catalog.ChangeEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ev := range events {
		if ev == nil {
			continue
		}
		for sub := range f.subs {
			select {
			case sub.Outbound <- ev:
			default:
				f.log.Warn("Dropping change event; outbound buffer full", "subscriberID", sub.ID, "seq", ev.Seq)
			}
		}
	}
}

func (f *Feed) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// ServeSSE streams sub as server-sent events until the request ends.
func (f *Feed) ServeSSE(w http.ResponseWriter, r *http.Request, sub *Subscription) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}
	flusher.Flush()
	ctx := r.Context()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.done:
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev, ok := <-sub.Outbound:
			if !ok {
				return
			}
			raw, err := json.Marshal(ev)
			if err != nil {
				f.log.Warn("Failed to marshal change event", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "id: %d\nevent: change\ndata: %s\n\n", ev.Seq, raw)
			flusher.Flush()
		}
	}
}
