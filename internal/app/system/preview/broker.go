// Package preview provides the live preview broker.
//
// Editors POST draft snapshots while typing; preview windows hold an SSE
// subscription and re-render on every snapshot. Delivery is last-snapshot-wins:
// a slow preview window never queues stale drafts, it simply skips ahead to
// the newest one. Nothing is replayed on (re)subscribe; a preview window
// opened mid-edit stays blank until the next form change.
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Snapshot is one draft state pushed by an editor.
type Snapshot struct {
	// Channel identifies the editing session, e.g. "insight:65f1..." or
	// "solution:draft".
	Channel string `json:"channel"`
	// Kind is the content kind, "insight" or "solution".
	Kind string `json:"kind"`
	// Data is the draft payload as the editor submitted it.
	Data json.RawMessage `json:"data"`
	// UpdatedAt is when the broker accepted the snapshot.
	UpdatedAt time.Time `json:"updated_at"`
}

// subscriber holds a single preview window's delivery channel. The channel
// has capacity 1; publish replaces any undelivered snapshot.
type subscriber struct {
	ch chan Snapshot
}

// Broker fans snapshots out to preview subscribers.
type Broker struct {
	log *zap.Logger

	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	closed bool

	heartbeat time.Duration
}

// NewBroker creates a preview broker.
func NewBroker(log *zap.Logger) *Broker {
	return &Broker{
		log:       log,
		subs:      make(map[string]map[*subscriber]struct{}),
		heartbeat: 25 * time.Second,
	}
}

// Publish delivers a snapshot to every current subscriber on its channel,
// replacing any snapshot a subscriber has not consumed yet. With no
// subscribers the snapshot is dropped; nothing is retained for later.
func (b *Broker) Publish(snap Snapshot) error {
	snap.UpdatedAt = time.Now().UTC()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("preview broker is shut down")
	}
	targets := make([]*subscriber, 0, len(b.subs[snap.Channel]))
	for s := range b.subs[snap.Channel] {
		targets = append(targets, s)
	}
	b.mu.Unlock()

	for _, s := range targets {
		s.deliver(snap)
	}

	b.log.Debug("preview snapshot published",
		zap.String("channel", snap.Channel),
		zap.Int("subscribers", len(targets)),
	)
	return nil
}

// deliver replaces any pending snapshot with the new one.
func (s *subscriber) deliver(snap Snapshot) {
	for {
		select {
		case s.ch <- snap:
			return
		default:
		}
		// Buffer full; drop the stale snapshot and retry.
		select {
		case <-s.ch:
		default:
		}
	}
}

// Subscribe registers a preview window on a channel. The window receives only
// snapshots published after this call. The returned cleanup must be called
// when the window disconnects.
func (b *Broker) Subscribe(channel string) (<-chan Snapshot, func()) {
	s := &subscriber{ch: make(chan Snapshot, 1)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		closedCh := make(chan Snapshot)
		close(closedCh)
		return closedCh, func() {}
	}
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[*subscriber]struct{})
	}
	b.subs[channel][s] = struct{}{}
	b.mu.Unlock()

	cleanup := func() {
		b.mu.Lock()
		if set, ok := b.subs[channel]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(b.subs, channel)
			}
		}
		b.mu.Unlock()
	}
	return s.ch, cleanup
}

// SubscriberCount returns the number of preview windows on a channel.
func (b *Broker) SubscriberCount(channel string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[channel])
}

// Shutdown stops accepting snapshots and drops all subscribers. Connected
// SSE handlers return when their request contexts cancel.
func (b *Broker) Shutdown() {
	b.mu.Lock()
	b.closed = true
	b.subs = make(map[string]map[*subscriber]struct{})
	b.mu.Unlock()
	b.log.Info("preview broker shut down")
}

// ServeSSE streams snapshots for a channel as Server-Sent Events until the
// client disconnects. Each snapshot is written as an "event: snapshot" frame
// with the JSON-encoded Snapshot as data.
func (b *Broker) ServeSSE(w http.ResponseWriter, r *http.Request, channel string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cleanup := b.Subscribe(channel)
	defer cleanup()

	heartbeat := time.NewTicker(b.heartbeat)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case snap, open := <-events:
			if !open {
				return
			}
			if err := writeEvent(w, snap); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			// Comment frame keeps proxies from closing the idle stream.
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
	return err
}

// WaitForSnapshot blocks until a snapshot arrives on the channel or the
// context is cancelled. Used in tests.
func WaitForSnapshot(ctx context.Context, events <-chan Snapshot) (Snapshot, error) {
	select {
	case snap, open := <-events:
		if !open {
			return Snapshot{}, fmt.Errorf("subscription closed")
		}
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}
