package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alanyang/promptdeck/internal/domain/event"
	porteventbus "github.com/alanyang/promptdeck/internal/port/eventbus"
)

// DefaultPollInterval is how often subscribers look for new events.
const DefaultPollInterval = 500 * time.Millisecond

// eventRetention bounds the events table. Subscribers only read rows newer
// than their cursor, so old rows are never needed again.
const eventRetention = "-1 minute"

// EventBus shares change events between processes using the same database
// file. Publish appends a row; each subscription polls for rows past its cursor.
type EventBus struct {
	db       *sql.DB
	interval time.Duration

	mu   sync.Mutex
	subs map[*subscription]struct{}
}

func NewEventBus(s *Storage, interval time.Duration) *EventBus {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &EventBus{
		db:       s.db,
		interval: interval,
		subs:     make(map[*subscription]struct{}),
	}
}

func (eb *EventBus) Publish(ctx context.Context, e event.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	ch := event.ChannelFor(e.Type)
	if _, err := eb.db.ExecContext(ctx,
		`INSERT INTO events (channel, payload) VALUES (?, ?)`, string(ch), payload); err != nil {
		return fmt.Errorf("publishing event on channel %s: %w", ch, err)
	}
	if _, err := eb.db.ExecContext(ctx,
		`DELETE FROM events WHERE created_at < datetime('now', ?)`, eventRetention); err != nil {
		slog.Warn("pruning events failed", "error", err)
	}
	return nil
}

// Subscribe delivers every event published on ch after Subscribe returns.
func (eb *EventBus) Subscribe(ctx context.Context, ch event.Channel, handler porteventbus.Handler) (porteventbus.Subscription, error) {
	var cursor int64
	if err := eb.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM events`).Scan(&cursor); err != nil {
		return nil, fmt.Errorf("reading event cursor: %w", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{bus: eb, cancel: cancel, done: make(chan struct{})}

	eb.mu.Lock()
	eb.subs[sub] = struct{}{}
	eb.mu.Unlock()

	go func() {
		defer close(sub.done)
		ticker := time.NewTicker(eb.interval)
		defer ticker.Stop()

		for {
			select {
			case <-subCtx.Done():
				return
			case <-ticker.C:
			}

			events, last, err := eb.poll(subCtx, ch, cursor)
			if err != nil {
				if subCtx.Err() == nil {
					slog.Warn("polling events failed", "channel", ch, "error", err)
				}
				continue
			}
			cursor = last
			for _, e := range events {
				handler(subCtx, e)
			}
		}
	}()

	return sub, nil
}

func (eb *EventBus) poll(ctx context.Context, ch event.Channel, after int64) ([]event.Event, int64, error) {
	rows, err := eb.db.QueryContext(ctx,
		`SELECT id, payload FROM events WHERE channel = ? AND id > ? ORDER BY id`, string(ch), after)
	if err != nil {
		return nil, after, err
	}
	defer rows.Close()

	var events []event.Event
	last := after
	for rows.Next() {
		var (
			id      int64
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, after, err
		}
		last = id

		var e event.Event
		if err := json.Unmarshal(payload, &e); err != nil {
			slog.Warn("dropping malformed event", "channel", ch, "id", id, "error", err)
			continue
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, after, err
	}
	return events, last, nil
}

// Close stops every subscription and waits for their pollers to exit. Call
// it before closing the Storage.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	subs := make([]*subscription, 0, len(eb.subs))
	for s := range eb.subs {
		subs = append(subs, s)
	}
	eb.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

type subscription struct {
	bus    *EventBus
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *subscription) Unsubscribe() {
	s.cancel()
	<-s.done

	s.bus.mu.Lock()
	delete(s.bus.subs, s)
	s.bus.mu.Unlock()
}
