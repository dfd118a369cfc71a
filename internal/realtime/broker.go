// Package realtime fans out change notifications to in-process subscribers.
//
// Services publish an Event after every successful mutation; the HTTP layer
// subscribes on behalf of a client and streams matching events until the
// client goes away. Publishing never blocks: a subscriber whose buffer is
// full misses the event.
package realtime

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Op is the kind of change an Event reports.
type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Table names used as event topics.
const (
	TableTrips         = "trips"
	TableTripDays      = "trip_days"
	TableActivities    = "activities"
	TablePackingItems  = "packing_items"
	TableExpenses      = "expenses"
	TableNotes         = "notes"
	TableDocuments     = "documents"
	TableTripShares    = "trip_shares"
	TableCollaborators = "collaborators"
)

var tables = []string{
	TableTrips, TableTripDays, TableActivities, TablePackingItems, TableExpenses,
	TableNotes, TableDocuments, TableTripShares, TableCollaborators,
}

// KnownTable reports whether name is a table that publishes events.
func KnownTable(name string) bool {
	return slices.Contains(tables, name)
}

// Event describes one committed change. Only ids are carried; subscribers
// re-read whatever they need.
type Event struct {
	Table    string    `json:"table"`
	TripID   uuid.UUID `json:"tripId"`
	Op       Op        `json:"op"`
	RecordID uuid.UUID `json:"recordId"`
	At       time.Time `json:"at"`
}

// Topic selects events. An empty Table matches every table and a zero TripID
// matches every trip.
type Topic struct {
	Table  string
	TripID uuid.UUID
}

func (t Topic) matches(e Event) bool {
	return (t.Table == "" || t.Table == e.Table) &&
		(t.TripID == uuid.Nil || t.TripID == e.TripID)
}

var dropped = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tripcraft",
	Subsystem: "realtime",
	Name:      "dropped_events_total",
	Help:      "Events not delivered because a subscriber buffer was full.",
}, []string{"table"})

// Broker is an in-process publish/subscribe hub. The zero value is not
// usable; call NewBroker.
type Broker struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
	logger *slog.Logger
}

// NewBroker returns a broker whose subscriptions buffer up to buffer events.
// A nil logger discards.
func NewBroker(buffer int, logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Broker{
		subs:   make(map[*Subscription]struct{}),
		buffer: max(buffer, 1),
		logger: logger,
	}
}

// Subscription is a live listener. Events arrive on C until Cancel is called,
// after which C is closed.
type Subscription struct {
	C <-chan Event

	ch     chan Event
	topics []Topic
	broker *Broker
	once   sync.Once
}

// Cancel removes the listener and closes C. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.broker.mu.Lock()
		delete(s.broker.subs, s)
		close(s.ch)
		s.broker.mu.Unlock()
	})
}

// Subscribe registers a listener for events matching any of topics.
// The caller owns the subscription and must Cancel it.
func (b *Broker) Subscribe(topics ...Topic) *Subscription {
	ch := make(chan Event, b.buffer)
	s := &Subscription{C: ch, ch: ch, topics: topics, broker: b}

	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s
}

// Publish delivers e to every matching subscriber without blocking and
// returns how many received it. A zero At is stamped with the current time.
func (b *Broker) Publish(e Event) int {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for s := range b.subs {
		if !s.wants(e) {
			continue
		}
		select {
		case s.ch <- e:
			delivered++
		default:
			dropped.WithLabelValues(e.Table).Inc()
			b.logger.Warn("realtime event dropped",
				"table", e.Table,
				"trip_id", e.TripID,
				"op", e.Op,
			)
		}
	}
	return delivered
}

// Len reports the number of live subscriptions.
func (b *Broker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (s *Subscription) wants(e Event) bool {
	for _, t := range s.topics {
		if t.matches(e) {
			return true
		}
	}
	return false
}
