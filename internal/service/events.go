package service

import (
	"github.com/google/uuid"

	"github.com/tripcraft/tripcraft/internal/realtime"
)

// Publisher receives a notification after every committed mutation.
// *realtime.Broker satisfies it.
type Publisher interface {
	Publish(e realtime.Event) int
}

// nopPublisher discards events. Used when a service is built without a broker.
type nopPublisher struct{}

func (nopPublisher) Publish(realtime.Event) int { return 0 }

func orNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

func changed(p Publisher, table string, op realtime.Op, tripID, recordID uuid.UUID) {
	p.Publish(realtime.Event{Table: table, TripID: tripID, Op: op, RecordID: recordID})
}
