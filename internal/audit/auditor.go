// Package audit records who looked at a card, without ever getting in the
// way. Recording is fire-and-forget: events queue on a buffered channel,
// a single worker persists them, and anything that goes wrong is logged
// and dropped. A disclosure request must never fail because its audit
// write did.
package audit

import (
	"context"

	"github.com/unicorn-byte/emergency-card/internal/logger"
	"github.com/unicorn-byte/emergency-card/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type event struct {
	publicID  string
	ipAddress string
	userAgent string
}

type Auditor struct {
	db     *gorm.DB
	events chan event
}

// New creates an auditor with the given queue depth. Run must be started
// before events are drained.
func New(db *gorm.DB, queueSize int) *Auditor {
	return &Auditor{
		db:     db,
		events: make(chan event, queueSize),
	}
}

// Record queues one access event. It never blocks: when the queue is full
// the event is dropped, which the disclosure contract explicitly allows.
func (a *Auditor) Record(publicID, ipAddress, userAgent string) {
	select {
	case a.events <- event{publicID: publicID, ipAddress: ipAddress, userAgent: userAgent}:
	default:
		logger.L.Warn("audit queue full, dropping access event",
			zap.String("public_id", publicID))
	}
}

// Run drains the queue until ctx is cancelled, then flushes whatever is
// still buffered. This is the one place where persistence errors are
// deliberately discarded.
func (a *Auditor) Run(ctx context.Context) error {
	for {
		select {
		case ev := <-a.events:
			a.persist(ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-a.events:
					a.persist(ev)
				default:
					return nil
				}
			}
		}
	}
}

func (a *Auditor) persist(ev event) {
	if err := repositories.RecordAccess(a.db, ev.publicID, ev.ipAddress, ev.userAgent); err != nil {
		logger.L.Warn("failed to write access log",
			zap.String("public_id", ev.publicID),
			zap.Error(err))
	}
}
