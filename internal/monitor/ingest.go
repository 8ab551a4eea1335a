package monitor

import (
	"time"

	"github.com/farmq/farmq/internal/errors"
	"github.com/farmq/farmq/internal/logger"
	"github.com/farmq/farmq/internal/sched"
	"github.com/farmq/farmq/internal/stats"
)

// maxUselessPolls bounds ingestion: after this many consecutive drains
// that accepted nothing, the stream is considered fully sampled.
const maxUselessPolls = 3

// Ingestor pulls the stats broadcast off a channel until the stream goes
// quiet. Termination is the useless-streak policy: a receive timeout, or
// maxUselessPolls consecutive poll rounds with zero accepted records, ends
// ingestion normally; I/O failures and end-of-session are fatal.
type Ingestor struct {
	recvTimeout time.Duration
	log         logger.Logger
}

// NewIngestor creates an ingestor with the given receive timeout.
func NewIngestor(recvTimeout time.Duration, log logger.Logger) *Ingestor {
	if log == nil {
		log = logger.Noop()
	}
	return &Ingestor{recvTimeout: recvTimeout, log: log}
}

// accumulator applies the scheduler's hostID freshness rule: a record is
// accepted only when its hostID exceeds every previously accepted one, so
// a stale rebroadcast never displaces a newer sample.
type accumulator struct {
	records   []stats.NodeRecord
	highWater uint32
}

func (a *accumulator) accept(rec stats.NodeRecord) bool {
	if rec.HostID <= a.highWater {
		return false
	}
	a.records = append(a.records, rec)
	a.highWater = rec.HostID
	return true
}

// snapshot returns an independent copy of the accepted records.
func (a *accumulator) snapshot() []stats.NodeRecord {
	return append([]stats.NodeRecord(nil), a.records...)
}

// Run ingests until the termination policy fires. The returned records are
// complete and immutable; an empty slice with a nil error means the stream
// produced no usable data, which is the caller's distinction to report.
func (g *Ingestor) Run(channel sched.Channel) ([]stats.NodeRecord, error) {
	var acc accumulator
	useless := 0

	for {
		switch channel.PollReadable(g.recvTimeout) {
		case sched.PollTimeout:
			// Quiet wire is "no data", not an error.
			g.log.Debug("no data within %s, ingestion complete", g.recvTimeout)
			return acc.records, nil
		case sched.PollError:
			return nil, errors.New(errors.ErrConnect,
				"Reading from the scheduler failed",
				"The connection may have been dropped; try again.")
		}

		accepted := 0
		for channel.HasMessage() {
			msg := channel.NextMessage()
			if msg == nil {
				return nil, errors.New(errors.ErrConnect,
					"Channel signaled a message but none could be read",
					"This is a protocol violation; the scheduler and farmq versions may not match.")
			}

			switch msg.Kind {
			case sched.KindStats:
				rec, ok := stats.Parse(msg.HostID, msg.StatsBlob)
				if !ok {
					g.log.Debug("discarding malformed stats blob for host %d", msg.HostID)
					continue
				}
				if acc.accept(rec) {
					accepted++
				}
			case sched.KindEnd:
				// Always fatal, even with records already in hand.
				return nil, errors.New(errors.ErrConnect,
					"Scheduler ended the session",
					"The scheduler has shut down or dropped this monitor.")
			default:
				g.log.Debug("ignoring message of kind %d", msg.Kind)
			}
		}

		if accepted == 0 {
			useless++
			if useless >= maxUselessPolls {
				g.log.Debug("%d poll rounds without new records, ingestion complete", useless)
				return acc.records, nil
			}
		} else {
			useless = 0
		}
	}
}
