package monitor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/farmq/farmq/internal/config"
	"github.com/farmq/farmq/internal/errors"
	"github.com/farmq/farmq/internal/logger"
	"github.com/farmq/farmq/internal/sched"
	"github.com/farmq/farmq/internal/stats"
)

// connectedMsg signals that discovery and login completed.
type connectedMsg struct{}

// snapshotMsg delivers a fresh copy of the accepted records.
type snapshotMsg struct {
	records []stats.NodeRecord
}

// sessionDoneMsg signals that the streaming session is over. A nil error
// means the scheduler ended it cleanly.
type sessionDoneMsg struct {
	err error
}

// Watch runs a live monitoring session, forwarding dashboard updates
// through send. Unlike one-shot ingestion it rides out quiet stretches:
// a receive timeout just means no news yet. It returns when the session
// ends, with the error the dashboard was told about (nil for a clean
// scheduler shutdown).
func Watch(provider sched.Provider, opts config.Options, log logger.Logger, send func(tea.Msg)) error {
	connector := NewConnector(provider, opts, log)
	channel, err := connector.Connect()
	if err != nil {
		send(sessionDoneMsg{err: err})
		return err
	}
	defer channel.Close()
	send(connectedMsg{})

	var acc accumulator
	for {
		switch channel.PollReadable(opts.RecvTimeout) {
		case sched.PollTimeout:
			continue
		case sched.PollError:
			err := errors.New(errors.ErrConnect,
				"Reading from the scheduler failed",
				"The connection may have been dropped; try again.")
			send(sessionDoneMsg{err: err})
			return err
		}

		changed := false
		for channel.HasMessage() {
			msg := channel.NextMessage()
			if msg == nil {
				err := errors.New(errors.ErrConnect,
					"Channel signaled a message but none could be read",
					"This is a protocol violation; the scheduler and farmq versions may not match.")
				send(sessionDoneMsg{err: err})
				return err
			}

			switch msg.Kind {
			case sched.KindStats:
				rec, ok := stats.Parse(msg.HostID, msg.StatsBlob)
				if !ok {
					log.Debug("discarding malformed stats blob for host %d", msg.HostID)
					continue
				}
				if acc.accept(rec) {
					changed = true
				}
			case sched.KindEnd:
				log.Debug("scheduler ended the session")
				send(sessionDoneMsg{})
				return nil
			default:
				log.Debug("ignoring message of kind %d", msg.Kind)
			}
		}

		if changed {
			send(snapshotMsg{records: acc.snapshot()})
		}
	}
}
