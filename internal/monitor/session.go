// Package monitor drives one monitoring session against the scheduler:
// connect, ingest the stats broadcast, aggregate, and (for watch mode)
// feed the live dashboard.
package monitor

import (
	"time"

	"github.com/farmq/farmq/internal/config"
	"github.com/farmq/farmq/internal/errors"
	"github.com/farmq/farmq/internal/logger"
	"github.com/farmq/farmq/internal/sched"
)

// SessionState tracks the connection state machine.
type SessionState int

const (
	StateDiscovering SessionState = iota
	StateConnected
	StateLoggedIn
	StatePolling
	StateFailed
	StateTimedOut
)

// String returns a human-readable state name.
func (s SessionState) String() string {
	switch s {
	case StateDiscovering:
		return "discovering"
	case StateConnected:
		return "connected"
	case StateLoggedIn:
		return "logged in"
	case StatePolling:
		return "polling"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// Discovery pacing: attempts are poll-based, so back off briefly between
// them, and cap the attempt count alongside the wall-clock deadline.
const (
	discoveryRetryDelay = 100 * time.Millisecond
	maxDiscoveryRetries = 50
)

// Connector owns discovery and login against the connection provider.
type Connector struct {
	provider sched.Provider
	opts     config.Options
	log      logger.Logger
	state    SessionState
}

// NewConnector creates a connector. The options value is the complete
// configuration; nothing else is consulted.
func NewConnector(provider sched.Provider, opts config.Options, log logger.Logger) *Connector {
	if log == nil {
		log = logger.Noop()
	}
	return &Connector{
		provider: provider,
		opts:     opts,
		log:      log,
		state:    StateDiscovering,
	}
}

// State returns the current state machine position.
func (c *Connector) State() SessionState {
	return c.state
}

// Connect runs discovery until a channel is obtained or the connect timeout
// expires, then enables bulk transfer and logs in. On success the caller
// owns the returned channel and must close it.
func (c *Connector) Connect() (sched.Channel, error) {
	session, err := c.provider.Discover(
		c.opts.NetName, c.opts.ConnectTimeout, c.opts.SchedulerAddr, c.opts.SchedulerPort)
	if err != nil {
		c.state = StateFailed
		return nil, errors.WrapWithCode(err, errors.ErrConnect,
			"Could not start scheduler discovery",
			"Check your network configuration.")
	}
	defer session.Close()

	// Elapsed time rides Go's monotonic clock, so wall-clock jumps cannot
	// stretch or shrink the deadline.
	start := time.Now()
	var channel sched.Channel
	retries := 0
	for {
		if session.TimedOut() || time.Since(start) > c.opts.ConnectTimeout {
			break
		}
		channel = session.TryGetChannel()
		if channel != nil {
			break
		}
		retries++
		if retries > maxDiscoveryRetries {
			break
		}
		c.log.Debug("no scheduler yet, retry no. %d", retries)
		time.Sleep(discoveryRetryDelay)
	}

	if channel == nil {
		c.state = StateTimedOut
		// The provider's timeout signal can arrive with a reporting
		// delay, so consult it once more now that the loop is done.
		if session.TimedOut() {
			return nil, errors.New(errors.ErrConnect,
				"Scheduler discovery timed out",
				"Check that a scheduler is running, or point --scheduler at it directly.")
		}
		return nil, errors.New(errors.ErrConnect,
			"Could not reach a scheduler",
			"Check that a scheduler is running, or raise --connect-timeout.")
	}
	c.state = StateConnected
	c.log.Debug("connected after %d retries in %s", retries, time.Since(start).Round(time.Millisecond))

	// Streaming mode goes on before login so the stats stream never pays
	// per-message framing overhead.
	channel.EnableBulkTransfer()

	if !channel.SendLogin() {
		_ = channel.Close()
		c.state = StateFailed
		return nil, errors.New(errors.ErrConnect,
			"Scheduler rejected the monitor login",
			"The scheduler may be restricting monitor connections.")
	}
	c.state = StateLoggedIn
	return channel, nil
}
