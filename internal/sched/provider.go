// Package sched is the connection boundary to the build-farm scheduler:
// discovery, the framed message channel, and the closed set of message
// kinds farmq consumes.
package sched

import "time"

// MessageKind distinguishes the message variants consumed from the
// scheduler's broadcast stream. Everything else on the wire decodes to
// KindOther and is ignored upstream.
type MessageKind int

const (
	KindOther MessageKind = iota
	KindStats             // carries a hostID and a raw stats blob
	KindEnd               // scheduler terminated the session
)

// Message is the decoded wire message. It is a closed variant: the kind is
// decided once, at the channel boundary.
type Message struct {
	Kind      MessageKind
	HostID    uint32 // set for KindStats
	StatsBlob string // set for KindStats
}

// PollResult is the outcome of one bounded wait for channel readability.
type PollResult int

const (
	PollReady PollResult = iota
	PollTimeout
	PollError
)

// Channel is a live, framed message stream from the scheduler.
type Channel interface {
	// EnableBulkTransfer switches the channel into streaming mode.
	// Called immediately after connecting, before login.
	EnableBulkTransfer()
	// SendLogin announces this client as a monitor. False means the
	// scheduler rejected or the send failed.
	SendLogin() bool
	// PollReadable waits, bounded by timeout, for data to arrive.
	PollReadable(timeout time.Duration) PollResult
	// HasMessage reports whether a fully-framed message is buffered.
	HasMessage() bool
	// NextMessage pops the next buffered message, nil if none. A nil
	// result while HasMessage reported true is a protocol violation.
	NextMessage() *Message
	Close() error
}

// Session is an in-progress discovery attempt.
type Session interface {
	// TryGetChannel polls for an established channel without blocking
	// for the whole discovery; nil means not connected yet.
	TryGetChannel() Channel
	// TimedOut reports the provider's own timeout condition. The signal
	// may arrive with a reporting delay, so callers check it again after
	// their own deadline fires.
	TimedOut() bool
	Close() error
}

// Provider starts discovery sessions. addr may be empty, in which case the
// scheduler is located by broadcasting netName on the local network.
type Provider interface {
	Discover(netName string, timeout time.Duration, addr string, port int) (Session, error)
}
