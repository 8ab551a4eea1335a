// Package schedtest provides test doubles for the sched package.
package schedtest

import (
	"time"

	"github.com/farmq/farmq/internal/sched"
)

// FakeChannel is a scripted channel. Polls holds the outcome of each
// PollReadable call in order (exhausted → PollTimeout); after the i-th
// PollReady the i-th batch of messages becomes available. A nil entry in a
// batch makes HasMessage claim a message that NextMessage cannot deliver,
// for exercising the protocol-violation path.
type FakeChannel struct {
	Polls       []sched.PollResult
	Batches     [][]*sched.Message
	RejectLogin bool

	// Tracking for assertions.
	BulkEnabled     bool
	LoginSent       bool
	BulkBeforeLogin bool
	Closed          bool

	pollIdx  int
	batchIdx int
	queue    []*sched.Message
}

var _ sched.Channel = (*FakeChannel)(nil)

func (c *FakeChannel) EnableBulkTransfer() {
	c.BulkEnabled = true
}

func (c *FakeChannel) SendLogin() bool {
	c.LoginSent = true
	c.BulkBeforeLogin = c.BulkEnabled
	return !c.RejectLogin
}

func (c *FakeChannel) PollReadable(timeout time.Duration) sched.PollResult {
	if c.pollIdx >= len(c.Polls) {
		return sched.PollTimeout
	}
	res := c.Polls[c.pollIdx]
	c.pollIdx++
	if res == sched.PollReady && c.batchIdx < len(c.Batches) {
		c.queue = append(c.queue, c.Batches[c.batchIdx]...)
		c.batchIdx++
	}
	return res
}

func (c *FakeChannel) HasMessage() bool {
	return len(c.queue) > 0
}

func (c *FakeChannel) NextMessage() *sched.Message {
	if len(c.queue) == 0 {
		return nil
	}
	msg := c.queue[0]
	c.queue = c.queue[1:]
	return msg
}

func (c *FakeChannel) Close() error {
	c.Closed = true
	return nil
}

// FakeSession hands out its channel after NilTries empty attempts.
// TimedOutAfter, when positive, makes TimedOut report true from that many
// calls onward, which simulates a provider timeout signal arriving late.
type FakeSession struct {
	Chan          sched.Channel
	NilTries      int
	TimedOutAfter int

	Tries         int
	TimedOutCalls int
	Closed        bool
}

var _ sched.Session = (*FakeSession)(nil)

func (s *FakeSession) TryGetChannel() sched.Channel {
	s.Tries++
	if s.Tries <= s.NilTries {
		return nil
	}
	return s.Chan
}

func (s *FakeSession) TimedOut() bool {
	s.TimedOutCalls++
	return s.TimedOutAfter > 0 && s.TimedOutCalls >= s.TimedOutAfter
}

func (s *FakeSession) Close() error {
	s.Closed = true
	return nil
}

// FakeProvider returns a fixed session (or error) and records the discovery
// arguments.
type FakeProvider struct {
	Session *FakeSession
	Err     error

	NetName string
	Timeout time.Duration
	Addr    string
	Port    int
}

var _ sched.Provider = (*FakeProvider)(nil)

func (p *FakeProvider) Discover(netName string, timeout time.Duration, addr string, port int) (sched.Session, error) {
	p.NetName = netName
	p.Timeout = timeout
	p.Addr = addr
	p.Port = port
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Session, nil
}

// StatsMsg is a convenience constructor for stats messages.
func StatsMsg(hostID uint32, blob string) *sched.Message {
	return &sched.Message{Kind: sched.KindStats, HostID: hostID, StatsBlob: blob}
}

// EndMsg is a convenience constructor for the end-of-session message.
func EndMsg() *sched.Message {
	return &sched.Message{Kind: sched.KindEnd}
}

// OtherMsg is a convenience constructor for an ignorable message.
func OtherMsg() *sched.Message {
	return &sched.Message{Kind: sched.KindOther}
}
