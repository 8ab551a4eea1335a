package sched

import (
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"github.com/farmq/farmq/internal/logger"
)

// Wire framing: every frame is a 4-byte big-endian length (covering type +
// payload), a 4-byte big-endian type tag, then the payload. Stats payloads
// are a 4-byte host ID followed by the UTF-8 blob.
const (
	msgTypeLogin uint32 = 0x6C // monitor login announcement
	msgTypeStats uint32 = 0x73 // per-node stats broadcast
	msgTypeEnd   uint32 = 0x65 // scheduler is shutting the session down

	frameHeaderLen = 8
	maxFrameLen    = 1 << 20

	// Discovery datagrams: query carries the net name, the scheduler
	// answers from its own address with the matching announce.
	discoverMagic = "FARMQ?"
	announceMagic = "FARMQ!"

	// Per-attempt budgets inside TryGetChannel, kept small so the caller's
	// retry loop stays responsive.
	udpReplyWait    = 200 * time.Millisecond
	dialAttemptWait = 500 * time.Millisecond
)

// NetProvider implements Provider over UDP discovery and a framed TCP
// stream.
type NetProvider struct {
	log logger.Logger
}

// NewNetProvider creates the standard network provider.
func NewNetProvider(log logger.Logger) *NetProvider {
	if log == nil {
		log = logger.Noop()
	}
	return &NetProvider{log: log}
}

// Discover starts a discovery session. With a direct addr the session skips
// broadcasting and just dials.
func (p *NetProvider) Discover(netName string, timeout time.Duration, addr string, port int) (Session, error) {
	s := &netSession{
		log:     p.log,
		netName: netName,
		timeout: timeout,
		port:    port,
		target:  addr,
		start:   time.Now(),
	}
	if addr == "" {
		conn, err := net.ListenUDP("udp4", &net.UDPAddr{})
		if err != nil {
			return nil, fmt.Errorf("discovery socket: %w", err)
		}
		s.udp = conn
	}
	return s, nil
}

type netSession struct {
	log      logger.Logger
	netName  string
	timeout  time.Duration
	port     int
	target   string // scheduler host, empty until discovered
	start    time.Time
	udp      *net.UDPConn
	timedOut bool
}

func (s *netSession) TryGetChannel() Channel {
	if s.TimedOut() {
		return nil
	}

	if s.target == "" {
		if !s.broadcastOnce() {
			return nil
		}
	}

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(s.target, fmt.Sprintf("%d", s.port)), dialAttemptWait)
	if err != nil {
		s.log.Debug("dial %s:%d: %v", s.target, s.port, err)
		return nil
	}
	return newNetChannel(conn)
}

// broadcastOnce sends one discovery query and waits briefly for an answer.
// Returns true once the scheduler's address is known.
func (s *netSession) broadcastOnce() bool {
	dst := &net.UDPAddr{IP: net.IPv4bcast, Port: s.port}
	query := append([]byte(discoverMagic), []byte(s.netName)...)
	if _, err := s.udp.WriteToUDP(query, dst); err != nil {
		s.log.Debug("discovery broadcast: %v", err)
		return false
	}

	reply := make([]byte, 512)
	_ = s.udp.SetReadDeadline(time.Now().Add(udpReplyWait))
	n, from, err := s.udp.ReadFromUDP(reply)
	if err != nil {
		return false
	}
	want := announceMagic + s.netName
	if string(reply[:n]) != want {
		s.log.Debug("ignoring discovery reply from %s", from)
		return false
	}
	s.target = from.IP.String()
	s.log.Debug("scheduler for net %q announced at %s", s.netName, s.target)
	return true
}

func (s *netSession) TimedOut() bool {
	if s.timedOut {
		return true
	}
	if time.Since(s.start) > s.timeout {
		s.timedOut = true
	}
	return s.timedOut
}

func (s *netSession) Close() error {
	if s.udp != nil {
		return s.udp.Close()
	}
	return nil
}

// netChannel owns a framed TCP stream. Incoming bytes are buffered raw and
// parsed into complete messages; partially-framed tails stay in the buffer
// until more data arrives.
type netChannel struct {
	conn    net.Conn
	buf     []byte
	queue   []*Message
	corrupt bool
}

func newNetChannel(conn net.Conn) *netChannel {
	return &netChannel{conn: conn}
}

func (c *netChannel) EnableBulkTransfer() {
	// Streaming mode: let the kernel coalesce the stats stream instead of
	// flushing per message.
	if tcp, ok := c.conn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(false)
	}
}

func (c *netChannel) SendLogin() bool {
	return c.writeFrame(msgTypeLogin, nil) == nil
}

func (c *netChannel) writeFrame(msgType uint32, payload []byte) error {
	frame := make([]byte, frameHeaderLen+len(payload))
	binary.BigEndian.PutUint32(frame[0:4], uint32(4+len(payload)))
	binary.BigEndian.PutUint32(frame[4:8], msgType)
	copy(frame[frameHeaderLen:], payload)
	_, err := c.conn.Write(frame)
	return err
}

func (c *netChannel) PollReadable(timeout time.Duration) PollResult {
	if c.corrupt {
		return PollError
	}
	if len(c.queue) > 0 {
		return PollReady
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	chunk := make([]byte, 16*1024)
	n, err := c.conn.Read(chunk)
	if n > 0 {
		c.buf = append(c.buf, chunk[:n]...)
		c.decodeFrames()
		if c.corrupt {
			return PollError
		}
	}
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			if len(c.queue) > 0 {
				return PollReady
			}
			return PollTimeout
		}
		return PollError
	}
	return PollReady
}

// decodeFrames peels complete frames off the raw buffer.
func (c *netChannel) decodeFrames() {
	for len(c.buf) >= frameHeaderLen {
		length := binary.BigEndian.Uint32(c.buf[0:4])
		if length < 4 || length > maxFrameLen {
			c.corrupt = true
			return
		}
		total := 4 + int(length)
		if len(c.buf) < total {
			return
		}
		msgType := binary.BigEndian.Uint32(c.buf[4:8])
		payload := c.buf[frameHeaderLen:total]
		c.queue = append(c.queue, decodeMessage(msgType, payload))
		c.buf = c.buf[total:]
	}
}

func decodeMessage(msgType uint32, payload []byte) *Message {
	switch msgType {
	case msgTypeStats:
		if len(payload) < 4 {
			return &Message{Kind: KindOther}
		}
		return &Message{
			Kind:      KindStats,
			HostID:    binary.BigEndian.Uint32(payload[0:4]),
			StatsBlob: string(payload[4:]),
		}
	case msgTypeEnd:
		return &Message{Kind: KindEnd}
	default:
		return &Message{Kind: KindOther}
	}
}

func (c *netChannel) HasMessage() bool {
	return len(c.queue) > 0
}

func (c *netChannel) NextMessage() *Message {
	if len(c.queue) == 0 {
		return nil
	}
	msg := c.queue[0]
	c.queue = c.queue[1:]
	return msg
}

func (c *netChannel) Close() error {
	return c.conn.Close()
}
