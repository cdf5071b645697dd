// Package protocol implements the OpenRGB SDK network session: one
// persistent TCP connection carrying framed request/response exchanges and
// unsolicited server notifications.
//
// The wire protocol has no request-correlation identifier, so a session
// allows at most one outstanding request at a time; concurrent callers
// queue behind the request lock.  A dedicated goroutine owns all reads
// from the socket.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/jath03/openrgb-go/common"
	"github.com/jath03/openrgb-go/protocol/packet"
)

const (
	// MaxProtocolVersion is the newest SDK protocol version this library
	// speaks
	MaxProtocolVersion = 4
	// DefaultPort is the OpenRGB SDK server's default listen port
	DefaultPort = 6742
)

type waiter struct {
	deviceIndex uint32
	packetType  packet.PacketType
	ch          chan []byte
}

// Session is a single connection to an SDK server.  A torn-down Session is
// terminal: every operation fails with common.ErrDisconnected until
// Reconnect establishes a fresh connection.
type Session struct {
	host      string
	port      int
	name      string
	requested uint32
	version   uint32
	timeout   time.Duration

	conn          net.Conn
	connected     bool
	done          chan struct{}
	waiter        *waiter
	subscriptions map[string]*common.Subscription

	writeMu sync.Mutex // frame ordering on the wire
	reqMu   sync.Mutex // single outstanding request
	sync.RWMutex
}

// Connect dials the SDK server, negotiates the protocol version (requested
// capped at MaxProtocolVersion; servers that predate negotiation are
// treated as version 0), and registers name as the client's display name.
// timeout of zero selects common.DefaultTimeout for all requests.
func Connect(host string, port int, name string, requested uint32, timeout time.Duration) (*Session, error) {
	if requested > MaxProtocolVersion {
		return nil, fmt.Errorf(`%w: requested version %d exceeds maximum supported %d`, common.ErrProtocolVersion, requested, MaxProtocolVersion)
	}
	if port == 0 {
		port = DefaultPort
	}
	if timeout == 0 {
		timeout = common.DefaultTimeout
	}
	s := &Session{
		host:          host,
		port:          port,
		name:          name,
		requested:     requested,
		timeout:       timeout,
		subscriptions: make(map[string]*common.Subscription),
	}
	if err := s.dial(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) dial() error {
	addr := net.JoinHostPort(s.host, fmt.Sprintf(`%d`, s.port))
	conn, err := net.Dial(`tcp`, addr)
	if err != nil {
		return fmt.Errorf(`%w: %v`, common.ErrConnectionRefused, err)
	}

	s.Lock()
	s.conn = conn
	s.connected = true
	s.done = make(chan struct{})
	s.waiter = nil
	done := s.done
	s.Unlock()

	go s.readLoop(conn, done)

	if err := s.handshake(); err != nil {
		_ = s.Close()
		return err
	}
	common.Log.Infof("Connected to %s as %q (protocol version %d)", addr, s.name, s.Version())
	return nil
}

// handshake negotiates the protocol version and sends the client name.
// Servers older than version negotiation never reply; a timeout downgrades
// the session to version 0 rather than failing.
func (s *Session) handshake() error {
	payload, err := s.request(0, packet.RequestProtocolVersion, packet.ProtocolVersionPayload(s.requested), common.HandshakeTimeout)
	switch {
	case errors.Is(err, common.ErrTimeout):
		s.setVersion(0)
	case err != nil:
		return err
	case len(payload) < 4:
		return fmt.Errorf(`%w: short protocol version reply`, common.ErrFraming)
	default:
		server := binary.LittleEndian.Uint32(payload)
		if server < s.requested {
			s.setVersion(server)
		} else {
			s.setVersion(s.requested)
		}
	}
	return s.Send(0, packet.SetClientName, packet.ClientNamePayload(s.name))
}

func (s *Session) setVersion(v uint32) {
	s.Lock()
	s.version = v
	s.Unlock()
}

// Version returns the protocol version negotiated with the server.
func (s *Session) Version() uint32 {
	s.RLock()
	defer s.RUnlock()
	return s.version
}

// Connected reports whether the session is usable.
func (s *Session) Connected() bool {
	s.RLock()
	defer s.RUnlock()
	return s.connected
}

// Timeout returns the default request timeout.
func (s *Session) Timeout() time.Duration {
	return s.timeout
}

// Send writes a framed fire-and-forget command.  It returns once the write
// has succeeded; the server sends no acknowledgement, so acceptance can
// only be confirmed by a later state refresh.
func (s *Session) Send(deviceIndex uint32, packetType packet.PacketType, payload []byte) error {
	if err := s.checkVersion(packetType); err != nil {
		return err
	}
	return s.write(deviceIndex, packetType, payload)
}

// Request writes a framed command and blocks until a reply with a matching
// device index and packet type arrives, the timeout elapses, or the
// session disconnects.  A timeout of zero selects the session default.
// Requests are never retried automatically: a duplicate hardware command
// is not safe to assume idempotent.
func (s *Session) Request(deviceIndex uint32, packetType packet.PacketType, payload []byte, timeout time.Duration) ([]byte, error) {
	if err := s.checkVersion(packetType); err != nil {
		return nil, err
	}
	return s.request(deviceIndex, packetType, payload, timeout)
}

func (s *Session) request(deviceIndex uint32, packetType packet.PacketType, payload []byte, timeout time.Duration) ([]byte, error) {
	s.reqMu.Lock()
	defer s.reqMu.Unlock()

	if timeout <= 0 {
		timeout = s.timeout
	}

	w := &waiter{deviceIndex: deviceIndex, packetType: packetType, ch: make(chan []byte, 1)}

	// Register before writing so a reply racing the write cannot be
	// mistaken for a notification
	s.Lock()
	if !s.connected {
		s.Unlock()
		return nil, common.ErrDisconnected
	}
	done := s.done
	s.waiter = w
	s.Unlock()

	if err := s.write(deviceIndex, packetType, payload); err != nil {
		s.dropWaiter(w)
		return nil, err
	}

	select {
	case body := <-w.ch:
		return body, nil
	case <-time.After(timeout):
		// Release the registration so a late reply cannot wake an
		// unrelated future waiter
		s.dropWaiter(w)
		return nil, common.ErrTimeout
	case <-done:
		return nil, common.ErrDisconnected
	}
}

func (s *Session) dropWaiter(w *waiter) {
	s.Lock()
	if s.waiter == w {
		s.waiter = nil
	}
	s.Unlock()
}

func (s *Session) write(deviceIndex uint32, packetType packet.PacketType, payload []byte) error {
	s.RLock()
	conn, connected := s.conn, s.connected
	s.RUnlock()
	if !connected {
		return common.ErrDisconnected
	}

	s.writeMu.Lock()
	err := packet.WriteMessage(conn, deviceIndex, packetType, payload)
	s.writeMu.Unlock()
	if err != nil {
		// A failed write leaves the stream in an unknown state; degrade
		// rather than retry, since retrying a stateful hardware command
		// could double-apply it
		s.teardown(err)
		return fmt.Errorf(`%w: write failed: %v`, common.ErrDisconnected, err)
	}
	return nil
}

func (s *Session) readLoop(conn net.Conn, done chan struct{}) {
	for {
		hdr, payload, err := packet.ReadMessage(conn)
		if err != nil {
			if errors.Is(err, common.ErrFraming) {
				// The stream offset is unrecoverable after a framing error
				common.Log.Errorf("Failed decoding message: %v", err)
			}
			select {
			case <-done:
			default:
				s.teardown(err)
			}
			return
		}
		s.dispatch(hdr, payload)
	}
}

func (s *Session) dispatch(hdr packet.Header, payload []byte) {
	if hdr.Type == packet.DeviceListUpdated {
		common.Log.Debugf("Device list updated notification")
		s.publish(common.EventDeviceListUpdated{})
		return
	}

	s.Lock()
	w := s.waiter
	if w != nil && w.deviceIndex == hdr.DeviceIndex && w.packetType == hdr.Type {
		s.waiter = nil
		s.Unlock()
		w.ch <- payload
		return
	}
	s.Unlock()
	common.Log.Warnf("Dropping unexpected message: device %d, type %d, %d bytes", hdr.DeviceIndex, hdr.Type, len(payload))
}

// checkVersion rejects commands the negotiated protocol version does not
// carry.
func (s *Session) checkVersion(packetType packet.PacketType) error {
	version := s.Version()
	switch packetType {
	case packet.RequestProfileList, packet.RequestSaveProfile, packet.RequestLoadProfile, packet.RequestDeleteProfile:
		if version < 2 {
			return fmt.Errorf(`%w: profile controls require protocol version 2, have %d`, common.ErrProtocolVersion, version)
		}
	case packet.SaveMode:
		if version < 3 {
			return fmt.Errorf(`%w: saving modes requires protocol version 3, have %d`, common.ErrProtocolVersion, version)
		}
	}
	return nil
}

func (s *Session) teardown(cause error) {
	s.Lock()
	if !s.connected {
		s.Unlock()
		return
	}
	s.connected = false
	conn, done := s.conn, s.done
	s.waiter = nil
	s.Unlock()

	_ = conn.Close()
	// Wake every blocked waiter with a disconnected error
	close(done)
	if cause != nil {
		common.Log.Warnf("Connection lost: %v", cause)
	}
	s.publish(common.EventDisconnected{Err: cause})
}

// Close tears down the session.  All blocked requests wake with
// common.ErrDisconnected, and any later operation fails fast.
func (s *Session) Close() error {
	if !s.Connected() {
		return common.ErrClosed
	}
	s.teardown(nil)
	return nil
}

// Reconnect tears down any live connection and re-dials with the
// last-used parameters, re-running the handshake.  The device mirror is
// not valid across a reconnect; callers must re-enumerate devices.
func (s *Session) Reconnect() error {
	if s.Connected() {
		s.teardown(nil)
	}
	return s.dial()
}

// NewSubscription returns a new *common.Subscription for receiving
// notification events from this session.
func (s *Session) NewSubscription() (*common.Subscription, error) {
	sub := common.NewSubscription(s)
	s.Lock()
	s.subscriptions[sub.ID()] = sub
	s.Unlock()
	return sub, nil
}

// CloseSubscription is a callback for handling the closing of
// subscriptions.
func (s *Session) CloseSubscription(sub *common.Subscription) error {
	s.RLock()
	_, ok := s.subscriptions[sub.ID()]
	s.RUnlock()
	if !ok {
		return common.ErrNotFound
	}
	s.Lock()
	delete(s.subscriptions, sub.ID())
	s.Unlock()
	return nil
}

func (s *Session) publish(event interface{}) {
	s.RLock()
	subs := make([]*common.Subscription, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		subs = append(subs, sub)
	}
	s.RUnlock()

	for _, sub := range subs {
		if err := sub.Write(event); err != nil {
			common.Log.Warnf("Failed publishing event to subscription %s: %v", sub.ID(), err)
		}
	}
}
