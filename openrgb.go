// Package openrgb provides a Go client for the OpenRGB SDK server,
// allowing manufacturer-independent control of RGB lighting devices:
// enumerating devices, changing colors and modes, resizing zones, and
// saving/loading profiles.
//
// Also included in cmd/openrgb is a small CLI utility for interacting with
// an SDK server from the shell.
package openrgb

import (
	"time"

	"github.com/jath03/openrgb-go/common"
	"github.com/jath03/openrgb-go/protocol"
)

const (
	// VERSION of this library
	VERSION = `0.1.0`

	// DefaultHost is where the SDK server is assumed to listen unless
	// told otherwise
	DefaultHost = `127.0.0.1`
	// DefaultName is the client name shown in the server's client list
	DefaultName = `openrgb-go`
)

// Options configures a Client.  The zero value connects to a local server
// with defaults.
type Options struct {
	// Host of the SDK server, DefaultHost when empty
	Host string
	// Port of the SDK server, protocol.DefaultPort when zero
	Port int
	// Name displayed in the server's client list, DefaultName when empty
	Name string
	// ProtocolVersion caps version negotiation; nil negotiates the newest
	// version this library supports
	ProtocolVersion *uint32
	// Timeout bounds every request/response exchange,
	// common.DefaultTimeout when zero
	Timeout time.Duration
	// ProfileDirectory overrides where local profiles are read and
	// written; empty selects the platform config directory
	ProfileDirectory string
}

// NewClient connects to an SDK server, negotiates the protocol version,
// and enumerates the available devices.  It fails with a wrapped
// common.ErrConnectionRefused when no server is reachable.
func NewClient(options Options) (*Client, error) {
	if options.Host == `` {
		options.Host = DefaultHost
	}
	if options.Port == 0 {
		options.Port = protocol.DefaultPort
	}
	if options.Name == `` {
		options.Name = DefaultName
	}
	requested := uint32(protocol.MaxProtocolVersion)
	if options.ProtocolVersion != nil {
		requested = *options.ProtocolVersion
	}

	session, err := protocol.Connect(options.Host, options.Port, options.Name, requested, options.Timeout)
	if err != nil {
		return nil, err
	}

	c := &Client{
		options:       options,
		session:       session,
		subscriptions: make(map[string]*common.Subscription),
		quitChan:      make(chan struct{}),
	}
	c.sessionSub, err = session.NewSubscription()
	if err != nil {
		_ = session.Close()
		return nil, err
	}
	go c.listen()

	if err := c.Update(); err != nil {
		_ = c.Close()
		return nil, err
	}
	if session.Version() >= 2 {
		if err := c.UpdateProfiles(); err != nil {
			common.Log.Warnf("Failed fetching profile list: %v", err)
		}
	}
	return c, nil
}

// SetLogger allows assigning a custom levelled logger that conforms to the
// common.Logger interface.  To capture logs generated during client
// creation, this should be called before creating a Client.  Defaults to
// common.StubLogger, which does no logging at all.
func SetLogger(logger common.Logger) {
	common.SetLogger(logger)
}
