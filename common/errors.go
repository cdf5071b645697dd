package common

import (
	"errors"
	"time"
)

const (
	// DefaultTimeout is the default duration to wait for a server reply
	// before a request is abandoned
	DefaultTimeout = 2 * time.Second
	// HandshakeTimeout is how long version negotiation waits for a reply
	// from servers that predate version negotiation
	HandshakeTimeout = 1 * time.Second
)

var (
	// ErrConnectionRefused is returned when no server is reachable at the
	// requested address
	ErrConnectionRefused = errors.New(`connection refused`)
	// ErrDisconnected is returned by any operation attempted, or
	// interrupted, after the connection has been torn down
	ErrDisconnected = errors.New(`not connected`)
	// ErrTimeout is returned when no matching reply arrives within the
	// deadline
	ErrTimeout = errors.New(`timed out`)
	// ErrFraming is returned for malformed or truncated wire messages
	ErrFraming = errors.New(`framing error`)
	// ErrBounds is returned when an offset/length or resize request falls
	// outside the valid range for its target
	ErrBounds = errors.New(`out of bounds`)
	// ErrModeNotFound is returned when a mode reference resolves to no mode
	// on the target device
	ErrModeNotFound = errors.New(`mode not found`)
	// ErrUnsupported is returned when a required capability is absent from
	// the target's capability flags
	ErrUnsupported = errors.New(`capability not supported`)
	// ErrProtocolVersion is returned when a command requires a newer
	// protocol version than the server negotiated
	ErrProtocolVersion = errors.New(`unsupported protocol version`)
	// ErrProfileMismatch is returned when a local profile disagrees with
	// the shape of the live session
	ErrProfileMismatch = errors.New(`profile does not match connected devices`)
	// ErrNotFound is returned when a lookup matches nothing
	ErrNotFound = errors.New(`not found`)
	// ErrClosed is returned on operations against a closed resource
	ErrClosed = errors.New(`already closed`)
	// ErrDuplicate is returned when adding an item that is already known
	ErrDuplicate = errors.New(`duplicate item`)
)
