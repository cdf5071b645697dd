// Package packet implements the OpenRGB SDK wire format: the fixed
// 16-byte message header, the controller-descriptor binary layout, and the
// payload builders for every supported command.
//
// Everything in this package is a pure function of bytes; no I/O or shared
// state.  Framing problems are reported as errors wrapping
// common.ErrFraming, never as panics.
package packet

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jath03/openrgb-go/common"
)

const (
	// HeaderSize is the byte length of the fixed message header
	HeaderSize = 16
	// maxPayload caps the declared payload length so a corrupt header
	// cannot trigger an absurd allocation
	maxPayload = 16 << 20
)

// magic marks the start of every message
var magic = [4]byte{'O', 'R', 'G', 'B'}

// PacketType identifies the command (or notification) a message carries.
type PacketType uint32

const (
	RequestControllerCount PacketType = 0
	RequestControllerData  PacketType = 1
	RequestProtocolVersion PacketType = 40
	SetClientName          PacketType = 50
	DeviceListUpdated      PacketType = 100
	RequestProfileList     PacketType = 150
	RequestSaveProfile     PacketType = 151
	RequestLoadProfile     PacketType = 152
	RequestDeleteProfile   PacketType = 153
	ResizeZone             PacketType = 1000
	UpdateLEDs             PacketType = 1050
	UpdateZoneLEDs         PacketType = 1051
	UpdateSingleLED        PacketType = 1052
	SetCustomMode          PacketType = 1100
	UpdateMode             PacketType = 1101
	SaveMode               PacketType = 1102
)

// Header is the decoded fixed message header.  DeviceIndex is zero for
// connection-scoped messages.
type Header struct {
	DeviceIndex uint32
	Type        PacketType
	Length      uint32
}

// EncodeHeader returns the 16-byte wire form of a header.
func EncodeHeader(deviceIndex uint32, packetType PacketType, length uint32) [HeaderSize]byte {
	var buf [HeaderSize]byte
	copy(buf[:4], magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], deviceIndex)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(packetType))
	binary.LittleEndian.PutUint32(buf[12:16], length)
	return buf
}

// DecodeHeader parses and validates a 16-byte message header.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf(`%w: short header (%d bytes)`, common.ErrFraming, len(buf))
	}
	if [4]byte(buf[:4]) != magic {
		return Header{}, fmt.Errorf(`%w: bad magic %q`, common.ErrFraming, buf[:4])
	}
	hdr := Header{
		DeviceIndex: binary.LittleEndian.Uint32(buf[4:8]),
		Type:        PacketType(binary.LittleEndian.Uint32(buf[8:12])),
		Length:      binary.LittleEndian.Uint32(buf[12:16]),
	}
	if hdr.Length > maxPayload {
		return Header{}, fmt.Errorf(`%w: declared payload length %d exceeds limit`, common.ErrFraming, hdr.Length)
	}
	return hdr, nil
}

// WriteMessage frames payload and writes the complete message to w.
func WriteMessage(w io.Writer, deviceIndex uint32, packetType PacketType, payload []byte) error {
	hdr := EncodeHeader(deviceIndex, packetType, uint32(len(payload)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

// ReadMessage reads exactly one framed message from r.  The payload is
// fully read before returning, so a declared length that runs past the
// stream surfaces as an error rather than desynchronizing the connection.
func ReadMessage(r io.Reader) (Header, []byte, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, nil, err
	}
	hdr, err := DecodeHeader(buf[:])
	if err != nil {
		return Header{}, nil, err
	}
	if hdr.Length == 0 {
		return hdr, nil, nil
	}
	payload := make([]byte, hdr.Length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Header{}, nil, fmt.Errorf(`%w: truncated payload: %v`, common.ErrFraming, err)
	}
	return hdr, payload, nil
}
