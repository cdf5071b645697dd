package packet

import (
	"github.com/jath03/openrgb-go/common"
)

// Payload builders.  Each returns the exact bytes to follow the header for
// its command; none of them touch the network or any shared state.

// ClientNamePayload builds the handshake payload carrying the client's
// display name.
func ClientNamePayload(name string) []byte {
	return append([]byte(name), 0)
}

// ProtocolVersionPayload builds the version carried by a protocol-version
// request.
func ProtocolVersionPayload(version uint32) []byte {
	w := &writer{}
	w.u32(version)
	return w.bytes()
}

// ProfileNamePayload builds the NUL-terminated name carried by the remote
// profile save/load/delete commands.
func ProfileNamePayload(name string) []byte {
	return append([]byte(name), 0)
}

// UpdateLEDsPayload builds a whole-device color update: every LED on the
// device, in order.
func UpdateLEDsPayload(colors []common.Color) []byte {
	w := &writer{}
	w.u16(uint16(len(colors)))
	for _, c := range colors {
		w.color(c)
	}
	return dataPrefixed(w.bytes())
}

// UpdateZoneLEDsPayload builds a whole-zone color update.
func UpdateZoneLEDsPayload(zoneIndex uint32, colors []common.Color) []byte {
	w := &writer{}
	w.u32(zoneIndex)
	w.u16(uint16(len(colors)))
	for _, c := range colors {
		w.color(c)
	}
	return dataPrefixed(w.bytes())
}

// UpdateSingleLEDPayload builds a single-LED color update.  ledIndex is
// device-relative.
func UpdateSingleLEDPayload(ledIndex uint32, color common.Color) []byte {
	w := &writer{}
	w.u32(ledIndex)
	w.color(color)
	return w.bytes()
}

// ResizeZonePayload builds a zone-resize command.
func ResizeZonePayload(zoneIndex uint32, newSize uint32) []byte {
	w := &writer{}
	w.i32(int32(zoneIndex))
	w.i32(int32(newSize))
	return w.bytes()
}

// ModePayload builds the payload shared by the mode-update and mode-save
// commands: a total size, the mode's index, then the full mode record with
// every flag-gated field populated from the mode's current tunables.  The
// flag-gating rule matches decoding exactly; emitting a field the mode's
// flags do not advertise would make the server misparse the frame, so the
// mode is validated first.
func ModePayload(modeIndex uint32, mode *ModeData) ([]byte, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	w := &writer{}
	w.u32(modeIndex)
	encodeMode(w, mode)
	return sizePrefixed(w.bytes()), nil
}

// sizePrefixed prepends a u32 holding the total payload length, the
// prefix included.  The mode and controller blobs count this way.
func sizePrefixed(body []byte) []byte {
	w := &writer{}
	w.u32(uint32(len(body) + 4))
	w.buf.Write(body)
	return w.bytes()
}

// dataPrefixed prepends a u32 holding the length of the data that follows,
// the prefix excluded.  The LED-update payloads count this way.
func dataPrefixed(body []byte) []byte {
	w := &writer{}
	w.u32(uint32(len(body)))
	w.buf.Write(body)
	return w.bytes()
}
