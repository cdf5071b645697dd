// Package device implements the in-memory mirror of the lighting devices
// an SDK server reports: the device/zone/LED hierarchy, mode metadata, and
// the color buffers an effect author mutates before a flush.
//
// The mirror only tracks what the server last reported plus optimistic
// local updates; other clients can change hardware state at any time, so
// callers needing certainty should Update() first.
package device

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jath03/openrgb-go/common"
	"github.com/jath03/openrgb-go/protocol/packet"
)

// Session is the transport surface a device needs: framed fire-and-forget
// writes, request/response exchanges, and the negotiated protocol version.
// *protocol.Session satisfies it; tests substitute fakes.
type Session interface {
	Send(deviceIndex uint32, packetType packet.PacketType, payload []byte) error
	Request(deviceIndex uint32, packetType packet.PacketType, payload []byte, timeout time.Duration) ([]byte, error)
	Version() uint32
}

// Device mirrors one lighting device.  The index is the device's position
// in the server's list for this session only; it is not stable across
// server restarts or hot-plug, so prefer resolving devices by type or name
// and treat index-based access as best-effort.
type Device struct {
	session Session
	index   uint32

	name       string
	deviceType common.DeviceType
	metadata   packet.Metadata
	zones      []*Zone
	leds       []*LED
	modes      []*Mode
	activeMode int
	colors     []common.Color
	applied    []common.Color
	data       *packet.ControllerData

	sync.RWMutex
}

// Fetch requests the controller descriptor for index and materializes a
// Device from it.
func Fetch(session Session, index uint32) (*Device, error) {
	data, err := fetchData(session, index)
	if err != nil {
		return nil, err
	}
	return New(session, index, data), nil
}

// New builds a Device from an already-decoded controller descriptor.
func New(session Session, index uint32, data *packet.ControllerData) *Device {
	d := &Device{session: session, index: index}
	d.update(data)
	return d
}

func fetchData(session Session, index uint32) (*packet.ControllerData, error) {
	version := session.Version()
	payload, err := session.Request(index, packet.RequestControllerData, packet.ProtocolVersionPayload(version), 0)
	if err != nil {
		return nil, err
	}
	data, err := packet.DecodeController(payload, version)
	if err != nil {
		return nil, fmt.Errorf(`failed parsing descriptor for device %d: %w`, index, err)
	}
	return data, nil
}

// update replaces the mirror contents from a descriptor.  The previous
// zone/LED/mode slices stay intact for any caller still holding them; the
// swap itself happens under the device lock.
func (d *Device) update(data *packet.ControllerData) {
	colors := make([]common.Color, len(data.Colors))
	copy(colors, data.Colors)

	leds := make([]*LED, len(data.LEDs))
	for i, led := range data.LEDs {
		leds[i] = &LED{device: d, index: uint32(i), name: led.Name}
	}

	zones := make([]*Zone, len(data.Zones))
	for i := range data.Zones {
		z := &data.Zones[i]
		end := z.StartIndex + z.NumLEDs
		if int(end) > len(leds) {
			end = uint32(len(leds))
		}
		zones[i] = &Zone{
			device:    d,
			index:     uint32(i),
			name:      z.Name,
			zoneType:  z.Type,
			ledsMin:   z.LEDsMin,
			ledsMax:   z.LEDsMax,
			start:     z.StartIndex,
			count:     z.NumLEDs,
			matrixMap: z.MatrixMap,
			leds:      leds[min(z.StartIndex, end):end],
		}
	}

	modes := make([]*Mode, len(data.Modes))
	for i := range data.Modes {
		modes[i] = &Mode{index: i, data: cloneMode(&data.Modes[i])}
	}

	d.Lock()
	d.name = data.Name
	d.deviceType = data.Type
	d.metadata = data.Metadata
	d.leds = leds
	d.zones = zones
	d.modes = modes
	d.activeMode = int(data.ActiveMode)
	d.colors = colors
	d.applied = append([]common.Color(nil), colors...)
	d.data = data
	d.Unlock()
}

// Update re-fetches the device's state from the server so the mirror
// matches the authoritative hardware state.
func (d *Device) Update() error {
	data, err := fetchData(d.session, d.index)
	if err != nil {
		return err
	}
	d.update(data)
	return nil
}

// Index returns the device's position in the server's device list.
func (d *Device) Index() uint32 {
	return d.index
}

// Name returns the device's human-readable name.
func (d *Device) Name() string {
	d.RLock()
	defer d.RUnlock()
	return d.name
}

// Type returns the device's hardware category.
func (d *Device) Type() common.DeviceType {
	d.RLock()
	defer d.RUnlock()
	return d.deviceType
}

// Metadata returns the device's vendor and description strings.
func (d *Device) Metadata() packet.Metadata {
	d.RLock()
	defer d.RUnlock()
	return d.metadata
}

// Zones returns the device's zones in server order.
func (d *Device) Zones() []*Zone {
	d.RLock()
	defer d.RUnlock()
	return d.zones
}

// LEDs returns the device's LEDs in server order.
func (d *Device) LEDs() []*LED {
	d.RLock()
	defer d.RUnlock()
	return d.leds
}

// Modes returns the device's modes in server order.
func (d *Device) Modes() []*Mode {
	d.RLock()
	defer d.RUnlock()
	return d.modes
}

// ActiveMode returns the currently active mode, or nil when the server
// reported an out-of-range index.
func (d *Device) ActiveMode() *Mode {
	d.RLock()
	defer d.RUnlock()
	if d.activeMode < 0 || d.activeMode >= len(d.modes) {
		return nil
	}
	return d.modes[d.activeMode]
}

// Colors returns the device's color buffer, one slot per LED in server
// order.  The buffer may be mutated in place and flushed with Show.
func (d *Device) Colors() []common.Color {
	d.RLock()
	defer d.RUnlock()
	return d.colors
}

// SetColor paints every LED with one color.  When the active mode sources
// its colors from the mode itself rather than per-LED slots, the mode's
// palette is updated instead.
func (d *Device) SetColor(color common.Color, fast bool) error {
	if active := d.ActiveMode(); active != nil && active.ColorMode() == common.ColorModeModeSpecific {
		return d.setModeColor(active, color)
	}
	colors := make([]common.Color, d.ledCount())
	for i := range colors {
		colors[i] = color
	}
	return d.SetColors(colors, fast)
}

// SetColors paints the whole device, one color per LED.
func (d *Device) SetColors(colors []common.Color, fast bool) error {
	if len(colors) != d.ledCount() {
		return fmt.Errorf(`%w: %d colors for %d leds`, common.ErrBounds, len(colors), d.ledCount())
	}
	return d.sendColors(colors, fast)
}

// SetColorsAt paints length len(colors) starting at offset, leaving the
// rest of the device untouched.  An out-of-range window fails with a
// bounds error before anything is written.
func (d *Device) SetColorsAt(offset int, colors []common.Color, fast bool) error {
	count := d.ledCount()
	if offset < 0 || offset+len(colors) > count {
		return fmt.Errorf(`%w: offset %d + %d colors exceeds %d leds`, common.ErrBounds, offset, len(colors), count)
	}
	d.RLock()
	merged := append([]common.Color(nil), d.colors...)
	d.RUnlock()
	copy(merged[offset:], colors)
	return d.sendColors(merged, fast)
}

func (d *Device) sendColors(colors []common.Color, fast bool) error {
	if err := d.session.Send(d.index, packet.UpdateLEDs, packet.UpdateLEDsPayload(colors)); err != nil {
		return err
	}
	return d.resync(colors, fast)
}

// resync reconciles the mirror after a color write.  A fast write adopts
// the caller's colors optimistically, accepting possible divergence from
// the hardware; otherwise the device is re-fetched.
func (d *Device) resync(colors []common.Color, fast bool) error {
	if fast {
		d.Lock()
		copy(d.colors, colors)
		copy(d.applied, colors)
		d.Unlock()
		return nil
	}
	return d.Update()
}

// Show flushes local edits to the Colors buffer: nothing when the buffer
// is unchanged, a single-LED update when one slot changed, a full-device
// update otherwise.  force sends the full buffer regardless.
func (d *Device) Show(fast, force bool) error {
	d.RLock()
	changed := make([]int, 0, len(d.colors))
	for i, c := range d.colors {
		if c != d.applied[i] {
			changed = append(changed, i)
		}
	}
	colors := append([]common.Color(nil), d.colors...)
	d.RUnlock()

	switch {
	case force:
		return d.sendColors(colors, fast)
	case len(changed) == 0:
		return nil
	case len(changed) == 1:
		i := changed[0]
		if err := d.session.Send(d.index, packet.UpdateSingleLED, packet.UpdateSingleLEDPayload(uint32(i), colors[i])); err != nil {
			return err
		}
		return d.resync(colors, fast)
	default:
		return d.sendColors(colors, fast)
	}
}

func (d *Device) setModeColor(mode *Mode, color common.Color) error {
	max := 1
	if mode.data.ColorsMax != nil {
		max = int(*mode.data.ColorsMax)
	}
	colors := make([]common.Color, max)
	for i := range colors {
		colors[i] = color
	}
	mode.data.Colors = colors
	return d.SetMode(mode, false)
}

// Clear turns every LED off.
func (d *Device) Clear() error {
	return d.SetColor(common.Color{}, false)
}

// Off switches to the most granular mode and turns every LED off.
func (d *Device) Off() error {
	if err := d.SetCustomMode(); err != nil {
		return err
	}
	return d.Clear()
}

func (d *Device) ledCount() int {
	d.RLock()
	defer d.RUnlock()
	return len(d.leds)
}

// ResolveMode resolves a mode reference by numeric index, case-insensitive
// name, or a *Mode obtained from this device, in that order.  No match
// fails with common.ErrModeNotFound.
func (d *Device) ResolveMode(ref interface{}) (*Mode, error) {
	d.RLock()
	modes := d.modes
	d.RUnlock()

	switch ref := ref.(type) {
	case int:
		if ref >= 0 && ref < len(modes) {
			return modes[ref], nil
		}
	case string:
		for _, m := range modes {
			if strings.EqualFold(m.Name(), ref) {
				return m, nil
			}
		}
	case *Mode:
		for _, m := range modes {
			if m == ref {
				return m, nil
			}
		}
	default:
		return nil, fmt.Errorf(`%w: unsupported mode reference %T`, common.ErrModeNotFound, ref)
	}
	return nil, fmt.Errorf(`%w: %v on device %q`, common.ErrModeNotFound, ref, d.Name())
}

// SetMode switches the device to the referenced mode (see ResolveMode).
// When save is requested and the negotiated protocol supports mode
// persistence, the mode is additionally written to the device's own
// storage; on older protocols the save is skipped rather than failing,
// matching the optional-capability semantics elsewhere in the model.
func (d *Device) SetMode(ref interface{}, save bool) error {
	mode, err := d.ResolveMode(ref)
	if err != nil {
		return err
	}
	payload, err := packet.ModePayload(uint32(mode.index), &mode.data)
	if err != nil {
		return err
	}
	if err := d.session.Send(d.index, packet.UpdateMode, payload); err != nil {
		return err
	}
	if save && d.session.Version() >= 3 {
		if err := d.session.Send(d.index, packet.SaveMode, payload); err != nil {
			return err
		}
	}
	return d.Update()
}

// SetCustomMode asks the device for whatever mode it supports that grants
// the most granular control, then refreshes the mirror.
func (d *Device) SetCustomMode() error {
	if err := d.session.Send(d.index, packet.SetCustomMode, nil); err != nil {
		return err
	}
	return d.Update()
}

// SaveMode persists the currently active mode to the device's own
// storage.  Requires protocol version 3.
func (d *Device) SaveMode() error {
	active := d.ActiveMode()
	if active == nil {
		return fmt.Errorf(`%w: no active mode`, common.ErrModeNotFound)
	}
	payload, err := packet.ModePayload(uint32(active.index), &active.data)
	if err != nil {
		return err
	}
	return d.session.Send(d.index, packet.SaveMode, payload)
}

// Snapshot returns a descriptor of the device's current mirror state,
// suitable for serializing into a local profile.
func (d *Device) Snapshot() *packet.ControllerData {
	d.RLock()
	defer d.RUnlock()
	snap := *d.data
	snap.ActiveMode = int32(d.activeMode)
	snap.Colors = append([]common.Color(nil), d.colors...)
	return &snap
}

// ControllerCount asks the server how many devices it currently exposes.
func ControllerCount(session Session) (int, error) {
	payload, err := session.Request(0, packet.RequestControllerCount, nil, 0)
	if err != nil {
		return 0, err
	}
	if len(payload) < 4 {
		return 0, fmt.Errorf(`%w: short controller count reply`, common.ErrFraming)
	}
	return int(binary.LittleEndian.Uint32(payload)), nil
}

func cloneMode(m *packet.ModeData) packet.ModeData {
	c := *m
	c.SpeedMin = cloneU32(m.SpeedMin)
	c.SpeedMax = cloneU32(m.SpeedMax)
	c.ColorsMin = cloneU32(m.ColorsMin)
	c.ColorsMax = cloneU32(m.ColorsMax)
	c.Speed = cloneU32(m.Speed)
	if m.Direction != nil {
		dir := *m.Direction
		c.Direction = &dir
	}
	c.Colors = append([]common.Color(nil), m.Colors...)
	return c
}

func cloneU32(v *uint32) *uint32 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
