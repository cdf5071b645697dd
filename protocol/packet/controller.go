package packet

import (
	"fmt"

	"github.com/jath03/openrgb-go/common"
)

// MatrixUnmapped is the matrix-map entry for a cell with no LED behind it.
const MatrixUnmapped = 0xFFFFFFFF

// Metadata carries the descriptive strings a controller reports about
// itself.  Vendor is only present on protocol version 1 and later.
type Metadata struct {
	Vendor      string
	Description string
	Version     string
	Serial      string
	Location    string
}

// LEDData describes a single LED slot.
type LEDData struct {
	Name  string
	Value uint32
}

// ModeData describes one lighting mode and its tunables.  Tunables gated
// behind a capability flag are pointers (or a nil slice for Colors): nil
// means the mode does not support the tunable, which is distinct from a
// supported tunable at value zero.
type ModeData struct {
	Name      string
	Value     int32
	Flags     common.ModeFlags
	SpeedMin  *uint32
	SpeedMax  *uint32
	ColorsMin *uint32
	ColorsMax *uint32
	Speed     *uint32
	Direction *common.ModeDirection
	ColorMode common.ColorMode
	Colors    []common.Color
}

// Validate checks that every tunable required by the capability flags is
// present and within its reported bounds, and that no tunable is set for a
// capability the mode lacks.
func (m *ModeData) Validate() error {
	if m.Flags.Has(common.ModeHasSpeed) {
		if m.Speed == nil || m.SpeedMin == nil || m.SpeedMax == nil {
			return fmt.Errorf(`%w: mode %q requires a speed`, common.ErrUnsupported, m.Name)
		}
		lo, hi := *m.SpeedMin, *m.SpeedMax
		if lo > hi {
			// Some controllers report inverted speed ranges
			lo, hi = hi, lo
		}
		if *m.Speed < lo || *m.Speed > hi {
			return fmt.Errorf(`%w: speed %d outside [%d,%d] for mode %q`, common.ErrBounds, *m.Speed, lo, hi, m.Name)
		}
	} else if m.Speed != nil || m.SpeedMin != nil || m.SpeedMax != nil {
		return fmt.Errorf(`%w: mode %q does not support speed`, common.ErrUnsupported, m.Name)
	}
	if m.Flags.Has(common.ModeHasModeSpecificColor) {
		if m.ColorsMin == nil || m.ColorsMax == nil {
			return fmt.Errorf(`%w: mode %q requires a color palette`, common.ErrUnsupported, m.Name)
		}
		if n := uint32(len(m.Colors)); n < *m.ColorsMin || n > *m.ColorsMax {
			return fmt.Errorf(`%w: %d colors outside [%d,%d] for mode %q`, common.ErrBounds, n, *m.ColorsMin, *m.ColorsMax, m.Name)
		}
	}
	if !m.Flags.HasDirection() && m.Direction != nil {
		return fmt.Errorf(`%w: mode %q does not support a direction`, common.ErrUnsupported, m.Name)
	}
	return nil
}

// ZoneData describes one zone's geometry.  MatrixMap is only populated for
// matrix zones; MatrixUnmapped entries mark cells without an LED.
type ZoneData struct {
	Name         string
	Type         common.ZoneType
	LEDsMin      uint32
	LEDsMax      uint32
	NumLEDs      uint32
	MatrixHeight uint32
	MatrixWidth  uint32
	MatrixMap    [][]uint32

	// StartIndex is the zone's offset into the controller's flat LED and
	// color arrays.  Derived during decoding, not part of the wire form.
	StartIndex uint32
}

// Resizable reports whether the zone supports resizing.  A zero-width
// min/max range means the LED count is fixed.
func (z *ZoneData) Resizable() bool {
	return z.LEDsMin != z.LEDsMax
}

// ControllerData is the full decoded descriptor of one device: its
// identity, modes, zones, LEDs and current colors.
type ControllerData struct {
	Type       common.DeviceType
	Name       string
	Metadata   Metadata
	ActiveMode int32
	Modes      []ModeData
	Zones      []ZoneData
	LEDs       []LEDData
	Colors     []common.Color
}

// DecodeController parses the descriptor blob returned by a controller
// data request.  version is the negotiated protocol version, which gates
// the vendor string.  Decoding is purely structural: it performs no I/O
// and leaves data untouched.
func DecodeController(data []byte, version uint32) (*ControllerData, error) {
	r := newReader(data)
	size := r.u32(`descriptor size`)
	if r.err() == nil && int(size) > len(data) {
		return nil, fmt.Errorf(`%w: descriptor declares %d bytes, have %d`, common.ErrFraming, size, len(data))
	}

	c := &ControllerData{}
	c.Type = common.DeviceType(r.i32(`device type`))
	if c.Type < common.DeviceMotherboard || c.Type > common.DeviceUnknown {
		c.Type = common.DeviceUnknown
	}
	c.Name = r.string(`device name`)
	c.Metadata = decodeMetadata(r, version)

	numModes := int(r.u16(`mode count`))
	c.ActiveMode = r.i32(`active mode`)
	for i := 0; i < numModes && r.err() == nil; i++ {
		c.Modes = append(c.Modes, decodeMode(r))
	}

	numZones := int(r.u16(`zone count`))
	for i := 0; i < numZones && r.err() == nil; i++ {
		c.Zones = append(c.Zones, decodeZone(r))
	}

	numLEDs := int(r.u16(`led count`))
	for i := 0; i < numLEDs && r.err() == nil; i++ {
		name := r.string(`led name`)
		value := r.u32(`led value`)
		c.LEDs = append(c.LEDs, LEDData{Name: name, Value: value})
	}

	numColors := int(r.u16(`color count`))
	for i := 0; i < numColors && r.err() == nil; i++ {
		c.Colors = append(c.Colors, r.color(`led color`))
	}

	if err := r.err(); err != nil {
		return nil, err
	}

	// Zones address contiguous windows of the flat LED array
	var start uint32
	for i := range c.Zones {
		c.Zones[i].StartIndex = start
		start += c.Zones[i].NumLEDs
	}

	return c, nil
}

// Encode serializes the descriptor back to its wire form, including the
// leading total-size field.  Round-trips with DecodeController: optional
// mode tunables absent on input remain absent after decode.
func (c *ControllerData) Encode(version uint32) []byte {
	w := &writer{}
	w.i32(int32(c.Type))
	w.string(c.Name)
	encodeMetadata(w, c.Metadata, version)

	w.u16(uint16(len(c.Modes)))
	w.i32(c.ActiveMode)
	for i := range c.Modes {
		encodeMode(w, &c.Modes[i])
	}

	w.u16(uint16(len(c.Zones)))
	for i := range c.Zones {
		encodeZone(w, &c.Zones[i])
	}

	w.u16(uint16(len(c.LEDs)))
	for _, led := range c.LEDs {
		w.string(led.Name)
		w.u32(led.Value)
	}

	w.u16(uint16(len(c.Colors)))
	for _, color := range c.Colors {
		w.color(color)
	}

	body := w.bytes()
	out := &writer{}
	out.u32(uint32(len(body) + 4))
	out.buf.Write(body)
	return out.bytes()
}

func decodeMetadata(r *reader, version uint32) Metadata {
	var m Metadata
	if version >= 1 {
		m.Vendor = r.string(`vendor`)
	}
	m.Description = r.string(`description`)
	m.Version = r.string(`version`)
	m.Serial = r.string(`serial`)
	m.Location = r.string(`location`)
	return m
}

func encodeMetadata(w *writer, m Metadata, version uint32) {
	if version >= 1 {
		w.string(m.Vendor)
	}
	w.string(m.Description)
	w.string(m.Version)
	w.string(m.Serial)
	w.string(m.Location)
}

func decodeMode(r *reader) ModeData {
	m := ModeData{}
	m.Name = r.string(`mode name`)
	m.Value = r.i32(`mode value`)
	m.Flags = common.ModeFlags(r.u32(`mode flags`))
	speedMin := r.u32(`speed min`)
	speedMax := r.u32(`speed max`)
	colorsMin := r.u32(`colors min`)
	colorsMax := r.u32(`colors max`)
	speed := r.u32(`speed`)
	direction := common.ModeDirection(r.u32(`direction`))
	m.ColorMode = common.ColorMode(r.u32(`color mode`))
	numColors := int(r.u16(`mode color count`))
	var colors []common.Color
	for i := 0; i < numColors && r.err() == nil; i++ {
		colors = append(colors, r.color(`mode color`))
	}

	// The server sends garbage in flag-gated fields when the flag is
	// clear; absent means "not applicable", never zero
	if m.Flags.Has(common.ModeHasSpeed) {
		m.SpeedMin, m.SpeedMax, m.Speed = &speedMin, &speedMax, &speed
	}
	if m.Flags.HasDirection() {
		m.Direction = &direction
	}
	if numColors > 0 {
		m.ColorsMin, m.ColorsMax, m.Colors = &colorsMin, &colorsMax, colors
	}
	return m
}

func encodeMode(w *writer, m *ModeData) {
	w.string(m.Name)
	w.i32(m.Value)
	w.u32(uint32(m.Flags))
	w.u32(deref(m.SpeedMin))
	w.u32(deref(m.SpeedMax))
	w.u32(deref(m.ColorsMin))
	w.u32(deref(m.ColorsMax))
	w.u32(deref(m.Speed))
	if m.Direction != nil {
		w.u32(uint32(*m.Direction))
	} else {
		w.u32(0)
	}
	w.u32(uint32(m.ColorMode))
	w.u16(uint16(len(m.Colors)))
	for _, color := range m.Colors {
		w.color(color)
	}
}

func decodeZone(r *reader) ZoneData {
	z := ZoneData{}
	z.Name = r.string(`zone name`)
	z.Type = common.ZoneType(r.i32(`zone type`))
	z.LEDsMin = r.u32(`zone leds min`)
	z.LEDsMax = r.u32(`zone leds max`)
	z.NumLEDs = r.u32(`zone led count`)
	r.u16(`matrix length`)
	if z.Type == common.ZoneMatrix {
		z.MatrixHeight = r.u32(`matrix height`)
		z.MatrixWidth = r.u32(`matrix width`)
		z.MatrixMap = make([][]uint32, 0, z.MatrixHeight)
		for y := uint32(0); y < z.MatrixHeight && r.err() == nil; y++ {
			row := make([]uint32, z.MatrixWidth)
			for x := range row {
				row[x] = r.u32(`matrix cell`)
			}
			z.MatrixMap = append(z.MatrixMap, row)
		}
	}
	return z
}

func encodeZone(w *writer, z *ZoneData) {
	w.string(z.Name)
	w.i32(int32(z.Type))
	w.u32(z.LEDsMin)
	w.u32(z.LEDsMax)
	w.u32(z.NumLEDs)
	if z.Type == common.ZoneMatrix {
		w.u16(uint16(z.MatrixHeight * z.MatrixWidth))
		w.u32(z.MatrixHeight)
		w.u32(z.MatrixWidth)
		for _, row := range z.MatrixMap {
			for _, cell := range row {
				w.u32(cell)
			}
		}
	} else {
		w.u16(0)
	}
}

func deref(v *uint32) uint32 {
	if v == nil {
		return 0
	}
	return *v
}
