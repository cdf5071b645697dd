package device

import (
	"fmt"

	"github.com/jath03/openrgb-go/common"
	"github.com/jath03/openrgb-go/protocol/packet"
)

// DirectModeName is the conventional name of the mode granting immediate
// per-LED control, the preferred target for effect authors.
const DirectModeName = `Direct`

// Mode is one lighting behavior a device supports, with capability-gated
// tunables.  A tunable whose capability flag is clear reads as "not
// applicable" (ok == false), which is distinct from a supported tunable at
// zero.
type Mode struct {
	index int
	data  packet.ModeData
}

// Index returns the mode's position in the device's mode list.
func (m *Mode) Index() int {
	return m.index
}

// Name returns the mode's name.
func (m *Mode) Name() string {
	return m.data.Name
}

// Flags returns the mode's capability bit-set.
func (m *Mode) Flags() common.ModeFlags {
	return m.data.Flags
}

// ColorMode reports how the mode sources its colors.
func (m *Mode) ColorMode() common.ColorMode {
	return m.data.ColorMode
}

// Speed returns the mode's current speed, with ok reporting whether the
// mode supports one.
func (m *Mode) Speed() (speed uint32, ok bool) {
	if m.data.Speed == nil {
		return 0, false
	}
	return *m.data.Speed, true
}

// SpeedRange returns the mode's reported speed bounds, with ok reporting
// whether the mode supports a speed at all.
func (m *Mode) SpeedRange() (min, max uint32, ok bool) {
	if m.data.SpeedMin == nil || m.data.SpeedMax == nil {
		return 0, 0, false
	}
	return *m.data.SpeedMin, *m.data.SpeedMax, true
}

// SetSpeed changes the mode's speed tunable.  Unsupported on this mode, or
// outside the reported bounds, the change is rejected and nothing is
// modified.  The change only reaches the device on the next SetMode of
// this mode.
func (m *Mode) SetSpeed(speed uint32) error {
	if !m.data.Flags.Has(common.ModeHasSpeed) {
		return fmt.Errorf(`%w: mode %q has no speed`, common.ErrUnsupported, m.data.Name)
	}
	lo, hi := *m.data.SpeedMin, *m.data.SpeedMax
	if lo > hi {
		lo, hi = hi, lo
	}
	if speed < lo || speed > hi {
		return fmt.Errorf(`%w: speed %d outside [%d,%d] for mode %q`, common.ErrBounds, speed, lo, hi, m.data.Name)
	}
	*m.data.Speed = speed
	return nil
}

// Direction returns the mode's animation direction, with ok reporting
// whether the mode supports one.
func (m *Mode) Direction() (dir common.ModeDirection, ok bool) {
	if m.data.Direction == nil {
		return 0, false
	}
	return *m.data.Direction, true
}

// SetDirection changes the mode's direction tunable.  The change only
// reaches the device on the next SetMode of this mode.
func (m *Mode) SetDirection(dir common.ModeDirection) error {
	if !m.data.Flags.HasDirection() {
		return fmt.Errorf(`%w: mode %q has no direction`, common.ErrUnsupported, m.data.Name)
	}
	*m.data.Direction = dir
	return nil
}

// Colors returns the mode's own color palette, nil when the mode has none.
func (m *Mode) Colors() []common.Color {
	return m.data.Colors
}

// SetColors replaces the mode's color palette.  The palette length must
// fall within the mode's reported bounds.
func (m *Mode) SetColors(colors []common.Color) error {
	if m.data.ColorsMin == nil || m.data.ColorsMax == nil {
		return fmt.Errorf(`%w: mode %q has no color palette`, common.ErrUnsupported, m.data.Name)
	}
	if n := uint32(len(colors)); n < *m.data.ColorsMin || n > *m.data.ColorsMax {
		return fmt.Errorf(`%w: %d colors outside [%d,%d] for mode %q`, common.ErrBounds, len(colors), *m.data.ColorsMin, *m.data.ColorsMax, m.data.Name)
	}
	m.data.Colors = append([]common.Color(nil), colors...)
	return nil
}

// Data returns a copy of the mode's raw descriptor record.
func (m *Mode) Data() packet.ModeData {
	return cloneMode(&m.data)
}
