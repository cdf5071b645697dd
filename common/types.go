package common

// DeviceType identifies the category of hardware a device belongs to, as
// reported by the server.
type DeviceType int32

const (
	DeviceMotherboard DeviceType = iota
	DeviceDRAM
	DeviceGPU
	DeviceCooler
	DeviceLEDStrip
	DeviceKeyboard
	DeviceMouse
	DeviceMousemat
	DeviceHeadset
	DeviceHeadsetStand
	DeviceGamepad
	DeviceLight
	DeviceUnknown
)

var deviceTypeNames = map[DeviceType]string{
	DeviceMotherboard:  `motherboard`,
	DeviceDRAM:         `dram`,
	DeviceGPU:          `gpu`,
	DeviceCooler:       `cooler`,
	DeviceLEDStrip:     `ledstrip`,
	DeviceKeyboard:     `keyboard`,
	DeviceMouse:        `mouse`,
	DeviceMousemat:     `mousemat`,
	DeviceHeadset:      `headset`,
	DeviceHeadsetStand: `headset_stand`,
	DeviceGamepad:      `gamepad`,
	DeviceLight:        `light`,
	DeviceUnknown:      `unknown`,
}

func (t DeviceType) String() string {
	if name, ok := deviceTypeNames[t]; ok {
		return name
	}
	return deviceTypeNames[DeviceUnknown]
}

// ZoneType describes the addressing geometry of a zone.
type ZoneType int32

const (
	ZoneSingle ZoneType = iota
	ZoneLinear
	ZoneMatrix
)

func (t ZoneType) String() string {
	switch t {
	case ZoneSingle:
		return `single`
	case ZoneLinear:
		return `linear`
	case ZoneMatrix:
		return `matrix`
	}
	return `unknown`
}

// ModeFlags is the bit-set of capabilities a mode advertises.  A tunable
// is only present, on the wire and in the model, when its flag is set.
type ModeFlags uint32

const (
	ModeHasSpeed ModeFlags = 1 << iota
	ModeHasDirectionLR
	ModeHasDirectionUD
	ModeHasDirectionHV
	ModeHasBrightness
	ModeHasPerLEDColor
	ModeHasModeSpecificColor
	ModeHasRandomColor
)

// Has reports whether every flag in mask is set.
func (f ModeFlags) Has(mask ModeFlags) bool {
	return f&mask == mask
}

// HasDirection reports whether the mode supports any direction axis.
func (f ModeFlags) HasDirection() bool {
	return f&(ModeHasDirectionLR|ModeHasDirectionUD|ModeHasDirectionHV) != 0
}

// ModeDirection is the animation direction of a mode that supports one.
type ModeDirection uint32

const (
	DirectionLeft ModeDirection = iota
	DirectionRight
	DirectionUp
	DirectionDown
	DirectionHorizontal
	DirectionVertical
)

func (d ModeDirection) String() string {
	switch d {
	case DirectionLeft:
		return `left`
	case DirectionRight:
		return `right`
	case DirectionUp:
		return `up`
	case DirectionDown:
		return `down`
	case DirectionHorizontal:
		return `horizontal`
	case DirectionVertical:
		return `vertical`
	}
	return `unknown`
}

// ColorMode describes how a mode sources its colors.
type ColorMode uint32

const (
	ColorModeNone ColorMode = iota
	ColorModePerLED
	ColorModeModeSpecific
	ColorModeRandom
)

func (m ColorMode) String() string {
	switch m {
	case ColorModeNone:
		return `none`
	case ColorModePerLED:
		return `per-led`
	case ColorModeModeSpecific:
		return `mode-specific`
	case ColorModeRandom:
		return `random`
	}
	return `unknown`
}
