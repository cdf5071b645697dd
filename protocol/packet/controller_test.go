package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jath03/openrgb-go/common"
)

func u32ptr(v uint32) *uint32 { return &v }

func dirptr(d common.ModeDirection) *common.ModeDirection { return &d }

// testController builds a descriptor exercising every wire feature: a
// tunable-rich mode, a bare mode, a fixed zone, a resizable matrix zone.
func testController() *ControllerData {
	return &ControllerData{
		Type: common.DeviceKeyboard,
		Name: `Test Keyboard`,
		Metadata: Metadata{
			Vendor:      `Testco`,
			Description: `A keyboard`,
			Version:     `1.2.3`,
			Serial:      `SN123`,
			Location:    `/dev/hidraw0`,
		},
		ActiveMode: 1,
		Modes: []ModeData{
			{
				Name:      `Static`,
				Value:     0,
				ColorMode: common.ColorModePerLED,
			},
			{
				Name:      `Breathing`,
				Value:     1,
				Flags:     common.ModeHasSpeed | common.ModeHasDirectionLR | common.ModeHasModeSpecificColor,
				SpeedMin:  u32ptr(10),
				SpeedMax:  u32ptr(200),
				ColorsMin: u32ptr(1),
				ColorsMax: u32ptr(2),
				Speed:     u32ptr(50),
				Direction: dirptr(common.DirectionRight),
				ColorMode: common.ColorModeModeSpecific,
				Colors:    []common.Color{{Red: 255}, {Blue: 255}},
			},
		},
		Zones: []ZoneData{
			{
				Name:    `Keys`,
				Type:    common.ZoneMatrix,
				LEDsMin: 4,
				LEDsMax: 4,
				NumLEDs: 4,

				MatrixHeight: 2,
				MatrixWidth:  2,
				MatrixMap: [][]uint32{
					{0, 1},
					{2, MatrixUnmapped},
				},
			},
			{
				Name:    `Edge`,
				Type:    common.ZoneLinear,
				LEDsMin: 1,
				LEDsMax: 8,
				NumLEDs: 2,
			},
		},
		LEDs: []LEDData{
			{Name: `Key: A`}, {Name: `Key: B`}, {Name: `Key: C`}, {Name: `Key: D`},
			{Name: `Edge 1`}, {Name: `Edge 2`},
		},
		Colors: []common.Color{
			{Red: 1}, {Red: 2}, {Red: 3}, {Red: 4}, {Green: 5}, {Blue: 6},
		},
	}
}

func TestControllerRoundTrip(t *testing.T) {
	for _, version := range []uint32{0, 1, 4} {
		orig := testController()
		got, err := DecodeController(orig.Encode(version), version)
		require.NoError(t, err, `version %d`, version)

		if version == 0 {
			// The vendor string only exists on version 1 and later
			orig.Metadata.Vendor = ``
		}
		orig.Zones[0].StartIndex = 0
		orig.Zones[1].StartIndex = 4
		assert.Equal(t, orig, got, `version %d`, version)
	}
}

func TestDecodeControllerGatedFields(t *testing.T) {
	// A mode without capability flags carries garbage in the tunable
	// slots; it must decode with every tunable absent
	c := &ControllerData{
		Type: common.DeviceLEDStrip,
		Name: `Strip`,
		Modes: []ModeData{{
			Name:      `Off`,
			Flags:     0,
			ColorMode: common.ColorModeNone,
		}},
	}
	raw := c.Encode(0)

	got, err := DecodeController(raw, 0)
	require.NoError(t, err)
	require.Len(t, got.Modes, 1)

	m := got.Modes[0]
	assert.Nil(t, m.Speed)
	assert.Nil(t, m.SpeedMin)
	assert.Nil(t, m.SpeedMax)
	assert.Nil(t, m.Direction)
	assert.Nil(t, m.ColorsMin)
	assert.Nil(t, m.ColorsMax)
	assert.Nil(t, m.Colors)
}

func TestDecodeControllerUnknownType(t *testing.T) {
	c := &ControllerData{Type: common.DeviceType(999), Name: `Mystery`}
	got, err := DecodeController(c.Encode(0), 0)
	require.NoError(t, err)
	assert.Equal(t, common.DeviceUnknown, got.Type)
}

func TestDecodeControllerTruncated(t *testing.T) {
	raw := testController().Encode(0)
	for _, cut := range []int{5, len(raw) / 2, len(raw) - 1} {
		_, err := DecodeController(raw[:cut], 0)
		require.ErrorIs(t, err, common.ErrFraming, `cut at %d`, cut)
	}
}

func TestDecodeControllerOversizedDeclaration(t *testing.T) {
	raw := testController().Encode(0)
	// Truncate the body but leave the declared size intact
	_, err := DecodeController(raw[:8], 0)
	require.ErrorIs(t, err, common.ErrFraming)
}

func TestZoneResizable(t *testing.T) {
	assert.False(t, (&ZoneData{LEDsMin: 4, LEDsMax: 4}).Resizable())
	assert.True(t, (&ZoneData{LEDsMin: 1, LEDsMax: 8}).Resizable())
}

func TestModeValidate(t *testing.T) {
	tests := []struct {
		name    string
		mode    ModeData
		wantErr error
	}{
		{
			name: `ok plain`,
			mode: ModeData{Name: `Static`},
		},
		{
			name: `ok full`,
			mode: testController().Modes[1],
		},
		{
			name: `speed flag without value`,
			mode: ModeData{
				Name:  `Broken`,
				Flags: common.ModeHasSpeed,
			},
			wantErr: common.ErrUnsupported,
		},
		{
			name: `speed outside bounds`,
			mode: ModeData{
				Name:     `Fast`,
				Flags:    common.ModeHasSpeed,
				SpeedMin: u32ptr(10),
				SpeedMax: u32ptr(20),
				Speed:    u32ptr(50),
			},
			wantErr: common.ErrBounds,
		},
		{
			name: `inverted speed range tolerated`,
			mode: ModeData{
				Name:     `Quirky`,
				Flags:    common.ModeHasSpeed,
				SpeedMin: u32ptr(200),
				SpeedMax: u32ptr(10),
				Speed:    u32ptr(50),
			},
		},
		{
			name: `speed set without flag`,
			mode: ModeData{
				Name:  `Sneaky`,
				Speed: u32ptr(50),
			},
			wantErr: common.ErrUnsupported,
		},
		{
			name: `palette outside bounds`,
			mode: ModeData{
				Name:      `Rainbow`,
				Flags:     common.ModeHasModeSpecificColor,
				ColorsMin: u32ptr(2),
				ColorsMax: u32ptr(4),
				Colors:    []common.Color{{Red: 255}},
			},
			wantErr: common.ErrBounds,
		},
		{
			name: `direction without flag`,
			mode: ModeData{
				Name:      `Spinny`,
				Direction: dirptr(common.DirectionLeft),
			},
			wantErr: common.ErrUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mode.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
