package device_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jath03/openrgb-go/common"
	"github.com/jath03/openrgb-go/protocol/packet"
)

func TestZoneColorsWindow(t *testing.T) {
	dev, session := newTestDevice(t)
	back := dev.Zones()[1]

	colors := make([]common.Color, 6)
	colors[4] = common.Color{Red: 10}
	colors[5] = common.Color{Red: 20}
	session.On(`Send`, uint32(0), packet.UpdateLEDs, mock.Anything).Return(nil)
	require.NoError(t, dev.SetColors(colors, true))

	assert.Equal(t, []common.Color{{Red: 10}, {Red: 20}}, back.Colors())
}

func TestZoneSetColors(t *testing.T) {
	dev, session := newTestDevice(t)
	back := dev.Zones()[1]

	colors := []common.Color{{Green: 1}, {Green: 2}}
	session.On(`Send`, uint32(0), packet.UpdateZoneLEDs,
		packet.UpdateZoneLEDsPayload(1, colors)).Return(nil)

	require.NoError(t, back.SetColors(colors, true))
	// The fast path patches only this zone's window
	assert.Equal(t, colors, back.Colors())
	assert.Equal(t, common.Color{}, dev.Colors()[0])
	session.AssertExpectations(t)
}

func TestZoneSetColorsBounds(t *testing.T) {
	dev, session := newTestDevice(t)
	back := dev.Zones()[1]

	err := back.SetColors(make([]common.Color, 5), true)
	require.ErrorIs(t, err, common.ErrBounds)
	session.AssertNotCalled(t, `Send`, mock.Anything, mock.Anything, mock.Anything)
}

func TestZoneResize(t *testing.T) {
	dev, session := newTestDevice(t)
	front := dev.Zones()[0]

	session.On(`Send`, uint32(0), packet.ResizeZone, packet.ResizeZonePayload(0, 8)).Return(nil)
	expectRefresh(session)

	require.NoError(t, front.Resize(8))
	// A resize renumbers LEDs server-side, so the device must re-fetch
	session.AssertCalled(t, `Request`, uint32(0), packet.RequestControllerData, mock.Anything, mock.Anything)
}

func TestZoneResizeBounds(t *testing.T) {
	dev, session := newTestDevice(t)
	front := dev.Zones()[0]

	for _, size := range []int{0, 9, -1} {
		err := front.Resize(size)
		require.ErrorIs(t, err, common.ErrBounds, `size %d`, size)
	}
	session.AssertNotCalled(t, `Send`, mock.Anything, mock.Anything, mock.Anything)
}

func TestLEDSetColor(t *testing.T) {
	dev, session := newTestDevice(t)
	led := dev.Zones()[1].LEDs()[0]
	require.Equal(t, uint32(4), led.Index())

	session.On(`Send`, uint32(0), packet.UpdateSingleLED,
		packet.UpdateSingleLEDPayload(4, common.Color{Blue: 255})).Return(nil)

	require.NoError(t, led.SetColor(common.Color{Blue: 255}, true))
	assert.Equal(t, common.Color{Blue: 255}, led.Color())
	session.AssertExpectations(t)
}
