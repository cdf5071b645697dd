package device

import (
	"fmt"

	"github.com/jath03/openrgb-go/common"
	"github.com/jath03/openrgb-go/protocol/packet"
)

// Zone is a named, independently addressable group of LEDs within a
// Device.
type Zone struct {
	device   *Device
	index    uint32
	name     string
	zoneType common.ZoneType
	ledsMin  uint32
	ledsMax  uint32
	start    uint32
	count    uint32

	// matrixMap is only populated for matrix zones: a height×width grid
	// of zone-relative LED indexes, packet.MatrixUnmapped for cells with
	// no LED behind them
	matrixMap [][]uint32

	leds []*LED
}

// Index returns the zone's position within its device.
func (z *Zone) Index() uint32 {
	return z.index
}

// Name returns the zone's name.
func (z *Zone) Name() string {
	return z.name
}

// Type returns the zone's addressing geometry.
func (z *Zone) Type() common.ZoneType {
	return z.zoneType
}

// LEDs returns the zone's LEDs in order.
func (z *Zone) LEDs() []*LED {
	return z.leds
}

// MatrixMap returns the 2-D LED-index map for matrix zones, nil otherwise.
func (z *Zone) MatrixMap() [][]uint32 {
	return z.matrixMap
}

// Size returns the zone's current LED count.
func (z *Zone) Size() int {
	return int(z.count)
}

// SizeRange returns the zone's minimum and maximum LED count.
func (z *Zone) SizeRange() (min, max int) {
	return int(z.ledsMin), int(z.ledsMax)
}

// Resizable reports whether the zone's LED count can be changed.  A
// zero-width reported range means it cannot.
func (z *Zone) Resizable() bool {
	return z.ledsMin != z.ledsMax
}

// Colors returns the zone's window into the device color buffer.  It may
// be mutated in place and flushed with the device's Show.
func (z *Zone) Colors() []common.Color {
	colors := z.device.Colors()
	end := z.start + z.count
	if int(end) > len(colors) {
		end = uint32(len(colors))
	}
	if z.start > end {
		return nil
	}
	return colors[z.start:end]
}

// SetColor paints every LED in the zone with one color.
func (z *Zone) SetColor(color common.Color, fast bool) error {
	colors := make([]common.Color, z.count)
	for i := range colors {
		colors[i] = color
	}
	return z.SetColors(colors, fast)
}

// SetColors paints the zone, one color per LED.  A color count that does
// not match the zone's LED count fails with a bounds error before
// anything is written.
func (z *Zone) SetColors(colors []common.Color, fast bool) error {
	if len(colors) != int(z.count) {
		return fmt.Errorf(`%w: %d colors for %d leds in zone %q`, common.ErrBounds, len(colors), z.count, z.name)
	}
	d := z.device
	if err := d.session.Send(d.index, packet.UpdateZoneLEDs, packet.UpdateZoneLEDsPayload(z.index, colors)); err != nil {
		return err
	}
	if fast {
		d.Lock()
		copy(d.colors[z.start:], colors)
		copy(d.applied[z.start:], colors)
		d.Unlock()
		return nil
	}
	return d.Update()
}

// Clear turns every LED in the zone off.
func (z *Zone) Clear() error {
	return z.SetColor(common.Color{}, false)
}

// Resize changes the zone's LED count.  Required before addressable strips
// can be driven in direct mode.  A size outside the zone's reported range
// fails with a bounds error and leaves the zone untouched; a successful
// resize re-fetches the whole device, since the server renumbers LEDs in
// ways the mirror cannot infer locally.
func (z *Zone) Resize(size int) error {
	if size < int(z.ledsMin) || size > int(z.ledsMax) {
		return fmt.Errorf(`%w: size %d outside [%d,%d] for zone %q`, common.ErrBounds, size, z.ledsMin, z.ledsMax, z.name)
	}
	d := z.device
	if err := d.session.Send(d.index, packet.ResizeZone, packet.ResizeZonePayload(z.index, uint32(size))); err != nil {
		return err
	}
	return d.Update()
}
