package device

import (
	"github.com/jath03/openrgb-go/common"
	"github.com/jath03/openrgb-go/protocol/packet"
)

// LED is a single color-addressable slot on a device.
type LED struct {
	device *Device
	index  uint32
	name   string
}

// Index returns the LED's device-relative position.
func (l *LED) Index() uint32 {
	return l.index
}

// Name returns the LED's name.
func (l *LED) Name() string {
	return l.name
}

// Color returns the LED's last known color.
func (l *LED) Color() common.Color {
	d := l.device
	d.RLock()
	defer d.RUnlock()
	if int(l.index) >= len(d.colors) {
		return common.Color{}
	}
	return d.colors[l.index]
}

// SetColor changes the LED's color immediately.
func (l *LED) SetColor(color common.Color, fast bool) error {
	d := l.device
	if err := d.session.Send(d.index, packet.UpdateSingleLED, packet.UpdateSingleLEDPayload(l.index, color)); err != nil {
		return err
	}
	if fast {
		d.Lock()
		if int(l.index) < len(d.colors) {
			d.colors[l.index] = color
			d.applied[l.index] = color
		}
		d.Unlock()
		return nil
	}
	return d.Update()
}
