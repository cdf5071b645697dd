package openrgb

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jath03/openrgb-go/common"
	"github.com/jath03/openrgb-go/device"
	"github.com/jath03/openrgb-go/protocol"
)

// Client provides a simple interface for interacting with the devices an
// OpenRGB SDK server exposes.  Client can not be instantiated manually or
// it will not function - always use NewClient() to obtain a Client
// instance.
type Client struct {
	options       Options
	session       *protocol.Session
	devices       []*device.Device
	profiles      []string
	sessionSub    *common.Subscription
	subscriptions map[string]*common.Subscription
	quitChan      chan struct{}
	closeOnce     sync.Once
	sync.RWMutex
}

// listen relays session notifications: a device-list-updated signal
// triggers a re-enumeration before being passed on to subscribers.
func (c *Client) listen() {
	for {
		select {
		case <-c.quitChan:
			return
		case event, ok := <-c.sessionSub.Events():
			if !ok {
				return
			}
			if _, updated := event.(common.EventDeviceListUpdated); updated {
				if err := c.Update(); err != nil {
					common.Log.Warnf("Failed re-enumerating devices: %v", err)
				}
			}
			c.publish(event)
		}
	}
}

// Update re-enumerates devices: one controller-count query, then one
// descriptor fetch per index.  The device list is replaced atomically;
// callers holding the previous list keep a consistent, if stale, view.
func (c *Client) Update() error {
	count, err := device.ControllerCount(c.session)
	if err != nil {
		return err
	}

	c.RLock()
	old := c.devices
	c.RUnlock()

	devices := make([]*device.Device, count)
	for i := 0; i < count; i++ {
		if i < len(old) {
			if err := old[i].Update(); err != nil {
				return err
			}
			devices[i] = old[i]
			continue
		}
		dev, err := device.Fetch(c.session, uint32(i))
		if err != nil {
			return err
		}
		devices[i] = dev
	}

	c.Lock()
	c.devices = devices
	c.Unlock()
	return nil
}

// Devices returns every known device in server order.
func (c *Client) Devices() []*device.Device {
	c.RLock()
	defer c.RUnlock()
	return append([]*device.Device(nil), c.devices...)
}

// Device returns the device at index, or common.ErrNotFound.  Indexes are
// positional and unstable across server restarts and hot-plug; prefer
// DevicesByType or DevicesByName.
func (c *Client) Device(index int) (*device.Device, error) {
	c.RLock()
	defer c.RUnlock()
	if index < 0 || index >= len(c.devices) {
		return nil, fmt.Errorf(`%w: device %d`, common.ErrNotFound, index)
	}
	return c.devices[index], nil
}

// DevicesByType returns every device of the requested hardware category.
func (c *Client) DevicesByType(deviceType common.DeviceType) []*device.Device {
	var matched []*device.Device
	for _, dev := range c.Devices() {
		if dev.Type() == deviceType {
			matched = append(matched, dev)
		}
	}
	return matched
}

// DevicesByName returns every device matching name: exact matches only, or
// case-insensitive substring matches when exact is false.
func (c *Client) DevicesByName(name string, exact bool) []*device.Device {
	var matched []*device.Device
	for _, dev := range c.Devices() {
		if exact && dev.Name() == name {
			matched = append(matched, dev)
		} else if !exact && strings.Contains(strings.ToLower(dev.Name()), strings.ToLower(name)) {
			matched = append(matched, dev)
		}
	}
	return matched
}

// EffectDevices returns the devices exposing a direct-control mode, the
// subset suitable for driving from an effects engine.
func (c *Client) EffectDevices() []*device.Device {
	var matched []*device.Device
	for _, dev := range c.Devices() {
		for _, mode := range dev.Modes() {
			if strings.EqualFold(mode.Name(), device.DirectModeName) {
				matched = append(matched, dev)
				break
			}
		}
	}
	return matched
}

// SetColor paints every device with one color.
func (c *Client) SetColor(color common.Color, fast bool) error {
	for _, dev := range c.Devices() {
		if err := dev.SetColor(color, fast); err != nil {
			return err
		}
	}
	return nil
}

// Clear turns every LED on every device off.
func (c *Client) Clear() error {
	return c.SetColor(common.Color{}, false)
}

// ProtocolVersion returns the protocol version negotiated with the
// server.
func (c *Client) ProtocolVersion() uint32 {
	return c.session.Version()
}

// Connected reports whether the underlying session is usable.
func (c *Client) Connected() bool {
	return c.session.Connected()
}

// Reconnect re-dials the server with the last-used parameters and
// re-enumerates devices; the previous device mirror is discarded.
func (c *Client) Reconnect() error {
	if err := c.session.Reconnect(); err != nil {
		return err
	}
	c.Lock()
	c.devices = nil
	c.Unlock()
	if err := c.Update(); err != nil {
		return err
	}
	if c.session.Version() >= 2 {
		if err := c.UpdateProfiles(); err != nil {
			common.Log.Warnf("Failed fetching profile list: %v", err)
		}
	}
	return nil
}

// Close disconnects from the server.  Any blocked request wakes with
// common.ErrDisconnected; the Client is unusable afterwards except for
// Reconnect.
func (c *Client) Close() error {
	err := common.ErrClosed
	c.closeOnce.Do(func() {
		close(c.quitChan)
		_ = c.sessionSub.Close()
		err = c.session.Close()
	})
	return err
}

// NewSubscription returns a new *common.Subscription for receiving
// device-list-updated and disconnection events from this client.
func (c *Client) NewSubscription() (*common.Subscription, error) {
	sub := common.NewSubscription(c)
	c.Lock()
	c.subscriptions[sub.ID()] = sub
	c.Unlock()
	return sub, nil
}

// CloseSubscription is a callback for handling the closing of
// subscriptions.
func (c *Client) CloseSubscription(sub *common.Subscription) error {
	c.RLock()
	_, ok := c.subscriptions[sub.ID()]
	c.RUnlock()
	if !ok {
		return common.ErrNotFound
	}
	c.Lock()
	delete(c.subscriptions, sub.ID())
	c.Unlock()
	return nil
}

func (c *Client) publish(event interface{}) {
	c.RLock()
	subs := make([]*common.Subscription, 0, len(c.subscriptions))
	for _, sub := range c.subscriptions {
		subs = append(subs, sub)
	}
	c.RUnlock()

	for _, sub := range subs {
		if err := sub.Write(event); err != nil {
			common.Log.Warnf("Failed publishing event to subscription %s: %v", sub.ID(), err)
		}
	}
}
