package openrgb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jath03/openrgb-go/common"
	"github.com/jath03/openrgb-go/device"
	"github.com/jath03/openrgb-go/protocol/packet"
)

// profileExtension is the suffix the server uses for its own profile
// files; local profiles use the same container format.
const profileExtension = `.orp`

// Profiles returns the cached list of server-side profile names.  The
// cache is advisory: another client may mutate the server's profile store
// at any time, so call UpdateProfiles before relying on it.
func (c *Client) Profiles() []string {
	c.RLock()
	defer c.RUnlock()
	return append([]string(nil), c.profiles...)
}

// UpdateProfiles refreshes the cached profile listing from the server.
// Requires protocol version 2.
func (c *Client) UpdateProfiles() error {
	payload, err := c.session.Request(0, packet.RequestProfileList, nil, 0)
	if err != nil {
		return err
	}
	names, err := packet.DecodeProfileList(payload)
	if err != nil {
		return err
	}
	c.Lock()
	c.profiles = names
	c.Unlock()
	return nil
}

// SaveProfile tells the server to persist the current state of every
// device under name in its own profile store, then refreshes the cached
// listing.
func (c *Client) SaveProfile(name string) error {
	if err := c.session.Send(0, packet.RequestSaveProfile, packet.ProfileNamePayload(name)); err != nil {
		return err
	}
	return c.UpdateProfiles()
}

// LoadProfile tells the server to restore the named profile from its own
// store.  The name is resolved case-insensitively against the cached
// listing; an unknown name fails with common.ErrNotFound.
func (c *Client) LoadProfile(name string) error {
	resolved, err := c.resolveProfile(name)
	if err != nil {
		return err
	}
	return c.session.Send(0, packet.RequestLoadProfile, packet.ProfileNamePayload(resolved))
}

// DeleteProfile removes the named profile from the server's store, then
// refreshes the cached listing.
func (c *Client) DeleteProfile(name string) error {
	resolved, err := c.resolveProfile(name)
	if err != nil {
		return err
	}
	if err := c.session.Send(0, packet.RequestDeleteProfile, packet.ProfileNamePayload(resolved)); err != nil {
		return err
	}
	return c.UpdateProfiles()
}

func (c *Client) resolveProfile(name string) (string, error) {
	for _, known := range c.Profiles() {
		if strings.EqualFold(known, name) {
			return known, nil
		}
	}
	return ``, fmt.Errorf(`%w: profile %q`, common.ErrNotFound, name)
}

// SaveLocalProfile snapshots every device's current state into an .orp
// file under dir (the configured or platform profile directory when
// empty).  The mirror is refreshed first so the snapshot reflects the
// authoritative hardware state.
func (c *Client) SaveLocalProfile(name, dir string) error {
	if err := c.Update(); err != nil {
		return err
	}
	path, err := c.profilePath(name, dir)
	if err != nil {
		return err
	}
	profile := &packet.LocalProfile{}
	for _, dev := range c.Devices() {
		profile.Controllers = append(profile.Controllers, dev.Snapshot())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	common.Log.Debugf("Writing local profile %s", path)
	return os.WriteFile(path, profile.Encode(), 0o644)
}

// LoadLocalProfile reads an .orp file and replays it against the live
// session: colors and active modes are applied to each matching device.
// A snapshot whose device count disagrees with the live session, or whose
// devices cannot all be matched by name, type and description, fails with
// common.ErrProfileMismatch before anything is applied.
func (c *Client) LoadLocalProfile(name, dir string) error {
	path, err := c.profilePath(name, dir)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	profile, err := packet.DecodeLocalProfile(raw)
	if err != nil {
		return err
	}

	devices := c.Devices()
	if len(profile.Controllers) != len(devices) {
		return fmt.Errorf(`%w: profile has %d devices, session has %d`, common.ErrProfileMismatch, len(profile.Controllers), len(devices))
	}

	// Pair every snapshot with a live device before touching anything, so
	// a mismatch applies no partial state
	type pair struct {
		snapshot *packet.ControllerData
		device   *device.Device
	}
	remaining := append([]*device.Device(nil), devices...)
	pairs := make([]pair, 0, len(profile.Controllers))
	for _, snapshot := range profile.Controllers {
		matched := -1
		for i, dev := range remaining {
			if dev == nil {
				continue
			}
			if snapshot.Name == dev.Name() && snapshot.Type == dev.Type() && snapshot.Metadata.Description == dev.Metadata().Description {
				matched = i
				break
			}
		}
		if matched == -1 {
			return fmt.Errorf(`%w: no connected device matches %q`, common.ErrProfileMismatch, snapshot.Name)
		}
		pairs = append(pairs, pair{snapshot: snapshot, device: remaining[matched]})
		remaining[matched] = nil
	}

	for _, p := range pairs {
		if !colorsEqual(p.snapshot.Colors, p.device.Colors()) {
			if err := p.device.SetColors(p.snapshot.Colors, false); err != nil {
				return err
			}
		}
		if active := p.device.ActiveMode(); active == nil || active.Index() != int(p.snapshot.ActiveMode) {
			if err := p.device.SetMode(int(p.snapshot.ActiveMode), false); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Client) profilePath(name, dir string) (string, error) {
	if dir == `` {
		dir = c.options.ProfileDirectory
	}
	if dir == `` {
		base, err := os.UserConfigDir()
		if err != nil {
			return ``, err
		}
		dir = filepath.Join(base, `OpenRGB`)
	}
	if !strings.HasSuffix(name, profileExtension) {
		name += profileExtension
	}
	return filepath.Join(dir, name), nil
}

func colorsEqual(a, b []common.Color) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
