package openrgb_test

import (
	"encoding/binary"
	"net"
	"sync"

	"github.com/jath03/openrgb-go/common"
	"github.com/jath03/openrgb-go/protocol/packet"
)

// sdkServer is an in-process stand-in for an OpenRGB SDK server.  It
// keeps a mutable device inventory, applies color and mode writes to it,
// and maintains a named profile store, so a client exercised against it
// sees its own writes reflected on the next refresh.
type sdkServer struct {
	ln      net.Listener
	version uint32

	mu       sync.Mutex
	conns    []net.Conn
	devices  []*packet.ControllerData
	profiles []string
	sent     map[packet.PacketType]int
}

func newSDKServer(version uint32, devices ...*packet.ControllerData) (*sdkServer, error) {
	ln, err := net.Listen(`tcp`, `127.0.0.1:0`)
	if err != nil {
		return nil, err
	}
	s := &sdkServer{
		ln:      ln,
		version: version,
		devices: devices,
		sent:    map[packet.PacketType]int{},
	}
	go s.serve()
	return s, nil
}

func (s *sdkServer) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *sdkServer) stop() {
	s.ln.Close()
	s.mu.Lock()
	conns := s.conns
	s.conns = nil
	s.mu.Unlock()
	for _, conn := range conns {
		conn.Close()
	}
}

func (s *sdkServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		go s.handle(conn)
	}
}

func (s *sdkServer) handle(conn net.Conn) {
	for {
		hdr, payload, err := packet.ReadMessage(conn)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.sent[hdr.Type]++
		reply := s.process(hdr, payload)
		s.mu.Unlock()
		if reply != nil {
			packet.WriteMessage(conn, hdr.DeviceIndex, hdr.Type, reply)
		}
	}
}

// process handles one message under the state lock, returning a reply
// payload for request types and nil for fire-and-forget commands.
func (s *sdkServer) process(hdr packet.Header, payload []byte) []byte {
	switch hdr.Type {
	case packet.RequestProtocolVersion:
		if s.version == 0 {
			// Pre-negotiation servers never answer; the client is
			// expected to time out and downgrade
			return nil
		}
		return u32bytes(s.version)

	case packet.RequestControllerCount:
		return u32bytes(uint32(len(s.devices)))

	case packet.RequestControllerData:
		if int(hdr.DeviceIndex) < len(s.devices) {
			return s.devices[hdr.DeviceIndex].Encode(s.version)
		}

	case packet.UpdateLEDs:
		if dev := s.device(hdr.DeviceIndex); dev != nil && len(payload) >= 6 {
			applyColors(dev.Colors, 0, payload[6:], int(binary.LittleEndian.Uint16(payload[4:6])))
		}

	case packet.UpdateZoneLEDs:
		if dev := s.device(hdr.DeviceIndex); dev != nil && len(payload) >= 10 {
			zone := binary.LittleEndian.Uint32(payload[4:8])
			count := int(binary.LittleEndian.Uint16(payload[8:10]))
			var start uint32
			for i := range dev.Zones {
				if uint32(i) == zone {
					applyColors(dev.Colors, int(start), payload[10:], count)
					break
				}
				start += dev.Zones[i].NumLEDs
			}
		}

	case packet.UpdateSingleLED:
		if dev := s.device(hdr.DeviceIndex); dev != nil && len(payload) >= 8 {
			led := binary.LittleEndian.Uint32(payload[:4])
			applyColors(dev.Colors, int(led), payload[4:], 1)
		}

	case packet.UpdateMode:
		if dev := s.device(hdr.DeviceIndex); dev != nil && len(payload) >= 8 {
			dev.ActiveMode = int32(binary.LittleEndian.Uint32(payload[4:8]))
		}

	case packet.RequestProfileList:
		return packet.EncodeProfileList(s.profiles)

	case packet.RequestSaveProfile:
		name := profileName(payload)
		for _, known := range s.profiles {
			if known == name {
				return nil
			}
		}
		s.profiles = append(s.profiles, name)

	case packet.RequestDeleteProfile:
		name := profileName(payload)
		kept := s.profiles[:0]
		for _, known := range s.profiles {
			if known != name {
				kept = append(kept, known)
			}
		}
		s.profiles = kept
	}
	return nil
}

func (s *sdkServer) device(index uint32) *packet.ControllerData {
	if int(index) >= len(s.devices) {
		return nil
	}
	return s.devices[index]
}

func (s *sdkServer) commandCount(t packet.PacketType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[t]
}

func (s *sdkServer) profileNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.profiles...)
}

func (s *sdkServer) deviceColors(index int) []common.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]common.Color(nil), s.devices[index].Colors...)
}

func (s *sdkServer) notifyDeviceListUpdated() {
	s.mu.Lock()
	conns := append([]net.Conn(nil), s.conns...)
	s.mu.Unlock()
	for _, conn := range conns {
		packet.WriteMessage(conn, 0, packet.DeviceListUpdated, nil)
	}
}

func applyColors(dst []common.Color, start int, data []byte, count int) {
	for i := 0; i < count && len(data) >= 4; i++ {
		if start+i < len(dst) {
			dst[start+i] = common.Color{Red: data[0], Green: data[1], Blue: data[2]}
		}
		data = data[4:]
	}
}

func profileName(payload []byte) string {
	for i, b := range payload {
		if b == 0 {
			return string(payload[:i])
		}
	}
	return string(payload)
}

func u32bytes(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

func u32ptr(v uint32) *uint32 { return &v }

// strip returns a simple two-mode LED strip descriptor.
func strip(name string, leds int) *packet.ControllerData {
	data := &packet.ControllerData{
		Type: common.DeviceLEDStrip,
		Name: name,
		Metadata: packet.Metadata{
			Vendor:      `Testco`,
			Description: name + ` strip`,
		},
		Modes: []packet.ModeData{
			{Name: `Direct`, ColorMode: common.ColorModePerLED},
			{
				Name:      `Breathing`,
				Value:     1,
				Flags:     common.ModeHasSpeed,
				SpeedMin:  u32ptr(0),
				SpeedMax:  u32ptr(100),
				Speed:     u32ptr(50),
				ColorMode: common.ColorModeNone,
			},
		},
		Zones: []packet.ZoneData{
			{Name: `Main`, Type: common.ZoneLinear, LEDsMin: uint32(leds), LEDsMax: uint32(leds), NumLEDs: uint32(leds)},
		},
		Colors: make([]common.Color, leds),
	}
	for i := 0; i < leds; i++ {
		data.LEDs = append(data.LEDs, packet.LEDData{Name: `LED`})
	}
	return data
}

// keyboard returns a keyboard descriptor without a direct mode.
func keyboard(name string, leds int) *packet.ControllerData {
	data := strip(name, leds)
	data.Type = common.DeviceKeyboard
	data.Modes = data.Modes[1:]
	data.ActiveMode = 0
	return data
}
