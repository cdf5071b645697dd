package packet

import (
	"fmt"

	"github.com/jath03/openrgb-go/common"
)

// profileMagic begins every local profile file.
var profileMagic = []byte("OPENRGB_PROFILE\x00")

// localProfileVersion is the only container version this package reads or
// writes.
const localProfileVersion = 1

// LocalProfile is the decoded form of an .orp profile file: a sequence of
// controller snapshots taken at save time.
type LocalProfile struct {
	Controllers []*ControllerData
}

// Encode serializes the profile into the .orp container format.
// Controller snapshots inside local profiles always use the version-0
// descriptor layout (no vendor string), regardless of the negotiated
// session version.
func (p *LocalProfile) Encode() []byte {
	w := &writer{}
	w.buf.Write(profileMagic)
	w.u32(localProfileVersion)
	for _, c := range p.Controllers {
		w.buf.Write(c.Encode(0))
	}
	return w.bytes()
}

// DecodeLocalProfile parses an .orp container.  Unknown container versions
// and truncated controller blobs are framing errors.
func DecodeLocalProfile(data []byte) (*LocalProfile, error) {
	r := newReader(data)
	head := r.bytes(len(profileMagic), `profile magic`)
	if r.err() != nil || string(head) != string(profileMagic) {
		return nil, fmt.Errorf(`%w: not an OpenRGB profile`, common.ErrFraming)
	}
	version := r.u32(`profile version`)
	if err := r.err(); err != nil {
		return nil, err
	}
	if version != localProfileVersion {
		return nil, fmt.Errorf(`%w: unsupported profile version %d`, common.ErrFraming, version)
	}

	p := &LocalProfile{}
	for r.remaining() >= 4 {
		size := int(r.u32(`controller size`))
		// The size field counts itself; rewind so the controller decoder
		// sees the complete blob
		r.off -= 4
		if size < 4 || r.remaining() < size {
			return nil, fmt.Errorf(`%w: truncated controller snapshot`, common.ErrFraming)
		}
		c, err := DecodeController(r.buf[r.off:r.off+size], 0)
		if err != nil {
			return nil, err
		}
		p.Controllers = append(p.Controllers, c)
		r.off += size
	}
	return p, nil
}

// DecodeProfileList parses the reply to a profile list request: a total
// size, a u16 count, then that many name strings.
func DecodeProfileList(data []byte) ([]string, error) {
	r := newReader(data)
	r.u32(`list size`)
	count := int(r.u16(`profile count`))
	names := make([]string, 0, count)
	for i := 0; i < count; i++ {
		names = append(names, r.string(`profile name`))
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return names, nil
}

// EncodeProfileList builds a profile list reply; the inverse of
// DecodeProfileList, used by test servers.
func EncodeProfileList(names []string) []byte {
	w := &writer{}
	for _, name := range names {
		w.string(name)
	}
	body := w.bytes()
	out := &writer{}
	out.u32(uint32(len(body) + 6))
	out.u16(uint16(len(names)))
	out.buf.Write(body)
	return out.bytes()
}
