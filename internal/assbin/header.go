package assbin

import "fmt"

// Magic is the literal the first bytes of every dump must carry.
const Magic = "ASSIMP.binary"

// HeaderSize is the size in bytes of the container preamble.
const HeaderSize = 512

const (
	DumpFormatRaw = 0
)

// Header is the container preamble.
type Header struct {
	Magic      string
	VerMajor   int32
	VerMinor   int32
	Revision   int32
	Flags      int32
	DumpFormat int16
	Compressed int16
	Filename   string
	Params     string
}

// readHeader reads the preamble field by field and rejects anything but an
// uncompressed raw dump.
func (c *cursor) readHeader() (Header, error) {
	var magic [44]byte
	c.readBytes(magic[:])

	h := Header{
		Magic:      cstring(magic[:]),
		VerMajor:   c.readI32(),
		VerMinor:   c.readI32(),
		Revision:   c.readI32(),
		Flags:      c.readI32(),
		DumpFormat: c.readI16(),
		Compressed: c.readI16(),
		Filename:   c.readFixed(256),
		Params:     c.readFixed(128),
	}
	c.seekTo(c.off + 64) // reserved
	if c.err != nil {
		return h, c.err
	}

	if string(magic[:len(Magic)]) != Magic {
		return h, fmt.Errorf("%w: %q", ErrBadMagic, h.Magic)
	}
	if h.DumpFormat != DumpFormatRaw {
		return h, fmt.Errorf("%w: %d", ErrDumpFormat, h.DumpFormat)
	}
	if h.Compressed != 0 {
		return h, ErrCompressed
	}
	return h, nil
}
