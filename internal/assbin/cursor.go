package assbin

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// scratchSize bounds the temporary buffer used for bulk numeric reads.
const scratchSize = 64 << 10

// cursor is a forward reader over one stream. The first failure is sticky:
// later reads return zero values and decoders check c.err at their boundaries.
type cursor struct {
	r    io.ReadSeeker
	off  int64
	size int64
	err  error

	tmp     [8]byte
	scratch []byte
}

func newCursor(r io.ReadSeeker) (*cursor, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("assbin: seek: %w", err)
	}
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("assbin: seek: %w", err)
	}
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("assbin: seek: %w", err)
	}
	return &cursor{r: r, off: start, size: size}, nil
}

func (c *cursor) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *cursor) remaining() int64 { return c.size - c.off }

// reserve checks that count is non-negative and that count*elemSize bytes are
// still available, so corrupt counts fail before anything is allocated.
func (c *cursor) reserve(count int64, elemSize int64, what string) bool {
	if c.err != nil {
		return false
	}
	if count < 0 {
		c.fail(fmt.Errorf("%w: %s %d at offset %d", ErrNegativeCount, what, count, c.off))
		return false
	}
	if elemSize > 0 && count > c.remaining()/elemSize {
		c.fail(fmt.Errorf("%w: %s needs %d bytes at offset %d, %d left",
			ErrTruncated, what, count*elemSize, c.off, c.remaining()))
		return false
	}
	return true
}

func (c *cursor) read(p []byte) bool {
	if c.err != nil {
		return false
	}
	n, err := io.ReadFull(c.r, p)
	c.off += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			c.fail(fmt.Errorf("%w: wanted %d bytes at offset %d", ErrTruncated, len(p), c.off-int64(n)))
		} else {
			c.fail(fmt.Errorf("assbin: read at offset %d: %w", c.off, err))
		}
		return false
	}
	return true
}

func (c *cursor) readU16() uint16 {
	if !c.read(c.tmp[:2]) {
		return 0
	}
	return binary.LittleEndian.Uint16(c.tmp[:2])
}

func (c *cursor) readI16() int16 { return int16(c.readU16()) }

func (c *cursor) readU32() uint32 {
	if !c.read(c.tmp[:4]) {
		return 0
	}
	return binary.LittleEndian.Uint32(c.tmp[:4])
}

func (c *cursor) readI32() int32 { return int32(c.readU32()) }

func (c *cursor) readF32() float32 { return math.Float32frombits(c.readU32()) }

func (c *cursor) readBytes(dst []byte) { c.read(dst) }

// readFixed reads an n-byte field and returns it trimmed at the first NUL.
func (c *cursor) readFixed(n int) string {
	b := make([]byte, n)
	if !c.read(b) {
		return ""
	}
	return cstring(b)
}

func (c *cursor) block(n int) []byte {
	if cap(c.scratch) < n {
		c.scratch = make([]byte, n)
	}
	return c.scratch[:n]
}

func (c *cursor) readF32s(dst []float32) {
	const per = scratchSize / 4
	for len(dst) > 0 && c.err == nil {
		n := min(len(dst), per)
		b := c.block(n * 4)
		if !c.read(b) {
			return
		}
		for i := range n {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		}
		dst = dst[n:]
	}
}

// readIndices fills dst with width-byte little-endian unsigned integers.
func (c *cursor) readIndices(dst []uint32, width int) {
	per := scratchSize / width
	for len(dst) > 0 && c.err == nil {
		n := min(len(dst), per)
		b := c.block(n * width)
		if !c.read(b) {
			return
		}
		if width == 2 {
			for i := range n {
				dst[i] = uint32(binary.LittleEndian.Uint16(b[i*2:]))
			}
		} else {
			for i := range n {
				dst[i] = binary.LittleEndian.Uint32(b[i*4:])
			}
		}
		dst = dst[n:]
	}
}

// readString reads a 4-byte length followed by that many bytes. At most
// maxLen-1 bytes are kept, and the result stops at the first NUL.
func (c *cursor) readString(maxLen int) string {
	length := c.readI32()
	if c.err != nil || length <= 0 {
		return ""
	}
	if !c.reserve(int64(length), 1, "string") {
		return ""
	}
	b := c.block(int(length))
	if !c.read(b) {
		return ""
	}
	if len(b) > maxLen-1 {
		b = b[:maxLen-1]
	}
	return cstring(b)
}

func (c *cursor) seekTo(off int64) {
	if c.err != nil {
		return
	}
	if off > c.size {
		c.fail(fmt.Errorf("%w: seek to %d past end %d", ErrTruncated, off, c.size))
		return
	}
	if _, err := c.r.Seek(off, io.SeekStart); err != nil {
		c.fail(fmt.Errorf("assbin: seek to %d: %w", off, err))
		return
	}
	c.off = off
}

// skipChunk reads a chunk header and moves past its payload without looking
// at the tag.
func (c *cursor) skipChunk() chunkHeader {
	h := chunkHeader{tag: c.readU32(), length: c.readU32()}
	h.start = c.off
	c.seekTo(h.end())
	return h
}

func cstring(b []byte) string {
	for i, ch := range b {
		if ch == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
