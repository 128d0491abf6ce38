package assbin

// Texture is an embedded image. With a non-zero height Data holds raw RGBA
// pixels; otherwise Width is the byte length of a compressed file whose
// format FormatHint names (e.g. "png", "jpg").
type Texture struct {
	Width      int32
	Height     int32
	FormatHint [4]byte
	Data       []byte
}

// Size returns the payload size in bytes.
func (t *Texture) Size() int64 {
	if t.Height != 0 {
		return int64(t.Width) * int64(t.Height) * 4
	}
	return int64(t.Width)
}

// Compressed reports whether the payload is an opaque image file rather than
// raw pixels.
func (t *Texture) Compressed() bool { return t.Height == 0 }

// Hint returns the format hint without trailing NULs.
func (t *Texture) Hint() string { return cstring(t.FormatHint[:]) }

func (c *cursor) readTexture(t *Texture, a Allocator) bool {
	if _, ok := c.readChunk(ChunkTexture); !ok {
		return false
	}
	t.Width = c.readI32()
	t.Height = c.readI32()
	c.readBytes(t.FormatHint[:])
	if !c.reserve(t.Size(), 1, "texture data") {
		return false
	}
	t.Data = a.Bytes(int(t.Size()))
	c.readBytes(t.Data)
	return c.err == nil
}

func (t *Texture) release(a Allocator) {
	if t.Data != nil {
		a.FreeBytes(t.Data)
		t.Data = nil
	}
}
