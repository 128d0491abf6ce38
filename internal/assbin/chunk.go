package assbin

import (
	"errors"
	"fmt"
)

// Chunk tags. Every structural unit in the stream starts with one of these
// followed by the payload length in bytes (header excluded).
const (
	ChunkCamera           uint32 = 0x1234
	ChunkLight            uint32 = 0x1235
	ChunkTexture          uint32 = 0x1236
	ChunkMesh             uint32 = 0x1237
	ChunkNodeAnim         uint32 = 0x1238
	ChunkScene            uint32 = 0x1239
	ChunkBone             uint32 = 0x123a
	ChunkAnimation        uint32 = 0x123b
	ChunkNode             uint32 = 0x123c
	ChunkMaterial         uint32 = 0x123d
	ChunkMaterialProperty uint32 = 0x123e
)

const chunkHeaderSize = 8

var (
	ErrBadMagic      = errors.New("assbin: bad magic")
	ErrDumpFormat    = errors.New("assbin: unsupported dump format")
	ErrCompressed    = errors.New("assbin: compressed dumps are not supported")
	ErrChunkTag      = errors.New("assbin: unexpected chunk tag")
	ErrNegativeCount = errors.New("assbin: negative count")
	ErrTruncated     = errors.New("assbin: truncated stream")
)

// ChunkError reports a chunk whose tag differs from the one the decoder expected
// at that position.
type ChunkError struct {
	Want   uint32
	Got    uint32
	Offset int64
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("assbin: expected %s chunk at offset %d, got %s",
		ChunkName(e.Want), e.Offset, ChunkName(e.Got))
}

func (e *ChunkError) Unwrap() error { return ErrChunkTag }

// ChunkName returns a readable name for a chunk tag.
func ChunkName(tag uint32) string {
	switch tag {
	case ChunkCamera:
		return "camera"
	case ChunkLight:
		return "light"
	case ChunkTexture:
		return "texture"
	case ChunkMesh:
		return "mesh"
	case ChunkNodeAnim:
		return "nodeanim"
	case ChunkScene:
		return "scene"
	case ChunkBone:
		return "bone"
	case ChunkAnimation:
		return "animation"
	case ChunkNode:
		return "node"
	case ChunkMaterial:
		return "material"
	case ChunkMaterialProperty:
		return "materialproperty"
	default:
		return fmt.Sprintf("unknown(%#x)", tag)
	}
}

type chunkHeader struct {
	tag    uint32
	length uint32
	start  int64 // offset of the first payload byte
}

func (h chunkHeader) end() int64 { return h.start + int64(h.length) }

// readChunk reads a chunk header and fails the cursor unless its tag is want.
func (c *cursor) readChunk(want uint32) (chunkHeader, bool) {
	at := c.off
	h := chunkHeader{tag: c.readU32(), length: c.readU32()}
	h.start = c.off
	if c.err != nil {
		return h, false
	}
	if h.tag != want {
		c.fail(&ChunkError{Want: want, Got: h.tag, Offset: at})
		return h, false
	}
	return h, true
}
