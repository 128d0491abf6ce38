package assbin

import (
	"bytes"
	"encoding/binary"
	"math"
)

// stream builds little-endian test dumps.
type stream struct {
	bytes.Buffer
}

func (s *stream) u16(v uint16) *stream {
	binary.Write(&s.Buffer, binary.LittleEndian, v)
	return s
}

func (s *stream) i16(v int16) *stream { return s.u16(uint16(v)) }

func (s *stream) u32(v uint32) *stream {
	binary.Write(&s.Buffer, binary.LittleEndian, v)
	return s
}

func (s *stream) i32(v int32) *stream { return s.u32(uint32(v)) }

func (s *stream) f32(v float32) *stream { return s.u32(math.Float32bits(v)) }

// floats writes n floats counting up from start.
func (s *stream) floats(n int, start float32) *stream {
	for i := range n {
		s.f32(start + float32(i))
	}
	return s
}

func (s *stream) raw(b []byte) *stream {
	s.Write(b)
	return s
}

func (s *stream) str(v string) *stream {
	s.u32(uint32(len(v)))
	s.WriteString(v)
	return s
}

// chunk writes a chunk header and a payload built by fill.
func (s *stream) chunk(tag uint32, fill func(*stream)) *stream {
	var body stream
	if fill != nil {
		fill(&body)
	}
	s.u32(tag).u32(uint32(body.Len()))
	s.Write(body.Bytes())
	return s
}

func (s *stream) header(dumpFormat, compressed int16) *stream {
	var magic [44]byte
	copy(magic[:], Magic)
	s.raw(magic[:])
	s.i32(5).i32(4).i32(1) // version
	s.i32(0)               // flags
	s.i16(dumpFormat).i16(compressed)
	var name [256]byte
	copy(name[:], "test.assbin")
	s.raw(name[:])
	s.raw(make([]byte, 128+64))
	return s
}

// scene writes the scene chunk header and fixed fields. The payload length is
// not meaningful to the decoder, so it is written as zero.
func (s *stream) scene(meshes, materials, animations, textures int32) *stream {
	s.u32(ChunkScene).u32(0)
	s.u32(0).i32(meshes).i32(materials).i32(animations).i32(textures).i32(0).i32(0)
	return s
}

func (s *stream) emptyNode() *stream {
	return s.chunk(ChunkNode, func(n *stream) {
		n.str("root").floats(16, 0).i32(0).i32(0)
	})
}

type meshSpec struct {
	vertices   int
	components Component
	uvDims     int32
	faces      [][]uint32
	bones      int
}

func (s *stream) mesh(m meshSpec) *stream {
	return s.chunk(ChunkMesh, func(b *stream) {
		b.u32(4).i32(int32(m.vertices)).i32(int32(len(m.faces))).i32(int32(m.bones)).i32(0).u32(uint32(m.components))
		v := m.vertices
		if m.components&HasPositions != 0 {
			b.floats(3*v, 0).floats(3*v, 1000)
		}
		if m.components&HasTangentsAndBitangents != 0 {
			b.floats(3*v, 2000).floats(3*v, 3000)
		}
		for i := range MaxColorSets {
			if m.components&HasColors(i) != 0 {
				b.floats(4*v, 0.5)
			}
		}
		for i := range MaxTexCoordSets {
			if m.components&HasTexCoords(i) != 0 {
				b.i32(m.uvDims).floats(3*v, 0.25)
			}
		}
		for _, f := range m.faces {
			b.u16(uint16(len(f)))
			for _, idx := range f {
				if v < 1<<16 {
					b.u16(uint16(idx))
				} else {
					b.u32(idx)
				}
			}
		}
		for range m.bones {
			b.chunk(ChunkBone, func(bone *stream) { bone.str("bone").raw(make([]byte, 20)) })
		}
	})
}

type propSpec struct {
	key      string
	semantic int32
	data     []byte
}

func (s *stream) material(props ...propSpec) *stream {
	return s.chunk(ChunkMaterial, func(b *stream) {
		b.i32(int32(len(props)))
		for _, p := range props {
			b.chunk(ChunkMaterialProperty, func(pb *stream) {
				pb.str(p.key).i32(p.semantic).i32(0).i32(int32(len(p.data))).i32(0).raw(p.data)
			})
		}
	})
}

func floatData(vs ...float32) []byte {
	var s stream
	for _, v := range vs {
		s.f32(v)
	}
	return s.Bytes()
}

func stringData(v string) []byte {
	var s stream
	s.str(v)
	s.WriteByte(0)
	return s.Bytes()
}

// countingAllocator tracks buffers handed out and not yet freed.
type countingAllocator struct {
	live  int
	total int
}

func (a *countingAllocator) take() { a.live++; a.total++ }

func (a *countingAllocator) Float32s(n int) []float32 { a.take(); return make([]float32, n) }
func (a *countingAllocator) Uint32s(n int) []uint32   { a.take(); return make([]uint32, n) }
func (a *countingAllocator) Bytes(n int) []byte       { a.take(); return make([]byte, n) }

func (a *countingAllocator) FreeFloat32s([]float32) { a.live-- }
func (a *countingAllocator) FreeUint32s([]uint32)   { a.live-- }
func (a *countingAllocator) FreeBytes([]byte)       { a.live-- }
