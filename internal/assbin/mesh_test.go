package assbin

import (
	"errors"
	"testing"
)

func decodeMesh(t *testing.T, b []byte) (*Mesh, *cursor) {
	t.Helper()
	c := newTestCursor(t, b)
	m := &Mesh{}
	if !c.readMesh(m, HeapAllocator{}) {
		t.Fatalf("readMesh failed: %v", c.err)
	}
	return m, c
}

func TestMeshPositionsBitAlsoReadsNormals(t *testing.T) {
	var s stream
	s.mesh(meshSpec{vertices: 3, components: HasPositions, faces: [][]uint32{{0, 1, 2}}})
	m, c := decodeMesh(t, s.Bytes())

	if len(m.Positions) != 9 {
		t.Errorf("Expected 9 position floats, got %d", len(m.Positions))
	}
	if len(m.Normals) != 9 {
		t.Errorf("Expected 9 normal floats, got %d", len(m.Normals))
	}
	if m.Positions[8] != 8 || m.Normals[0] != 1000 {
		t.Errorf("Blocks read out of order: pos[8]=%v nrm[0]=%v", m.Positions[8], m.Normals[0])
	}
	if m.Tangents != nil || m.Bitangents != nil {
		t.Error("Expected no tangent blocks")
	}
	for i := range MaxColorSets {
		if m.Colors[i] != nil {
			t.Errorf("Expected no color set %d", i)
		}
	}
	for i := range MaxTexCoordSets {
		if m.TexCoords[i] != nil {
			t.Errorf("Expected no texcoord set %d", i)
		}
	}
	if c.off != int64(s.Len()) {
		t.Errorf("Expected whole chunk consumed (%d), got offset %d", s.Len(), c.off)
	}
}

func TestMeshNormalsBitAloneReadsNothing(t *testing.T) {
	var s stream
	s.mesh(meshSpec{vertices: 2, components: HasNormals})
	m, c := decodeMesh(t, s.Bytes())
	if m.Normals != nil || m.Positions != nil {
		t.Error("Expected no vertex blocks without the positions bit")
	}
	if c.off != int64(s.Len()) {
		t.Errorf("Expected offset %d, got %d", s.Len(), c.off)
	}
}

func TestMeshTexCoordsReadThreeFloatsPerVertex(t *testing.T) {
	for _, dims := range []int32{1, 2, 3, 4} {
		var s stream
		s.mesh(meshSpec{vertices: 5, components: HasTexCoords(2), uvDims: dims})
		m, c := decodeMesh(t, s.Bytes())

		if m.UVComponents[2] != dims {
			t.Errorf("dims %d: stored component count %d", dims, m.UVComponents[2])
		}
		if len(m.TexCoords[2]) != 15 {
			t.Errorf("dims %d: expected 15 texcoord floats, got %d", dims, len(m.TexCoords[2]))
		}
		// header (8) + fixed fields (24) + one int + 3V floats
		if want := int64(8 + 24 + 4 + 15*4); c.off != want {
			t.Errorf("dims %d: expected %d bytes consumed, got %d", dims, want, c.off)
		}
	}
}

func TestMeshColorsAndTangents(t *testing.T) {
	var s stream
	comp := HasPositions | HasTangentsAndBitangents | HasColors(0) | HasColors(7) | HasTexCoords(0)
	s.mesh(meshSpec{vertices: 2, components: comp, uvDims: 2})
	m, c := decodeMesh(t, s.Bytes())

	if len(m.Tangents) != 6 || len(m.Bitangents) != 6 {
		t.Errorf("Unexpected tangent lengths %d/%d", len(m.Tangents), len(m.Bitangents))
	}
	if m.Tangents[0] != 2000 || m.Bitangents[0] != 3000 {
		t.Errorf("Tangent blocks out of order: %v %v", m.Tangents[0], m.Bitangents[0])
	}
	if len(m.Colors[0]) != 8 || len(m.Colors[7]) != 8 {
		t.Errorf("Unexpected color lengths %d/%d", len(m.Colors[0]), len(m.Colors[7]))
	}
	if m.Colors[3] != nil {
		t.Error("Expected color set 3 absent")
	}
	if c.off != int64(s.Len()) {
		t.Errorf("Expected offset %d, got %d", s.Len(), c.off)
	}
}

func TestMeshIndexWidth(t *testing.T) {
	tests := []struct {
		vertices int
		width    int
	}{
		{0, 2},
		{65535, 2},
		{65536, 4},
		{100000, 4},
	}
	for _, tt := range tests {
		var s stream
		faces := [][]uint32{{0, 1, 2}, {uint32(tt.vertices) - 1, 0}}
		s.mesh(meshSpec{vertices: tt.vertices, faces: faces})
		m, c := decodeMesh(t, s.Bytes())

		if m.IndexWidth != tt.width {
			t.Errorf("V=%d: expected width %d, got %d", tt.vertices, tt.width, m.IndexWidth)
		}
		if c.off != int64(s.Len()) {
			t.Errorf("V=%d: expected offset %d, got %d", tt.vertices, s.Len(), c.off)
		}
		if len(m.Faces) != 2 || len(m.Faces[1].Indices) != 2 {
			t.Fatalf("V=%d: unexpected faces %+v", tt.vertices, m.Faces)
		}
		want := uint32(tt.vertices) - 1
		if tt.width == 2 {
			want &= 0xffff
		}
		if m.Faces[1].Indices[0] != want {
			t.Errorf("V=%d: expected index %d, got %d", tt.vertices, want, m.Faces[1].Indices[0])
		}
	}
}

func TestMeshSkipsBones(t *testing.T) {
	var s stream
	s.mesh(meshSpec{vertices: 1, components: HasPositions, bones: 3})
	s.u32(0xcafe)
	m, c := decodeMesh(t, s.Bytes())
	if m.NumBones != 3 {
		t.Errorf("Expected 3 bones, got %d", m.NumBones)
	}
	if got := c.readU32(); got != 0xcafe {
		t.Errorf("Expected marker after bones, got %#x", got)
	}
}

func TestMeshHugeBoneCountOnShortStream(t *testing.T) {
	var s stream
	s.chunk(ChunkMesh, func(b *stream) {
		b.u32(4).i32(0).i32(0).i32(0x7fffffff).i32(0).u32(0)
	})
	c := newTestCursor(t, s.Bytes())
	if c.readMesh(&Mesh{}, HeapAllocator{}) {
		t.Fatal("Expected readMesh to fail")
	}
	if !errors.Is(c.err, ErrTruncated) {
		t.Errorf("Expected ErrTruncated, got %v", c.err)
	}
	if c.off != int64(s.Len()) {
		t.Errorf("Expected no reads past the mesh fields, cursor at %d of %d", c.off, s.Len())
	}
}

func TestMeshWrongTag(t *testing.T) {
	var s stream
	s.chunk(ChunkMaterial, nil)
	c := newTestCursor(t, s.Bytes())
	if c.readMesh(&Mesh{}, HeapAllocator{}) {
		t.Fatal("Expected readMesh to fail")
	}
	var ce *ChunkError
	if !errors.As(c.err, &ce) {
		t.Fatalf("Expected ChunkError, got %v", c.err)
	}
	if ce.Want != ChunkMesh || ce.Got != ChunkMaterial {
		t.Errorf("Unexpected chunk error %+v", ce)
	}
	if !errors.Is(c.err, ErrChunkTag) {
		t.Error("Expected ChunkError to match ErrChunkTag")
	}
}

func TestMeshNegativeVertexCount(t *testing.T) {
	var s stream
	s.chunk(ChunkMesh, func(b *stream) {
		b.u32(4).i32(-1).i32(0).i32(0).i32(0).u32(uint32(HasPositions))
	})
	c := newTestCursor(t, s.Bytes())
	if c.readMesh(&Mesh{}, HeapAllocator{}) {
		t.Fatal("Expected readMesh to fail")
	}
	if !errors.Is(c.err, ErrNegativeCount) {
		t.Errorf("Expected ErrNegativeCount, got %v", c.err)
	}
}
