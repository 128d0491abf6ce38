package assbin

// Component is the per-mesh bitmask selecting which vertex blocks follow the
// mesh header.
type Component uint32

const (
	HasPositions             Component = 0x1
	HasNormals               Component = 0x2
	HasTangentsAndBitangents Component = 0x4

	hasTexCoordBase Component = 0x100
	hasColorBase    Component = 0x10000
)

const (
	MaxColorSets    = 8
	MaxTexCoordSets = 8
)

// HasTexCoords returns the bit for texture coordinate set n.
func HasTexCoords(n int) Component { return hasTexCoordBase << n }

// HasColors returns the bit for vertex color set n.
func HasColors(n int) Component { return hasColorBase << n }

// Has reports whether every bit of want is set.
func (c Component) Has(want Component) bool { return c&want == want }

// Face is one primitive. Indices are widened to uint32 whatever their width
// on disk.
type Face struct {
	Indices []uint32
}

// Mesh holds one decoded mesh. Vertex arrays are flat float32 slices: three
// floats per vertex except colors, which carry four.
type Mesh struct {
	PrimitiveTypes uint32
	NumVertices    int
	NumFaces       int
	NumBones       int
	MaterialIndex  int
	Components     Component

	Positions    []float32
	Normals      []float32
	Tangents     []float32
	Bitangents   []float32
	Colors       [MaxColorSets][]float32
	UVComponents [MaxTexCoordSets]int32
	TexCoords    [MaxTexCoordSets][]float32
	Faces        []Face

	// IndexWidth is the on-disk size of one face index, 2 or 4 bytes.
	IndexWidth int
}

// indexWidth picks the face index size for a mesh with numVertices vertices.
func indexWidth(numVertices int) int {
	if numVertices < 1<<16 {
		return 2
	}
	return 4
}

func (c *cursor) readMesh(m *Mesh, a Allocator) bool {
	if _, ok := c.readChunk(ChunkMesh); !ok {
		return false
	}

	m.PrimitiveTypes = c.readU32()
	numVertices := c.readI32()
	numFaces := c.readI32()
	numBones := c.readI32()
	m.MaterialIndex = int(c.readI32())
	m.Components = Component(c.readU32())
	if c.err != nil {
		return false
	}
	for _, n := range []struct {
		v    int32
		what string
	}{{numVertices, "vertex count"}, {numFaces, "face count"}, {numBones, "bone count"}} {
		if !c.reserve(int64(n.v), 0, n.what) {
			return false
		}
	}
	m.NumVertices = int(numVertices)
	m.NumFaces = int(numFaces)
	m.NumBones = int(numBones)
	v := m.NumVertices

	// Normals ride on the positions bit, not on HasNormals.
	if m.Components&HasPositions != 0 {
		if !c.reserve(int64(v)*2, 12, "positions and normals") {
			return false
		}
		m.Positions = c.allocF32s(a, 3*v)
		m.Normals = c.allocF32s(a, 3*v)
	}

	if m.Components&HasTangentsAndBitangents != 0 {
		if !c.reserve(int64(v)*2, 12, "tangents and bitangents") {
			return false
		}
		m.Tangents = c.allocF32s(a, 3*v)
		m.Bitangents = c.allocF32s(a, 3*v)
	}

	for i := range MaxColorSets {
		if m.Components&HasColors(i) == 0 {
			continue
		}
		if !c.reserve(int64(v), 16, "colors") {
			return false
		}
		m.Colors[i] = c.allocF32s(a, 4*v)
	}

	for i := range MaxTexCoordSets {
		if m.Components&HasTexCoords(i) == 0 {
			continue
		}
		// The component count is stored, but three floats per vertex are
		// always read.
		m.UVComponents[i] = c.readI32()
		if !c.reserve(int64(v), 12, "texcoords") {
			return false
		}
		m.TexCoords[i] = c.allocF32s(a, 3*v)
	}
	if c.err != nil {
		return false
	}

	m.IndexWidth = indexWidth(v)
	if !c.reserve(int64(m.NumFaces), 2, "faces") {
		return false
	}
	m.Faces = make([]Face, m.NumFaces)
	for i := range m.Faces {
		n := int(c.readU16())
		if !c.reserve(int64(n), int64(m.IndexWidth), "face indices") {
			return false
		}
		m.Faces[i].Indices = a.Uint32s(n)
		c.readIndices(m.Faces[i].Indices, m.IndexWidth)
	}

	if !c.reserve(int64(m.NumBones), chunkHeaderSize, "bones") {
		return false
	}
	for range m.NumBones {
		if c.skipChunk(); c.err != nil {
			return false
		}
	}
	return c.err == nil
}

// allocF32s allocates n floats and fills them from the stream.
func (c *cursor) allocF32s(a Allocator, n int) []float32 {
	buf := a.Float32s(n)
	c.readF32s(buf)
	return buf
}

func (m *Mesh) release(a Allocator) {
	for _, p := range []*[]float32{&m.Positions, &m.Normals, &m.Tangents, &m.Bitangents} {
		if *p != nil {
			a.FreeFloat32s(*p)
			*p = nil
		}
	}
	for i := range m.Colors {
		if m.Colors[i] != nil {
			a.FreeFloat32s(m.Colors[i])
			m.Colors[i] = nil
		}
	}
	for i := range m.TexCoords {
		if m.TexCoords[i] != nil {
			a.FreeFloat32s(m.TexCoords[i])
			m.TexCoords[i] = nil
		}
	}
	for i := range m.Faces {
		if m.Faces[i].Indices != nil {
			a.FreeUint32s(m.Faces[i].Indices)
			m.Faces[i].Indices = nil
		}
	}
	m.Faces = nil
}
