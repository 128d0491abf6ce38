package assbin

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrWideIndices is returned when a mesh has too many vertices for 16-bit
// indices.
var ErrWideIndices = errors.New("assbin: mesh needs 32-bit indices")

// Vertex is the interleaved layout handed to the renderer.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
	Color    mgl32.Vec4
}

// Vertices builds one interleaved vertex per mesh vertex. Only the first
// present color set and texture coordinate set are used. Missing data falls
// back to normal (0,0,-1) and opaque white.
func (m *Mesh) Vertices() []Vertex {
	verts := make([]Vertex, m.NumVertices)

	colorSet := -1
	for i := range MaxColorSets {
		if m.Components&HasColors(i) != 0 && len(m.Colors[i]) >= 4*m.NumVertices {
			colorSet = i
			break
		}
	}
	uvSet := -1
	for i := range MaxTexCoordSets {
		if m.Components&HasTexCoords(i) != 0 && len(m.TexCoords[i]) >= 3*m.NumVertices {
			uvSet = i
			break
		}
	}
	hasPos := m.Components&HasPositions != 0 && len(m.Positions) >= 3*m.NumVertices
	hasNorm := m.Components&HasNormals != 0 && len(m.Normals) >= 3*m.NumVertices

	for v := range verts {
		vx := Vertex{
			Normal: mgl32.Vec3{0, 0, -1},
			Color:  mgl32.Vec4{1, 1, 1, 1},
		}
		if hasPos {
			vx.Position = mgl32.Vec3{m.Positions[v*3], m.Positions[v*3+1], m.Positions[v*3+2]}
		}
		if hasNorm {
			vx.Normal = mgl32.Vec3{m.Normals[v*3], m.Normals[v*3+1], m.Normals[v*3+2]}
		}
		if colorSet >= 0 {
			c := m.Colors[colorSet][v*4:]
			vx.Color = mgl32.Vec4{c[0], c[1], c[2], c[3]}
		}
		if uvSet >= 0 {
			vx.TexCoord = mgl32.Vec2{m.TexCoords[uvSet][v*3], m.TexCoords[uvSet][v*3+1]}
		}
		verts[v] = vx
	}
	return verts
}

// IndexCount is the total number of indices over all faces.
func (m *Mesh) IndexCount() int {
	n := 0
	for _, f := range m.Faces {
		n += len(f.Indices)
	}
	return n
}

// Indices flattens every face into one index buffer.
func (m *Mesh) Indices() []uint32 {
	out := make([]uint32, 0, m.IndexCount())
	for _, f := range m.Faces {
		out = append(out, f.Indices...)
	}
	return out
}

// Indices16 flattens every face into a 16-bit index buffer. Meshes with
// 65536 vertices or more return ErrWideIndices.
func (m *Mesh) Indices16() ([]uint16, error) {
	if m.IndexWidth == 4 || m.NumVertices >= 1<<16 {
		return nil, ErrWideIndices
	}
	out := make([]uint16, 0, m.IndexCount())
	for _, f := range m.Faces {
		for _, idx := range f.Indices {
			out = append(out, uint16(idx))
		}
	}
	return out, nil
}

// Bounds returns the axis-aligned box around the mesh positions. ok is false
// when the mesh has no positions.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3, ok bool) {
	if len(m.Positions) < 3 {
		return lo, hi, false
	}
	lo = mgl32.Vec3{m.Positions[0], m.Positions[1], m.Positions[2]}
	hi = lo
	for i := 3; i+2 < len(m.Positions); i += 3 {
		for k := range 3 {
			p := m.Positions[i+k]
			lo[k] = min(lo[k], p)
			hi[k] = max(hi[k], p)
		}
	}
	return lo, hi, true
}
