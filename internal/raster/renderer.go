package raster

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"assbin-loader/internal/assbin"
	"assbin-loader/internal/texture"
)

// View is the fixed three-quarter camera used for previews.
var View = mgl32.HomogRotate3DX(mgl32.DegToRad(25)).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(-35)))

const margin = 8

// instance is one placement of a mesh in the scene.
type instance struct {
	mesh  *assbin.Mesh
	world mgl32.Mat4
}

// instances lists every mesh placement. With a decoded hierarchy each node's
// meshes are placed by the accumulated node transforms; without one every
// mesh is drawn once at the origin.
func instances(s *assbin.Scene) []instance {
	var out []instance
	if s.Root == nil {
		for i := range s.Meshes {
			out = append(out, instance{mesh: &s.Meshes[i], world: mgl32.Ident4()})
		}
		return out
	}
	var visit func(n *assbin.Node, parent mgl32.Mat4)
	visit = func(n *assbin.Node, parent mgl32.Mat4) {
		world := parent.Mul4(n.Matrix())
		for _, mi := range n.MeshIndices {
			if int(mi) < len(s.Meshes) {
				out = append(out, instance{mesh: &s.Meshes[mi], world: world})
			}
		}
		for _, ch := range n.Children {
			visit(ch, world)
		}
	}
	visit(s.Root, mgl32.Ident4())
	return out
}

// RenderScene draws every mesh of s into a size x size image, fitted to the
// frame. Diffuse textures are looked up through res, which may be nil.
func RenderScene(s *assbin.Scene, res texture.Resolver, size int) *image.NRGBA {
	fb := NewFrameBuffer(size, size)
	insts := instances(s)

	// Transform to view space and fit the bounding box
	viewVerts := make([][]assbin.Vertex, len(insts))
	lo := mgl32.Vec3{float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1))}
	hi := lo.Mul(-1)
	for i, in := range insts {
		mv := View.Mul4(in.world)
		verts := in.mesh.Vertices()
		for j := range verts {
			p := mgl32.TransformCoordinate(verts[j].Position, mv)
			verts[j].Position = p
			for k := range 3 {
				lo[k] = min(lo[k], p[k])
				hi[k] = max(hi[k], p[k])
			}
		}
		viewVerts[i] = verts
	}
	if lo[0] > hi[0] {
		return fb.Image()
	}

	center := lo.Add(hi).Mul(0.5)
	span := max(hi[0]-lo[0], hi[1]-lo[1], 0.001)
	scale := float32(size-2*margin) / span
	half := float32(size) / 2

	lc := DefaultLightConfig()

	for i, in := range insts {
		m := in.mesh
		verts := viewVerts[i]
		surf := surface(s, m, res)

		var tri [3]Vertex
		for _, f := range m.Faces {
			// Points and lines are not drawn; polygons are fanned.
			if len(f.Indices) < 3 {
				continue
			}
			for k := 1; k+1 < len(f.Indices); k++ {
				idx := [3]uint32{f.Indices[0], f.Indices[k], f.Indices[k+1]}
				if int(idx[0]) >= len(verts) || int(idx[1]) >= len(verts) || int(idx[2]) >= len(verts) {
					continue
				}
				a, b, c := verts[idx[0]].Position, verts[idx[1]].Position, verts[idx[2]].Position
				n := b.Sub(a).Cross(c.Sub(a))
				if n.Len() < 1e-12 {
					continue
				}
				for t, vi := range idx {
					v := verts[vi]
					p := v.Position.Sub(center)
					tri[t] = Vertex{
						Pos:   mgl32.Vec3{half + p[0]*scale, half - p[1]*scale, p[2]},
						UV:    v.TexCoord,
						Color: v.Color,
					}
				}
				RasterizeTriangle(fb, tri, n.Normalize(), &surf, &lc)
			}
		}
	}

	return fb.Image()
}

// surface picks the tint and diffuse texture for a mesh from its material.
func surface(s *assbin.Scene, m *assbin.Mesh, res texture.Resolver) Surface {
	surf := Surface{Tint: mgl32.Vec4{0.63, 0.63, 0.67, 1}}
	if m.MaterialIndex < 0 || m.MaterialIndex >= len(s.Materials) {
		return surf
	}
	mat := &s.Materials[m.MaterialIndex]
	if d := mat.Diffuse(); d != nil {
		surf.Tint = mgl32.Vec4{d[0], d[1], d[2], 1}
	}
	surf.Tint[3] = mat.Opacity()

	if res == nil || !hasUVs(m) {
		return surf
	}
	if name, ok := mat.TextureName(assbin.TextureDiffuse, 0); ok {
		if tex := res.Resolve(name); tex != nil {
			surf.Tex = tex
			// The texture carries the color; keep only opacity from the tint.
			surf.Tint = mgl32.Vec4{1, 1, 1, surf.Tint[3]}
		}
	}
	return surf
}

func hasUVs(m *assbin.Mesh) bool {
	for i := range assbin.MaxTexCoordSets {
		if m.Components&assbin.HasTexCoords(i) != 0 && m.TexCoords[i] != nil {
			return true
		}
	}
	return false
}
