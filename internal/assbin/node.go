package assbin

import "github.com/go-gl/mathgl/mgl32"

const maxNameLen = 128

// Node is one entry of the scene hierarchy.
type Node struct {
	Name        string
	Transform   [16]float32 // row-major, as stored
	MeshIndices []uint32
	Children    []*Node
}

// Matrix returns the node transform as a column-major mgl32 matrix.
func (n *Node) Matrix() mgl32.Mat4 {
	var m mgl32.Mat4
	copy(m[:], n.Transform[:])
	return m.Transpose()
}

// Walk calls fn for n and every descendant, depth first.
func (n *Node) Walk(fn func(*Node, int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	fn(n, depth)
	for _, ch := range n.Children {
		ch.walk(fn, depth+1)
	}
}

func (n *Node) release(a Allocator) {
	if n == nil {
		return
	}
	for _, ch := range n.Children {
		ch.release(a)
	}
	if n.MeshIndices != nil {
		a.FreeUint32s(n.MeshIndices)
		n.MeshIndices = nil
	}
	n.Children = nil
}

// readNode decodes a node chunk and its children into n. The node is linked
// into its parent before it is filled so a failed decode can still be released.
func (c *cursor) readNode(n *Node, a Allocator) bool {
	h, ok := c.readChunk(ChunkNode)
	if !ok {
		return false
	}

	n.Name = c.readString(maxNameLen)
	for i := range n.Transform {
		n.Transform[i] = c.readF32()
	}
	numChildren := c.readI32()
	numMeshes := c.readI32()

	if !c.reserve(int64(numMeshes), 4, "node mesh indices") {
		return false
	}
	n.MeshIndices = a.Uint32s(int(numMeshes))
	for i := range n.MeshIndices {
		n.MeshIndices[i] = c.readU32()
	}

	if !c.reserve(int64(numChildren), chunkHeaderSize, "node children") {
		return false
	}
	n.Children = make([]*Node, numChildren)
	for i := range n.Children {
		n.Children[i] = &Node{}
		if !c.readNode(n.Children[i], a) {
			return false
		}
	}

	// Exported (as opposed to dumped) files append metadata after the children.
	c.seekTo(h.end())
	return c.err == nil
}
