// Package assbin loads Assimp binary scene dumps ("ASSIMP.binary") into
// meshes, materials and embedded textures.
//
// Supported: raw (uncompressed) dumps. Node hierarchy is skipped unless
// WithNodes is given; animations, bones, lights and cameras are skipped.
package assbin

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Counts are the scene-level counts as declared in the stream.
type Counts struct {
	Meshes     int
	Materials  int
	Animations int
	Textures   int
	Lights     int
	Cameras    int
}

// Scene is the result of one load. It owns everything reachable from it; call
// Release to hand the buffers back to the allocator.
type Scene struct {
	Header Header
	Flags  uint32
	Counts Counts

	// Root is only decoded when the load was made with WithNodes.
	Root      *Node
	Meshes    []Mesh
	Materials []Material
	Textures  []Texture

	alloc Allocator
}

type options struct {
	alloc       Allocator
	decodeNodes bool
	logger      *log.Logger
}

// Option configures a load.
type Option func(*options)

// WithAllocator routes every owned buffer through a.
func WithAllocator(a Allocator) Option {
	return func(o *options) { o.alloc = a }
}

// WithNodes decodes the node hierarchy into Scene.Root instead of skipping it.
func WithNodes() Option {
	return func(o *options) { o.decodeNodes = true }
}

// WithLogger reports decode progress at debug level.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

func (o *options) debug(msg string, kv ...any) {
	if o.logger != nil {
		o.logger.Debug(msg, kv...)
	}
}

// Load reads and decodes the dump at path.
func Load(path string, opts ...Option) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assbin: read %s: %w", path, err)
	}
	s, err := Decode(bytes.NewReader(raw), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Decode reads one dump from r. On error nothing is returned and every buffer
// allocated so far has been released.
func Decode(r io.ReadSeeker, opts ...Option) (*Scene, error) {
	o := options{alloc: HeapAllocator{}}
	for _, opt := range opts {
		opt(&o)
	}

	c, err := newCursor(r)
	if err != nil {
		return nil, err
	}
	hdr, err := c.readHeader()
	if err != nil {
		return nil, err
	}
	o.debug("header", "version", fmt.Sprintf("%d.%d.%d", hdr.VerMajor, hdr.VerMinor, hdr.Revision), "source", hdr.Filename)

	s := &Scene{Header: hdr, alloc: o.alloc}
	if !c.readScene(s, &o) {
		s.Release()
		return nil, c.err
	}
	return s, nil
}

func (c *cursor) readScene(s *Scene, o *options) bool {
	if _, ok := c.readChunk(ChunkScene); !ok {
		return false
	}
	s.Flags = c.readU32()
	s.Counts = Counts{
		Meshes:     int(c.readI32()),
		Materials:  int(c.readI32()),
		Animations: int(c.readI32()),
		Textures:   int(c.readI32()),
		Lights:     int(c.readI32()),
		Cameras:    int(c.readI32()),
	}
	o.debug("scene", "meshes", s.Counts.Meshes, "materials", s.Counts.Materials,
		"animations", s.Counts.Animations, "textures", s.Counts.Textures)

	if o.decodeNodes {
		s.Root = &Node{}
		if !c.readNode(s.Root, s.alloc) {
			return false
		}
	} else {
		c.skipChunk()
	}

	if !c.reserve(int64(s.Counts.Meshes), chunkHeaderSize, "meshes") {
		return false
	}
	s.Meshes = make([]Mesh, s.Counts.Meshes)
	for i := range s.Meshes {
		if !c.readMesh(&s.Meshes[i], s.alloc) {
			return false
		}
		o.debug("mesh", "index", i, "vertices", s.Meshes[i].NumVertices, "faces", s.Meshes[i].NumFaces)
	}

	if !c.reserve(int64(s.Counts.Materials), chunkHeaderSize, "materials") {
		return false
	}
	s.Materials = make([]Material, s.Counts.Materials)
	for i := range s.Materials {
		if !c.readMaterial(&s.Materials[i], s.alloc) {
			return false
		}
	}

	if !c.reserve(int64(s.Counts.Animations), chunkHeaderSize, "animations") {
		return false
	}
	for range s.Counts.Animations {
		c.skipChunk()
	}

	if !c.reserve(int64(s.Counts.Textures), chunkHeaderSize, "textures") {
		return false
	}
	s.Textures = make([]Texture, s.Counts.Textures)
	for i := range s.Textures {
		if !c.readTexture(&s.Textures[i], s.alloc) {
			return false
		}
		o.debug("texture", "index", i, "hint", s.Textures[i].Hint(), "bytes", len(s.Textures[i].Data))
	}

	// Lights and cameras follow but are not decoded.
	return c.err == nil
}

// Release returns every owned buffer to the allocator. It is safe on a scene
// that was only partly filled and on one already released.
func (s *Scene) Release() {
	if s == nil {
		return
	}
	a := s.alloc
	if a == nil {
		a = HeapAllocator{}
	}
	for i := range s.Meshes {
		s.Meshes[i].release(a)
	}
	for i := range s.Materials {
		s.Materials[i].release(a)
	}
	for i := range s.Textures {
		s.Textures[i].release(a)
	}
	s.Root.release(a)

	s.Meshes = nil
	s.Materials = nil
	s.Textures = nil
	s.Root = nil
}
