package assbin

// Property is one key/value record of a material. Data is opaque: how it is
// read depends on Key, not on Type.
type Property struct {
	Key      string
	Semantic int32
	Index    int32
	Length   int32
	Type     int32
	Data     []byte
}

// Material is an ordered property bag. Order matters when a key repeats, as
// with several texture files of the same semantic.
type Material struct {
	Properties []Property
}

func (c *cursor) readMaterial(mat *Material, a Allocator) bool {
	if _, ok := c.readChunk(ChunkMaterial); !ok {
		return false
	}
	count := c.readI32()
	if !c.reserve(int64(count), chunkHeaderSize, "material properties") {
		return false
	}
	mat.Properties = make([]Property, count)
	for i := range mat.Properties {
		if !c.readProperty(&mat.Properties[i], a) {
			return false
		}
	}
	return true
}

func (c *cursor) readProperty(p *Property, a Allocator) bool {
	if _, ok := c.readChunk(ChunkMaterialProperty); !ok {
		return false
	}
	p.Key = c.readString(maxNameLen)
	p.Semantic = c.readI32()
	p.Index = c.readI32()
	p.Length = c.readI32()
	p.Type = c.readI32()
	if !c.reserve(int64(p.Length), 1, "property "+p.Key) {
		return false
	}
	p.Data = a.Bytes(int(p.Length))
	c.readBytes(p.Data)
	return c.err == nil
}

func (mat *Material) release(a Allocator) {
	for i := range mat.Properties {
		if mat.Properties[i].Data != nil {
			a.FreeBytes(mat.Properties[i].Data)
			mat.Properties[i].Data = nil
		}
	}
	mat.Properties = nil
}
