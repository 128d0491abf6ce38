package assbin

import (
	"encoding/binary"
	"math"
)

// TextureSemantic is the usage role of a texture slot on a material.
type TextureSemantic int32

const (
	TextureNone TextureSemantic = iota
	TextureDiffuse
	TextureSpecular
	TextureAmbient
	TextureEmissive
	TextureHeight
	TextureNormals
	TextureShininess
	TextureOpacity
	TextureDisplacement
	TextureLightmap
	TextureReflection
)

var semanticNames = [...]string{
	"none", "diffuse", "specular", "ambient", "emissive", "height",
	"normals", "shininess", "opacity", "displacement", "lightmap", "reflection",
}

func (s TextureSemantic) String() string {
	if s >= 0 && int(s) < len(semanticNames) {
		return semanticNames[s]
	}
	return "unknown"
}

// Material keys with a known payload layout.
const (
	KeyName             = "?mat.name"
	KeyTwoSided         = "$mat.twosided"
	KeyShadingModel     = "$mat.shadingm"
	KeyWireframe        = "$mat.wireframe"
	KeyBlendFunc        = "$mat.blend"
	KeyOpacity          = "$mat.opacity"
	KeyBumpScaling      = "$mat.bumpscaling"
	KeyShininess        = "$mat.shininess"
	KeyShininessPercent = "$mat.shinpercent"
	KeyReflectivity     = "$mat.reflectivity"
	KeyRefraction       = "$mat.refracti"
	KeyColorDiffuse     = "$clr.diffuse"
	KeyColorAmbient     = "$clr.ambient"
	KeyColorSpecular    = "$clr.specular"
	KeyColorEmissive    = "$clr.emissive"
	KeyColorTransparent = "$clr.transparent"
	KeyColorReflective  = "$clr.reflective"
	KeyTextureFile      = "$tex.file"
	KeyTextureUVSource  = "$tex.uvwsrc"
	KeyTextureOp        = "$tex.op"
	KeyTextureMapping   = "$tex.mapping"
	KeyTextureBlend     = "$tex.blend"
	KeyTextureMapModeU  = "$tex.mapmodeu"
	KeyTextureMapModeV  = "$tex.mapmodev"
)

// PropertyKind says how a property payload is laid out.
type PropertyKind int

const (
	KindOpaque PropertyKind = iota
	KindFloat
	KindColor
	KindString
	KindInt
)

func (k PropertyKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindColor:
		return "color"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	default:
		return "opaque"
	}
}

var propertyKinds = map[string]PropertyKind{
	KeyName:             KindString,
	KeyTwoSided:         KindInt,
	KeyShadingModel:     KindInt,
	KeyWireframe:        KindInt,
	KeyBlendFunc:        KindInt,
	KeyOpacity:          KindFloat,
	KeyBumpScaling:      KindFloat,
	KeyShininess:        KindFloat,
	KeyShininessPercent: KindFloat,
	KeyReflectivity:     KindFloat,
	KeyRefraction:       KindFloat,
	KeyColorDiffuse:     KindColor,
	KeyColorAmbient:     KindColor,
	KeyColorSpecular:    KindColor,
	KeyColorEmissive:    KindColor,
	KeyColorTransparent: KindColor,
	KeyColorReflective:  KindColor,
	KeyTextureFile:      KindString,
	KeyTextureUVSource:  KindInt,
	KeyTextureOp:        KindInt,
	KeyTextureMapping:   KindInt,
	KeyTextureBlend:     KindFloat,
	KeyTextureMapModeU:  KindInt,
	KeyTextureMapModeV:  KindInt,
}

// KindOf returns the payload layout registered for key, or KindOpaque.
func KindOf(key string) PropertyKind {
	return propertyKinds[key]
}

// Kind returns the payload layout implied by the property key.
func (p *Property) Kind() PropertyKind { return KindOf(p.Key) }

// Float reads the payload as a single float.
func (p *Property) Float() (float32, bool) {
	if len(p.Data) < 4 {
		return 0, false
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(p.Data)), true
}

// Int reads the payload as a single 32-bit integer.
func (p *Property) Int() (int32, bool) {
	if len(p.Data) < 4 {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(p.Data)), true
}

// Floats reads the payload as a float array. Colors carry three or four.
func (p *Property) Floats() ([]float32, bool) {
	if len(p.Data) < 4 {
		return nil, false
	}
	out := make([]float32, len(p.Data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p.Data[i*4:]))
	}
	return out, true
}

// Text reads the payload as a string: a 4-byte length then the bytes.
func (p *Property) Text() (string, bool) {
	if len(p.Data) < 4 {
		return "", false
	}
	s := p.Data[4:]
	if n := binary.LittleEndian.Uint32(p.Data); uint64(n) < uint64(len(s)) {
		s = s[:n]
	}
	return cstring(s), true
}

// Value decodes the payload by its key's rule. Unknown keys yield the raw
// bytes; a payload too short for its rule yields nil.
func (p *Property) Value() any {
	var (
		v  any
		ok bool
	)
	switch p.Kind() {
	case KindFloat:
		v, ok = p.Float()
	case KindInt:
		v, ok = p.Int()
	case KindString:
		v, ok = p.Text()
	case KindColor:
		var c []float32
		c, ok = p.Floats()
		ok = ok && len(c) >= 3
		v = c
	default:
		return p.Data
	}
	if !ok {
		return nil
	}
	return v
}

// Property returns the first property named key, or nil.
func (m *Material) Property(key string) *Property {
	for i := range m.Properties {
		if m.Properties[i].Key == key {
			return &m.Properties[i]
		}
	}
	return nil
}

func (m *Material) float(key string, def float32) float32 {
	if p := m.Property(key); p != nil {
		if f, ok := p.Float(); ok {
			return f
		}
	}
	return def
}

func (m *Material) color(key string) []float32 {
	p := m.Property(key)
	if p == nil {
		return nil
	}
	c, ok := p.Floats()
	if !ok || len(c) < 3 {
		return nil
	}
	return c
}

// Name returns the material name, or "" when the material has none.
func (m *Material) Name() string {
	if p := m.Property(KeyName); p != nil {
		s, _ := p.Text()
		return s
	}
	return ""
}

// Opacity defaults to 1.
func (m *Material) Opacity() float32 { return m.float(KeyOpacity, 1) }

// Shininess defaults to 0.
func (m *Material) Shininess() float32 { return m.float(KeyShininess, 0) }

// ShininessPercent defaults to 1.
func (m *Material) ShininessPercent() float32 { return m.float(KeyShininessPercent, 1) }

// Diffuse returns the diffuse color, or nil if the material has none.
func (m *Material) Diffuse() []float32 { return m.color(KeyColorDiffuse) }

// Emissive returns the emissive color, or nil.
func (m *Material) Emissive() []float32 { return m.color(KeyColorEmissive) }

// Specular returns the specular color, or nil.
func (m *Material) Specular() []float32 { return m.color(KeyColorSpecular) }

// Ambient returns the ambient color, or nil.
func (m *Material) Ambient() []float32 { return m.color(KeyColorAmbient) }

// TextureCount returns how many texture files the material lists for sem.
func (m *Material) TextureCount(sem TextureSemantic) int {
	n := 0
	for i := range m.Properties {
		p := &m.Properties[i]
		if p.Key == KeyTextureFile && p.Semantic == int32(sem) {
			n++
		}
	}
	return n
}

// TextureName returns the n-th texture file listed for sem.
func (m *Material) TextureName(sem TextureSemantic, n int) (string, bool) {
	for i := range m.Properties {
		p := &m.Properties[i]
		if p.Key != KeyTextureFile || p.Semantic != int32(sem) {
			continue
		}
		if n == 0 {
			return p.Text()
		}
		n--
	}
	return "", false
}

// TextureNames lists every texture file for sem in stream order.
func (m *Material) TextureNames(sem TextureSemantic) []string {
	var names []string
	for i := range m.Properties {
		p := &m.Properties[i]
		if p.Key != KeyTextureFile || p.Semantic != int32(sem) {
			continue
		}
		if s, ok := p.Text(); ok {
			names = append(names, s)
		}
	}
	return names
}
