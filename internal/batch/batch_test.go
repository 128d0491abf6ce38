package batch

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/image/webp"

	"assbin-loader/internal/assbin"
	"assbin-loader/internal/texture"
)

type dump struct{ bytes.Buffer }

func (d *dump) u16(v uint16) *dump  { binary.Write(&d.Buffer, binary.LittleEndian, v); return d }
func (d *dump) u32(v uint32) *dump  { binary.Write(&d.Buffer, binary.LittleEndian, v); return d }
func (d *dump) i32(v int32) *dump   { return d.u32(uint32(v)) }
func (d *dump) f32(v float32) *dump { return d.u32(math.Float32bits(v)) }

func (d *dump) str(v string) *dump {
	d.u32(uint32(len(v)))
	d.WriteString(v)
	return d
}

func (d *dump) chunk(tag uint32, fill func(*dump)) *dump {
	var body dump
	fill(&body)
	d.u32(tag).u32(uint32(body.Len()))
	d.Write(body.Bytes())
	return d
}

func texProp(name string) func(*dump) {
	return func(p *dump) {
		var data dump
		data.str(name)
		data.WriteByte(0)
		p.str(assbin.KeyTextureFile).i32(int32(assbin.TextureDiffuse)).i32(0).i32(int32(data.Len())).i32(3)
		p.Write(data.Bytes())
	}
}

// sceneDump builds a dump with one triangle, one material listing three
// diffuse textures and one 2x2 raw embedded texture.
func sceneDump() []byte {
	var d dump
	var magic [44]byte
	copy(magic[:], assbin.Magic)
	d.Write(magic[:])
	d.i32(5).i32(4).i32(1).i32(0)
	d.u16(0).u16(0)
	d.Write(make([]byte, 256+128+64))

	d.u32(assbin.ChunkScene).u32(0)
	d.u32(0).i32(1).i32(1).i32(0).i32(1).i32(0).i32(0)

	d.chunk(assbin.ChunkNode, func(n *dump) {
		n.str("root")
		for range 16 {
			n.f32(0)
		}
		n.i32(0).i32(0)
	})

	d.chunk(assbin.ChunkMesh, func(m *dump) {
		m.u32(4).i32(3).i32(1).i32(0).i32(0).u32(uint32(assbin.HasPositions))
		for i := range 18 {
			m.f32(float32(i))
		}
		m.u16(3).u16(0).u16(1).u16(2)
	})

	d.chunk(assbin.ChunkMaterial, func(m *dump) {
		m.i32(3)
		m.chunk(assbin.ChunkMaterialProperty, texProp("*0"))
		m.chunk(assbin.ChunkMaterialProperty, texProp(`C:\art\brick.png`))
		m.chunk(assbin.ChunkMaterialProperty, texProp("gone.png"))
	})

	d.chunk(assbin.ChunkTexture, func(t *dump) {
		t.i32(2).i32(2)
		t.Write(make([]byte, 4))
		for range 4 {
			t.Write([]byte{0x00, 0x00, 0xff, 0xff}) // BGRA red
		}
	})
	return d.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func brickPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testConfig(t *testing.T) Config {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	writeFile(t, filepath.Join(in, "scene.assbin"), sceneDump())
	writeFile(t, filepath.Join(in, "tex", "brick.png"), brickPNG(t))
	return Config{
		InputDir:       in,
		OutputDir:      filepath.Join(root, "out"),
		MaxTextureSize: 1024,
		PreviewSize:    32,
		Workers:        2,
		Index:          texture.BuildIndex(in),
	}
}

func TestFindFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.assbin", "a.ASSBIN", "notes.txt", "sub/c.assbin"} {
		writeFile(t, filepath.Join(dir, name), nil)
	}
	files, err := Find(dir)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	want := []string{"a.ASSBIN", "b.assbin", filepath.Join("sub", "c.assbin")}
	if len(files) != len(want) {
		t.Fatalf("Expected %d files, got %v", len(want), files)
	}
	for i, f := range files {
		if f != filepath.Join(dir, want[i]) {
			t.Errorf("files[%d] = %q, want %q", i, f, want[i])
		}
	}
}

func TestRunExportsTextures(t *testing.T) {
	cfg := testConfig(t)
	files, err := Find(cfg.InputDir)
	if err != nil {
		t.Fatal(err)
	}
	results := Run(cfg, files)
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	r := results[0]
	if !r.Success {
		t.Fatalf("Export failed: %s", r.Error)
	}

	sum := r.Scene
	if sum.File != "scene.assbin" || sum.Version != "5.4.1" {
		t.Errorf("Unexpected summary header %q %q", sum.File, sum.Version)
	}
	if len(sum.Meshes) != 1 || sum.Meshes[0].Vertices != 3 || sum.Meshes[0].Indices != 3 || !sum.Meshes[0].Normals {
		t.Errorf("Unexpected mesh summary %+v", sum.Meshes)
	}
	if len(sum.Materials) != 1 {
		t.Fatalf("Expected 1 material, got %d", len(sum.Materials))
	}
	if got := sum.Materials[0].Missing; len(got) != 1 || got[0] != "gone.png" {
		t.Errorf("Expected only gone.png missing, got %v", got)
	}

	if len(sum.Textures) != 1 || sum.Textures[0].Image != "scene/texture_0.webp" {
		t.Fatalf("Unexpected texture summary %+v", sum.Textures)
	}
	f, err := os.Open(filepath.Join(cfg.OutputDir, "scene", "texture_0.webp"))
	if err != nil {
		t.Fatalf("WebP not written: %v", err)
	}
	defer f.Close()
	img, err := webp.Decode(f)
	if err != nil {
		t.Fatalf("WebP decode failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("Expected 2x2 texture, got %v", b)
	}
	r8, g8, b8, _ := img.At(0, 0).RGBA()
	if r8>>8 != 0xff || g8 != 0 || b8 != 0 {
		t.Errorf("Expected red texel, got %v", img.At(0, 0))
	}
}

func TestRunRendersPreview(t *testing.T) {
	cfg := testConfig(t)
	r := ProcessFile(cfg, filepath.Join(cfg.InputDir, "scene.assbin"))
	if !r.Success {
		t.Fatalf("Export failed: %s", r.Error)
	}
	if r.Scene.Preview != "scene/preview.webp" {
		t.Fatalf("Unexpected preview path %q", r.Scene.Preview)
	}
	f, err := os.Open(filepath.Join(cfg.OutputDir, "scene", "preview.webp"))
	if err != nil {
		t.Fatalf("Preview not written: %v", err)
	}
	defer f.Close()
	cfgImg, err := webp.DecodeConfig(f)
	if err != nil {
		t.Fatalf("Preview decode failed: %v", err)
	}
	if cfgImg.Width != 32 || cfgImg.Height != 32 {
		t.Errorf("Expected 32x32 preview, got %dx%d", cfgImg.Width, cfgImg.Height)
	}

	cfg.PreviewSize = 0
	if r := ProcessFile(cfg, filepath.Join(cfg.InputDir, "scene.assbin")); r.Scene.Preview != "" {
		t.Errorf("Expected no preview when disabled, got %q", r.Scene.Preview)
	}
}

func TestRunReportsCorruptDump(t *testing.T) {
	cfg := testConfig(t)
	bad := filepath.Join(cfg.InputDir, "bad.assbin")
	writeFile(t, bad, []byte("not a dump"))

	results := Run(cfg, []string{bad})
	if results[0].Success || results[0].Error == "" {
		t.Fatalf("Expected failure, got %+v", results[0])
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "bad")); !os.IsNotExist(err) {
		t.Errorf("Expected no output for a failed dump")
	}
}

func TestManifest(t *testing.T) {
	cfg := testConfig(t)
	bad := filepath.Join(cfg.InputDir, "bad.assbin")
	writeFile(t, bad, []byte("not a dump"))
	files, _ := Find(cfg.InputDir)

	m := NewManifest(Run(cfg, files))
	if _, err := uuid.Parse(m.RunID); err != nil {
		t.Errorf("Run ID %q is not a UUID: %v", m.RunID, err)
	}
	if len(m.Scenes) != 1 || len(m.Failed) != 1 {
		t.Fatalf("Expected 1 scene and 1 failure, got %d and %d", len(m.Scenes), len(m.Failed))
	}

	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := WriteManifest(path, m); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back Manifest
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Manifest is not valid JSON: %v", err)
	}
	if back.RunID != m.RunID || back.Scenes[0].Textures[0].Image != "scene/texture_0.webp" {
		t.Errorf("Manifest round trip lost data: %+v", back)
	}
}

func TestManifestSurvivesNonFiniteMaterialValues(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	var color, opacity dump
	color.f32(1).f32(nan).f32(0).f32(1)
	opacity.f32(inf)
	scene := &assbin.Scene{Materials: []assbin.Material{{Properties: []assbin.Property{
		{Key: assbin.KeyColorDiffuse, Data: color.Bytes()},
		{Key: assbin.KeyOpacity, Data: opacity.Bytes()},
	}}}}

	sum := Summarize(scene)
	me := sum.Materials[0]
	if me.Color != nil {
		t.Errorf("Expected non-finite color to be dropped, got %v", me.Color)
	}
	if me.Opacity != 1 {
		t.Errorf("Expected default opacity, got %v", me.Opacity)
	}

	m := NewManifest([]Result{{Path: "x.assbin", Success: true, Scene: &sum}})
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := WriteManifest(path, m); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}
}
