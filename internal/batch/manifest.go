package batch

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"

	"assbin-loader/internal/assbin"
)

// SceneSummary describes one exported dump in the manifest.
type SceneSummary struct {
	File      string          `json:"file"`
	Version   string          `json:"version"`
	Meshes    []MeshEntry     `json:"meshes"`
	Materials []MaterialEntry `json:"materials"`
	Textures  []TextureEntry  `json:"textures"`
	Nodes     int             `json:"nodes,omitempty"`
	Preview   string          `json:"preview,omitempty"`
}

// MeshEntry summarizes one mesh.
type MeshEntry struct {
	Vertices   int  `json:"vertices"`
	Faces      int  `json:"faces"`
	Indices    int  `json:"indices"`
	IndexWidth int  `json:"index_width"`
	Material   int  `json:"material"`
	Normals    bool `json:"normals"`
	UVSets     int  `json:"uv_sets"`
	ColorSets  int  `json:"color_sets"`
}

// MaterialEntry summarizes one material through its accessors.
type MaterialEntry struct {
	Name      string    `json:"name"`
	Opacity   float32   `json:"opacity"`
	Shininess float32   `json:"shininess"`
	Diffuse   []string  `json:"diffuse_textures,omitempty"`
	Normals   []string  `json:"normal_textures,omitempty"`
	Color     []float32 `json:"diffuse_color,omitempty"`
	Missing   []string  `json:"missing_textures,omitempty"`
}

// TextureEntry summarizes one embedded texture.
type TextureEntry struct {
	Index  int    `json:"index"`
	Width  int32  `json:"width"`
	Height int32  `json:"height"`
	Hint   string `json:"hint"`
	Bytes  int    `json:"bytes"`
	Image  string `json:"image,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Manifest is the manifest.json written after a run.
type Manifest struct {
	RunID     string         `json:"run_id"`
	Generated time.Time      `json:"generated"`
	Scenes    []SceneSummary `json:"scenes"`
	Failed    []FailedEntry  `json:"failed,omitempty"`
}

// FailedEntry records a dump that could not be exported.
type FailedEntry struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Summarize builds the manifest entry for a loaded scene.
func Summarize(s *assbin.Scene) SceneSummary {
	sum := SceneSummary{
		Version: formatVersion(s.Header),
	}
	for i := range s.Meshes {
		m := &s.Meshes[i]
		e := MeshEntry{
			Vertices:   m.NumVertices,
			Faces:      m.NumFaces,
			Indices:    m.IndexCount(),
			IndexWidth: m.IndexWidth,
			Material:   m.MaterialIndex,
			Normals:    m.Normals != nil,
		}
		for k := range assbin.MaxTexCoordSets {
			if m.TexCoords[k] != nil {
				e.UVSets++
			}
		}
		for k := range assbin.MaxColorSets {
			if m.Colors[k] != nil {
				e.ColorSets++
			}
		}
		sum.Meshes = append(sum.Meshes, e)
	}
	for i := range s.Materials {
		mat := &s.Materials[i]
		sum.Materials = append(sum.Materials, MaterialEntry{
			Name:      mat.Name(),
			Opacity:   finiteOr(mat.Opacity(), 1),
			Shininess: finiteOr(mat.Shininess(), 0),
			Diffuse:   mat.TextureNames(assbin.TextureDiffuse),
			Normals:   mat.TextureNames(assbin.TextureNormals),
			Color:     finiteColor(mat.Diffuse()),
		})
	}
	for i := range s.Textures {
		t := &s.Textures[i]
		sum.Textures = append(sum.Textures, TextureEntry{
			Index:  i,
			Width:  t.Width,
			Height: t.Height,
			Hint:   t.Hint(),
			Bytes:  len(t.Data),
		})
	}
	if s.Root != nil {
		s.Root.Walk(func(*assbin.Node, int) { sum.Nodes++ })
	}
	return sum
}

// JSON has no NaN or Inf; such values come only from corrupt payloads.
func finiteOr(v, def float32) float32 {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return v
}

func finiteColor(c []float32) []float32 {
	for _, v := range c {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
	}
	return c
}

func formatVersion(h assbin.Header) string {
	return fmt.Sprintf("%d.%d.%d", h.VerMajor, h.VerMinor, h.Revision)
}

// NewManifest collects results under a fresh run ID.
func NewManifest(results []Result) Manifest {
	m := Manifest{
		RunID:     uuid.NewString(),
		Generated: time.Now().UTC(),
	}
	for _, r := range results {
		if r.Success && r.Scene != nil {
			m.Scenes = append(m.Scenes, *r.Scene)
		} else {
			m.Failed = append(m.Failed, FailedEntry{File: r.Path, Error: r.Error})
		}
	}
	return m
}

// WriteManifest writes manifest.json to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
