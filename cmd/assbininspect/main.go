package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"assbin-loader/internal/assbin"
	"assbin-loader/internal/logging"
)

func main() {
	nodes := flag.Bool("nodes", false, "Decode and print the node hierarchy")
	props := flag.Bool("props", false, "Print every material property")
	debug := flag.Bool("debug", false, "Log decoder progress")
	flag.Parse()

	var opts []assbin.Option
	if *nodes {
		opts = append(opts, assbin.WithNodes())
	}
	if *debug {
		logging.SetLevel("debug")
		opts = append(opts, assbin.WithLogger(logging.Logger()))
	}

	failed := 0
	for _, arg := range flag.Args() {
		scene, err := assbin.Load(arg, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Parse error %v\n", err)
			failed++
			continue
		}
		printScene(arg, scene, *props)
		scene.Release()
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func printScene(path string, s *assbin.Scene, props bool) {
	h := s.Header
	fmt.Printf("\n=== %s ===\n", path)
	fmt.Printf("  version=%d.%d.%d flags=%#x source=%q params=%q\n",
		h.VerMajor, h.VerMinor, h.Revision, h.Flags, h.Filename, h.Params)
	c := s.Counts
	fmt.Printf("  meshes=%d materials=%d animations=%d textures=%d lights=%d cameras=%d\n",
		c.Meshes, c.Materials, c.Animations, c.Textures, c.Lights, c.Cameras)

	if s.Root != nil {
		fmt.Println("--- NODES ---")
		s.Root.Walk(func(n *assbin.Node, depth int) {
			t := n.Matrix().Col(3)
			fmt.Printf("  %s%q meshes=%v at=(%.2f,%.2f,%.2f)\n",
				strings.Repeat("  ", depth), n.Name, n.MeshIndices, t[0], t[1], t[2])
		})
	}

	fmt.Println("--- MESHES ---")
	for i := range s.Meshes {
		m := &s.Meshes[i]
		var sets []string
		for k := range assbin.MaxTexCoordSets {
			if m.TexCoords[k] != nil {
				sets = append(sets, fmt.Sprintf("uv%d/%d", k, m.UVComponents[k]))
			}
		}
		for k := range assbin.MaxColorSets {
			if m.Colors[k] != nil {
				sets = append(sets, fmt.Sprintf("color%d", k))
			}
		}
		bbox := "empty"
		if lo, hi, ok := m.Bounds(); ok {
			bbox = fmt.Sprintf("min=(%.2f,%.2f,%.2f) max=(%.2f,%.2f,%.2f)", lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
		}
		fmt.Printf("  Mesh[%d]: v=%d f=%d idx=%d/%dB bones=%d mat=%d %s [%s]\n",
			i, m.NumVertices, m.NumFaces, m.IndexCount(), m.IndexWidth, m.NumBones, m.MaterialIndex,
			bbox, strings.Join(sets, " "))
	}

	fmt.Println("--- MATERIALS ---")
	for i := range s.Materials {
		mat := &s.Materials[i]
		fmt.Printf("  Material[%d] %q opacity=%.2f shininess=%.2f diffuse=%v\n",
			i, mat.Name(), mat.Opacity(), mat.Shininess(), mat.Diffuse())
		for sem := assbin.TextureDiffuse; sem <= assbin.TextureReflection; sem++ {
			if names := mat.TextureNames(sem); len(names) > 0 {
				fmt.Printf("    %s: %s\n", sem, strings.Join(names, ", "))
			}
		}
		if props {
			for j := range mat.Properties {
				p := &mat.Properties[j]
				fmt.Printf("    %-18s sem=%d idx=%d %s=%v\n", p.Key, p.Semantic, p.Index, p.Kind(), p.Value())
			}
		}
	}

	fmt.Println("--- TEXTURES ---")
	for i := range s.Textures {
		t := &s.Textures[i]
		kind := "raw"
		if t.Compressed() {
			kind = "compressed"
		}
		fmt.Printf("  Texture[%d]: %dx%d hint=%q %s %d bytes\n",
			i, t.Width, t.Height, t.Hint(), kind, len(t.Data))
	}
}
