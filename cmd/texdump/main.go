package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"assbin-loader/internal/assbin"
	"assbin-loader/internal/texture"
)

// dumpTexture writes one embedded texture. Compressed payloads are written
// byte for byte with the format hint as extension; raw texels become PNG.
func dumpTexture(dst, stem string, i int, t *assbin.Texture) (string, error) {
	if t.Compressed() {
		name := filepath.Join(dst, fmt.Sprintf("%s_%d.%s", stem, i, extension(t.Hint())))
		if err := os.WriteFile(name, t.Data, 0644); err != nil {
			return "", fmt.Errorf("write %s: %w", name, err)
		}
		return name, nil
	}

	img, err := texture.Decode(t)
	if err != nil {
		return "", err
	}
	name := filepath.Join(dst, fmt.Sprintf("%s_%d.png", stem, i))
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	return name, nil
}

// extension turns a format hint into a file extension. Hints come from the
// file, so anything but ASCII letters and digits falls back to "bin".
func extension(hint string) string {
	if hint == "" {
		return "bin"
	}
	for _, r := range hint {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
			return "bin"
		}
	}
	return strings.ToLower(hint)
}

func main() {
	outDir := flag.String("o", ".", "Directory to write textures to")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "ERR %v\n", err)
		os.Exit(1)
	}

	errors := 0
	for _, arg := range flag.Args() {
		scene, err := assbin.Load(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR %v\n", err)
			errors++
			continue
		}
		stem := strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
		for i := range scene.Textures {
			t := &scene.Textures[i]
			name, err := dumpTexture(*outDir, stem, i, t)
			if err != nil {
				fmt.Fprintf(os.Stderr, "ERR %s texture %d: %v\n", arg, i, err)
				errors++
				continue
			}
			fmt.Printf("OK  %s *%d -> %s  (%dx%d, %d bytes)\n", arg, i, name, t.Width, t.Height, len(t.Data))
		}
		scene.Release()
	}
	if errors > 0 {
		fmt.Printf("\nDone with %d error(s).\n", errors)
		os.Exit(1)
	}
	fmt.Println("\nDone. All textures extracted.")
}
