package texture

import (
	"os"
	"path/filepath"
	"strings"
)

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".tga": true,
	".bmp": true, ".gif": true, ".webp": true,
}

// Index maps lowercase texture file names to filesystem paths.
type Index struct {
	entries map[string]string // base name lower -> full path
}

// BuildIndex scans dir and its subdirectories for image files.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}

	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !imageExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		name := strings.ToLower(filepath.Base(path))
		// The first match in walk order wins.
		if _, exists := idx.entries[name]; !exists {
			idx.entries[name] = path
		}
		return nil
	})

	return idx
}

// ResolvePath returns the filesystem path for a texture reference as written
// in a material, or ("", false).
func (idx *Index) ResolvePath(texName string) (string, bool) {
	// Materials often carry the exporter's absolute path ("C:\\art\\foo.png")
	texName = strings.ReplaceAll(texName, "\\", "/")
	path, ok := idx.entries[strings.ToLower(filepath.Base(texName))]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
