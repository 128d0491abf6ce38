package batch

import (
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"assbin-loader/internal/assbin"
	"assbin-loader/internal/logging"
	"assbin-loader/internal/postprocess"
	"assbin-loader/internal/raster"
	"assbin-loader/internal/texture"

	"github.com/HugoSmits86/nativewebp"
	"github.com/charmbracelet/log"
)

// Ext is the file extension of scene dumps.
const Ext = ".assbin"

// Config holds all shared settings for a batch run.
type Config struct {
	InputDir       string
	OutputDir      string
	MaxTextureSize int
	PreviewSize    int // 0 disables the preview render
	Workers        int
	DecodeNodes    bool

	// Index resolves external texture references. May be nil.
	Index *texture.Index
	// Logger receives decoder debug output. May be nil.
	Logger *log.Logger
}

// Result holds the outcome of processing one dump.
type Result struct {
	Path    string
	Success bool
	Error   string
	Scene   *SceneSummary
}

// Find returns every dump under dir, sorted.
func Find(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run processes all files using a worker pool.
func Run(cfg Config, files []string) []Result {
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64
	workers := max(1, cfg.Workers)

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					logging.Info("[%d/%d] %.1f files/sec", p, total, float64(p)/elapsed)
				}
			}
		}
	}()

	// Worker pool
	fileChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = ProcessFile(cfg, files[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	close(done)

	return results
}

// ProcessFile loads one dump, exports its embedded textures and a preview
// render as WebP and summarizes it for the manifest.
func ProcessFile(cfg Config, path string) Result {
	opts := []assbin.Option{}
	if cfg.DecodeNodes {
		opts = append(opts, assbin.WithNodes())
	}
	if cfg.Logger != nil {
		opts = append(opts, assbin.WithLogger(cfg.Logger))
	}

	scene, err := assbin.Load(path, opts...)
	if err != nil {
		return Result{Path: path, Error: err.Error()}
	}
	defer scene.Release()

	sum := Summarize(scene)
	sum.File = relPath(cfg.InputDir, path)
	outDir := filepath.Join(cfg.OutputDir, strings.TrimSuffix(sum.File, filepath.Ext(sum.File)))

	cache := texture.NewCache(scene, cfg.Index)
	for i := range sum.Textures {
		te := &sum.Textures[i]
		img, err := cache.Lookup(fmt.Sprintf("*%d", i))
		if err != nil {
			te.Error = err.Error()
			continue
		}
		img = postprocess.Downsample(img, cfg.MaxTextureSize)
		out := filepath.Join(outDir, fmt.Sprintf("texture_%d.webp", i))
		if err := writeWebP(out, img); err != nil {
			return Result{Path: path, Error: err.Error()}
		}
		te.Image = filepath.ToSlash(relPath(cfg.OutputDir, out))
	}

	if cfg.PreviewSize > 0 {
		out := filepath.Join(outDir, "preview.webp")
		if err := writeWebP(out, raster.RenderScene(scene, cache, cfg.PreviewSize)); err != nil {
			return Result{Path: path, Error: err.Error()}
		}
		sum.Preview = filepath.ToSlash(relPath(cfg.OutputDir, out))
	}

	for i := range sum.Materials {
		me := &sum.Materials[i]
		for _, name := range me.Diffuse {
			if _, ok := texture.EmbeddedIndex(name); ok {
				continue
			}
			if cache.Resolve(name) == nil {
				me.Missing = append(me.Missing, name)
			}
		}
	}

	logging.Debug("%s: %d meshes, %d textures exported", sum.File, len(sum.Meshes), len(sum.Textures))
	return Result{Path: path, Success: true, Scene: &sum}
}

func writeWebP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("WebP encode: %v", err)
	}
	return nil
}

func relPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.Base(path)
	}
	return rel
}
