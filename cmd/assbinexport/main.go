package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"assbin-loader/internal/batch"
	"assbin-loader/internal/config"
	"assbin-loader/internal/logging"
	"assbin-loader/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json or config.toml")
	inputDir := flag.String("input", "", "Directory to scan for .assbin dumps (default: .)")
	outputDir := flag.String("output", "", "Output directory (default: <input>/assbin-export)")
	maxSize := flag.Int("max-size", 0, "Largest exported texture edge in pixels (default: 1024)")
	preview := flag.Int("preview", 0, "Preview render size in pixels, negative to disable (default: 256)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (default: info)")
	nodes := flag.Bool("nodes", false, "Decode the node hierarchy")
	watch := flag.Bool("watch", false, "Keep running and re-export dumps as they change")
	testN := flag.Int("test", 0, "Export only the first N dumps")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:       *inputDir,
		OutputDir:      *outputDir,
		MaxTextureSize: *maxSize,
		PreviewSize:    *preview,
		Workers:        *workers,
		LogLevel:       *logLevel,
		DecodeNodes:    *nodes,
		Watch:          *watch,
	})

	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	files, err := batch.Find(cfg.InputDir)
	if err != nil {
		logging.Fatal("%v", err)
	}
	if *testN > 0 && *testN < len(files) {
		files = files[:*testN]
	}

	texIndex := texture.BuildIndex(cfg.InputDir)
	logging.Info("Textures: %d indexed", texIndex.Len())

	batchCfg := batch.Config{
		InputDir:       cfg.InputDir,
		OutputDir:      cfg.OutputDir,
		MaxTextureSize: cfg.MaxTextureSize,
		PreviewSize:    cfg.PreviewSize,
		Workers:        cfg.Workers,
		DecodeNodes:    cfg.DecodeNodes,
		Index:          texIndex,
	}
	if logging.Logger().GetLevel() <= log.DebugLevel {
		batchCfg.Logger = logging.Logger()
	}

	fmt.Printf("Assimp binary dumps -> WebP\n")
	fmt.Printf("Dumps: %d, Workers: %d\n", len(files), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(batchCfg, files)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	failed := report(results)
	writeManifest(cfg.OutputDir, results)

	if cfg.Watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		byPath := make(map[string]int, len(results))
		for i, r := range results {
			byPath[r.Path] = i
		}
		err := batch.Watch(ctx, batchCfg, func(r batch.Result) {
			if i, ok := byPath[r.Path]; ok {
				results[i] = r
			} else {
				byPath[r.Path] = len(results)
				results = append(results, r)
			}
			if r.Success {
				logging.Info("Re-exported %s", r.Path)
			} else {
				logging.Error("%s: %s", r.Path, r.Error)
			}
			writeManifest(cfg.OutputDir, results)
		})
		if err != nil {
			logging.Fatal("watch: %v", err)
		}
		return
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func report(results []batch.Result) int {
	success := 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			errors = append(errors, r)
		}
	}

	fmt.Printf("Exported: %d/%d\n", success, len(results))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(errors))
		limit := min(20, len(errors))
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Path, e.Error)
		}
	}
	return len(errors)
}

func writeManifest(outputDir string, results []batch.Result) {
	manifestPath := filepath.Join(outputDir, "manifest.json")
	os.MkdirAll(outputDir, 0755)
	m := batch.NewManifest(results)
	if err := batch.WriteManifest(manifestPath, m); err != nil {
		logging.Warn("manifest write failed: %v", err)
		return
	}
	logging.Info("Manifest: %s (run %s)", manifestPath, m.RunID)
}
