package batch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"assbin-loader/internal/logging"
)

// settle is how long a dump must stay unmodified before it is re-exported.
const settle = 300 * time.Millisecond

// Watch re-exports dumps under cfg.InputDir as they are created or rewritten
// and passes each result to onResult. It returns when ctx is done.
func Watch(ctx context.Context, cfg Config, onResult func(Result)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := watchRecursive(w, cfg.InputDir, cfg.OutputDir); err != nil {
		return err
	}
	logging.Info("Watching %s for %s files", cfg.InputDir, Ext)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settle / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if e.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(e.Name); err == nil && fi.IsDir() {
					if err := watchRecursive(w, e.Name, cfg.OutputDir); err != nil {
						logging.Warn("watch %s: %v", e.Name, err)
					}
					continue
				}
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 && strings.EqualFold(filepath.Ext(e.Name), Ext) {
				pending[e.Name] = time.Now()
			}
			if e.Op&fsnotify.Remove != 0 {
				delete(pending, e.Name)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Error("watch: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(pending, path)
				onResult(ProcessFile(cfg, path))
			}
		}
	}
}

// watchRecursive adds dir and its subdirectories, skipping the output tree.
func watchRecursive(w *fsnotify.Watcher, dir, skip string) error {
	skip = filepath.Clean(skip)
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if filepath.Clean(path) == skip {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
