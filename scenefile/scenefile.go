// Package scenefile reads scene documents from disk and watches them for
// changes.
package scenefile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/phanxgames/arscene"
)

// debounce is how long Watch waits after the last write before reloading.
// Editors often save in several steps.
const debounce = 150 * time.Millisecond

// Read reads and parses the scene document at path.
func Read(path string) ([]arscene.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return Parse(path, data)
}

// Parse parses data as YAML when path ends in .yaml or .yml, and as JSON
// otherwise.
func Parse(path string, data []byte) ([]arscene.Descriptor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return arscene.ParseSceneYAML(data)
	default:
		return arscene.ParseScene(data)
	}
}

// Watch calls onChange with the re-read document each time the file at
// path is written, created or renamed into place, until ctx is done. The
// directory is watched rather than the file so that atomic saves are seen.
// onChange runs on the watching goroutine; Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func([]arscene.Descriptor, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onChange(nil, fmt.Errorf("watch %s: %w", path, err))
		case <-timer.C:
			onChange(Read(abs))
		}
	}
}
