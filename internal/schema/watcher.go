package schema

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the schema set whenever a *.json file in the directory
// changes. Blocks until ctx is done; meant to run in its own goroutine.
func (v *Validator) Watch(ctx context.Context, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(v.dir); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := v.Reload(); err != nil {
				log.Error("schema reload failed", "file", event.Name, "error", err)
				continue
			}
			log.Info("schemas reloaded", "file", event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("schema watcher error", "error", err)
		}
	}
}
