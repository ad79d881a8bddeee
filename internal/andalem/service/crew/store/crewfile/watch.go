package crewfile

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/pkg"
	"github.com/kiosk404/andalem/pkg/logger"
)

// Watch calls fn with the path of every crew file written or created under
// target, which is either a crew file or a directory of crew files. It blocks
// until ctx is done or the watcher fails.
func Watch(ctx context.Context, target string, fn func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Editors replace files on save, so the parent directory is watched.
	dir, only := target, ""
	if strings.HasSuffix(target, Extension) {
		dir, only = filepath.Dir(target), filepath.Clean(target)
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}
	logger.DebugX(pkg.ModuleName, "[CrewFile] watching %s", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(ev.Name)
			if !strings.HasSuffix(name, Extension) || (only != "" && name != only) {
				continue
			}
			fn(name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
