package state

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

// ReloadDebounce coalesces the burst of events an editor save produces.
var ReloadDebounce = 200 * time.Millisecond

// Watch calls onChange with the reloaded state whenever the file is changed
// by someone else. Writes made through Save are not reported. Unparsable
// contents are logged and skipped. Watch blocks until ctx is done.
func (f *File) Watch(ctx context.Context, onChange func(lib.State)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Editors replace files by rename, so watch the directory.
	if err := w.Add(filepath.Dir(f.path)); err != nil {
		return err
	}
	logger.Printf("Watching %s", f.path)

	reload := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != f.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(ReloadDebounce, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(ReloadDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Printf("Watcher error: %v", err)
		case <-reload:
			f.reload(onChange)
		}
	}
}

func (f *File) reload(onChange func(lib.State)) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		logger.Printf("Reload of %s skipped: %v", f.path, err)
		return
	}
	if f.ownWrite(data) {
		return
	}
	st, err := Decode(f.path, data)
	if err != nil {
		logger.Printf("Reload of %s skipped: %v", f.path, err)
		return
	}
	logger.Printf("Reloaded %s: %d configs", f.path, len(st.Servers))
	onChange(st)
}
