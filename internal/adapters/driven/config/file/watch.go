package file

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for writes to settle before reloading.
const DefaultDebounce = 200 * time.Millisecond

// Watch reloads the store whenever the config file changes on disk and then
// calls onChange with the result of the reload. The parent directory is
// watched rather than the file so that editors replacing the file by rename
// are still seen. Watching stops when ctx is cancelled.
func (s *ConfigStore) Watch(ctx context.Context, onChange func(error)) error {
	return s.watch(ctx, DefaultDebounce, onChange)
}

func (s *ConfigStore) watch(ctx context.Context, debounce time.Duration, onChange func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(s.filePath)); err != nil {
		w.Close()
		return err
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		err := s.Load()
		if onChange != nil {
			onChange(err)
		}
	}

	go func() {
		defer w.Close()
		defer func() {
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != s.filePath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				mu.Lock()
				if timer == nil {
					timer = time.AfterFunc(debounce, reload)
				} else {
					timer.Reset(debounce)
				}
				mu.Unlock()

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if onChange != nil {
					onChange(err)
				}
			}
		}
	}()

	return nil
}
