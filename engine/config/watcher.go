package config

import (
	"errors"

	"github.com/fsnotify/fsnotify"

	"github.com/cantarcan/NazaraEngine/engine/core"
)

// Watcher re-reads a configuration file whenever it changes on disk and
// hands the decoded result to a callback. The callback runs on the watcher
// goroutine; the render loop is single-threaded, so callers should stash the
// new config and pick it up at the next frame boundary.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	done     chan struct{}
	isClosed bool
}

func Watch(path string, onChange func(*Config)) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}

	if err := w.fsnotify.Add(path); err != nil {
		w.fsnotify.Close()
		return nil, err
	}

	go w.start(path, onChange)

	return w, nil
}

func (w *Watcher) start(path string, onChange func(*Config)) {
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				cfg, err := Load(path)
				if err != nil {
					core.LogWarn("config: reload of %s failed: %s", path, err.Error())
					continue
				}
				core.LogInfo("config: reloaded %s", path)
				onChange(cfg)
			}
		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("config: watcher error: %s", err.Error())
		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

func (w *Watcher) Close() error {
	if w.isClosed {
		return errors.New("config watcher already closed")
	}
	w.isClosed = true
	close(w.done)
	return nil
}
