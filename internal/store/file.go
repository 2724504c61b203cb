package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/worksonmyai/tourguide/internal/debug"
)

// File is a Store backed by a single JSON document on disk. Writes are
// atomic (temp file + rename). An fsnotify watch on the containing directory
// picks up writes by other processes and re-notifies the changed keys; the
// adapter's own writes update the cached snapshot first, so the reload after
// a self-write produces no diff and no notification.
type File struct {
	path string

	mu       sync.Mutex
	cache    map[string]string
	watchers map[int]ChangeFunc
	nextID   int

	fw   *fsnotify.Watcher
	done chan struct{}
}

// NewFile opens (creating if needed) a file-backed store at path.
func NewFile(path string) (*File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	f := &File{
		path:     path,
		cache:    map[string]string{},
		watchers: map[int]ChangeFunc{},
		done:     make(chan struct{}),
	}
	if err := f.loadLocked(); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	// Watch the directory, not the file: atomic renames replace the inode.
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch store dir: %w", err)
	}
	f.fw = fw
	go f.watchLoop()
	return f, nil
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.cache[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.cache[key] = string(value)
	err := f.saveLocked()
	fns := f.watcherList()
	f.mu.Unlock()
	if err != nil {
		return err
	}
	for _, fn := range fns {
		fn(key, value)
	}
	return nil
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	_, existed := f.cache[key]
	delete(f.cache, key)
	var err error
	if existed {
		err = f.saveLocked()
	}
	fns := f.watcherList()
	f.mu.Unlock()
	if err != nil {
		return err
	}
	if existed {
		for _, fn := range fns {
			fn(key, nil)
		}
	}
	return nil
}

func (f *File) Watch(fn ChangeFunc) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.watchers[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.watchers, id)
	}
}

func (f *File) Close() error {
	close(f.done)
	var err error
	if f.fw != nil {
		err = f.fw.Close()
	}
	f.mu.Lock()
	f.watchers = map[int]ChangeFunc{}
	f.mu.Unlock()
	return err
}

// loadLocked reads the document into the cache. A missing file is an empty
// store; a corrupt file is treated as empty rather than failing open.
func (f *File) loadLocked() error {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read store file: %w", err)
	}
	doc := map[string]string{}
	if err := json.Unmarshal(data, &doc); err != nil {
		debug.Logf("store file %s corrupt, starting empty: %v", f.path, err)
		return nil
	}
	f.cache = doc
	return nil
}

func (f *File) saveLocked() error {
	data, err := json.MarshalIndent(f.cache, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

func (f *File) watchLoop() {
	base := filepath.Base(f.path)
	for {
		select {
		case <-f.done:
			return
		case ev, ok := <-f.fw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			f.reloadAndNotify()
		case err, ok := <-f.fw.Errors:
			if !ok {
				return
			}
			debug.Logf("store file watch error: %v", err)
		}
	}
}

// reloadAndNotify re-reads the document and notifies watchers of keys whose
// values differ from the cached snapshot.
func (f *File) reloadAndNotify() {
	data, err := os.ReadFile(f.path)
	if err != nil {
		debug.Logf("store file reload: %v", err)
		return
	}
	doc := map[string]string{}
	if err := json.Unmarshal(data, &doc); err != nil {
		debug.Logf("store file reload: %v", err)
		return
	}

	type change struct {
		key string
		val []byte
	}
	var changes []change

	f.mu.Lock()
	for k, v := range doc {
		if old, ok := f.cache[k]; !ok || old != v {
			changes = append(changes, change{k, []byte(v)})
		}
	}
	for k := range f.cache {
		if _, ok := doc[k]; !ok {
			changes = append(changes, change{k, nil})
		}
	}
	f.cache = doc
	fns := f.watcherList()
	f.mu.Unlock()

	for _, c := range changes {
		for _, fn := range fns {
			fn(c.key, c.val)
		}
	}
}

// watcherList snapshots the watcher set; callers must hold mu.
func (f *File) watcherList() []ChangeFunc {
	fns := make([]ChangeFunc, 0, len(f.watchers))
	for _, fn := range f.watchers {
		fns = append(fns, fn)
	}
	return fns
}
