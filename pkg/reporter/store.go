package reporter

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"gopkg.in/fsnotify.v1"
)

// Store holds the current Table. Readers call Table and get a complete
// snapshot; a reload builds a fresh table and swaps it in whole.
type Store struct {
	current atomic.Pointer[Table]
	dir     string
	logger  *slog.Logger

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onChange func(*Table)
}

// NewStore creates a store serving table.
func NewStore(table *Table, logger *slog.Logger) *Store {
	if table == nil {
		table = Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{logger: logger}
	s.current.Store(table)
	return s
}

// NewStoreFromDirectory loads overrides from dir and remembers it for Reload
// and Watch.
func NewStoreFromDirectory(dir string, logger *slog.Logger) (*Store, error) {
	table, err := LoadDirectory(dir)
	if err != nil {
		return nil, err
	}
	s := NewStore(table, logger)
	s.dir = dir
	return s, nil
}

// Table returns the current snapshot.
func (s *Store) Table() *Table {
	return s.current.Load()
}

// SetOnChange registers a callback invoked after every successful reload.
func (s *Store) SetOnChange(fn func(*Table)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Reload rebuilds the table from the configured directory. On failure the
// previous table stays in service.
func (s *Store) Reload() error {
	if s.dir == "" {
		return fmt.Errorf("no directory configured for reload")
	}
	table, err := LoadDirectory(s.dir)
	if err != nil {
		return err
	}
	s.current.Store(table)

	s.mu.Lock()
	onChange := s.onChange
	s.mu.Unlock()
	if onChange != nil {
		onChange(table)
	}
	return nil
}

// Watch starts watching the override directory and reloads on YAML changes.
func (s *Store) Watch() error {
	if s.dir == "" {
		return fmt.Errorf("no directory configured for watching")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		return fmt.Errorf("already watching %s", s.dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching directory %s: %w", s.dir, err)
	}

	s.watcher = watcher
	s.stopChan = make(chan struct{})
	go s.watchLoop(watcher, s.stopChan)
	return nil
}

func (s *Store) watchLoop(watcher *fsnotify.Watcher, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isYAML(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn("Reference table reload failed",
					slog.String("file", event.Name),
					slog.String("error", err.Error()))
				continue
			}
			s.logger.Info("Reference tables reloaded", slog.String("file", event.Name))

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("Reference table watcher error", slog.String("error", err.Error()))
		}
	}
}

// StopWatch stops watching the override directory.
func (s *Store) StopWatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopChan != nil {
		close(s.stopChan)
		s.stopChan = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}
