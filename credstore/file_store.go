package credstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const storeFileName = "fowlmon_prefs.json"

// FileStore persists keys to a single flat JSON file. Individual key
// operations are safe for concurrent use; multi-key updates are not atomic
// as a group.
type FileStore struct {
	path   string
	logger zerolog.Logger

	mu   sync.Mutex
	data map[string]any

	// flushMu serializes flush between Commit and the background writer;
	// both write the same temp file before renaming it into place.
	flushMu sync.Mutex

	dirty chan struct{}
	done  chan struct{}
	wg    sync.WaitGroup
}

var _ Store = (*FileStore)(nil)

// NewFileStore opens (or creates) the store file under dataFolder and starts
// the background writer.
func NewFileStore(dataFolder string) (*FileStore, error) {
	if err := os.MkdirAll(dataFolder, 0o755); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] MkdirAll")
	}

	s := &FileStore{
		path:   filepath.Join(dataFolder, storeFileName),
		logger: log.With().Str("component", "credstore").Logger(),
		data:   make(map[string]any),
		dirty:  make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go s.writeLoop()
	return s, nil
}

func (s *FileStore) load() error {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "[FileStore.load] ReadFile")
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		// A corrupt store behaves like an empty one rather than failing startup.
		s.logger.Warn().Err(err).Str("path", s.path).Msg("store file unreadable, starting empty")
		s.data = make(map[string]any)
	}
	return nil
}

func (s *FileStore) GetString(key, defaultValue string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.data[key].(string); ok {
		return v
	}
	return defaultValue
}

func (s *FileStore) GetBool(key string, defaultValue bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.data[key].(bool); ok {
		return v
	}
	return defaultValue
}

func (s *FileStore) GetInt64(key string, defaultValue int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch v := s.data[key].(type) {
	case int64:
		return v
	case float64: // JSON numbers decode as float64
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	}
	return defaultValue
}

func (s *FileStore) SetString(key, value string) { s.set(key, value) }
func (s *FileStore) SetBool(key string, value bool) {
	s.set(key, value)
}
func (s *FileStore) SetInt64(key string, value int64) { s.set(key, value) }

func (s *FileStore) set(key string, value any) {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
	s.signal()
}

func (s *FileStore) Delete(key string) {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	s.signal()
}

func (s *FileStore) Clear() {
	s.mu.Lock()
	s.data = make(map[string]any)
	s.mu.Unlock()
	s.signal()
}

// Commit flushes the current contents to disk synchronously.
func (s *FileStore) Commit() error {
	if err := s.flush(); err != nil {
		return errors.Wrap(err, "[FileStore.Commit] flush")
	}
	return nil
}

func (s *FileStore) Close() error {
	close(s.done)
	s.wg.Wait()
	return s.Commit()
}

func (s *FileStore) signal() {
	select {
	case s.dirty <- struct{}{}:
	default: // a flush is already pending
	}
}

func (s *FileStore) writeLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.dirty:
			if err := s.flush(); err != nil {
				// Best effort only. The in-memory view may now disagree with
				// durable storage until the next successful write.
				s.logger.Error().Err(err).Msg("background flush failed")
			}
		case <-s.done:
			return
		}
	}
}

func (s *FileStore) flush() error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	raw, err := json.Marshal(s.data)
	s.mu.Unlock()
	if err != nil {
		return errors.Wrap(err, "[FileStore.flush] Marshal")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.flush] WriteFile")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "[FileStore.flush] Rename")
	}
	return nil
}
