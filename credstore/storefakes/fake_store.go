package fakestore

import (
	"sync"

	"github.com/fowltyphoid/fowlmon/credstore"
)

var _ credstore.Store = (*FakeStore)(nil)

// FakeStore is an in-memory Store for tests. CommitErr, when set, is
// returned by Commit to exercise partial-write handling.
type FakeStore struct {
	lock      sync.RWMutex
	data      map[string]any
	CommitErr error
	Commits   int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{data: make(map[string]any)}
}

func (fs *FakeStore) GetString(key, defaultValue string) string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	if v, ok := fs.data[key].(string); ok {
		return v
	}
	return defaultValue
}

func (fs *FakeStore) GetBool(key string, defaultValue bool) bool {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	if v, ok := fs.data[key].(bool); ok {
		return v
	}
	return defaultValue
}

func (fs *FakeStore) GetInt64(key string, defaultValue int64) int64 {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	if v, ok := fs.data[key].(int64); ok {
		return v
	}
	return defaultValue
}

func (fs *FakeStore) SetString(key, value string) { fs.set(key, value) }
func (fs *FakeStore) SetBool(key string, value bool) {
	fs.set(key, value)
}
func (fs *FakeStore) SetInt64(key string, value int64) { fs.set(key, value) }

func (fs *FakeStore) set(key string, value any) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.data[key] = value
}

func (fs *FakeStore) Delete(key string) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	delete(fs.data, key)
}

func (fs *FakeStore) Clear() {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.data = make(map[string]any)
}

func (fs *FakeStore) Commit() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.Commits++
	return fs.CommitErr
}

func (fs *FakeStore) Close() error { return nil }
