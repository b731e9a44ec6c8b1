package core

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrUploadNotFound is returned when an upload ID is unknown or has expired.
var ErrUploadNotFound = errors.New("upload not found")

// UploadStore keeps the raw bytes of recent uploads in memory, keyed by
// upload ID. It never holds Tables; every view re-imports from the bytes.
//
// Entries expire ttl after their last access. At most maxEntries are kept;
// the least recently used go first.
type UploadStore struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]*storedUpload
}

type storedUpload struct {
	upload     Upload
	data       []byte
	lastAccess time.Time
}

// NewUploadStore creates a store. Non-positive limits disable that limit.
func NewUploadStore(ttl time.Duration, maxEntries int) *UploadStore {
	return &UploadStore{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		entries:    make(map[string]*storedUpload),
	}
}

// Put stores data under u.ID, evicting the least recently used entries if
// the store is full.
func (s *UploadStore) Put(u Upload, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[u.ID.String()] = &storedUpload{upload: u, data: data, lastAccess: s.now()}
	s.enforceLimitLocked()
}

// Get returns the upload and its bytes and refreshes its expiry.
func (s *UploadStore) Get(id string) (Upload, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return Upload{}, nil, ErrUploadNotFound
	}
	now := s.now()
	if s.expired(e, now) {
		delete(s.entries, id)
		return Upload{}, nil, ErrUploadNotFound
	}
	e.lastAccess = now
	return e.upload, e.data, nil
}

// Delete removes an upload. It reports whether the upload existed.
func (s *UploadStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[id]
	delete(s.entries, id)
	return ok
}

// Len returns the number of stored uploads, expired ones included until the
// next Sweep.
func (s *UploadStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes expired entries and enforces the entry limit. It returns the
// number of entries removed.
func (s *UploadStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.entries)
	now := s.now()
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
		}
	}
	s.enforceLimitLocked()
	return before - len(s.entries)
}

func (s *UploadStore) expired(e *storedUpload, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastAccess) > s.ttl
}

// enforceLimitLocked drops least recently used entries beyond maxEntries.
// Callers must hold s.mu.
func (s *UploadStore) enforceLimitLocked() {
	if s.maxEntries <= 0 || len(s.entries) <= s.maxEntries {
		return
	}

	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.entries[ids[i]].lastAccess.Before(s.entries[ids[j]].lastAccess)
	})

	for _, id := range ids[:len(ids)-s.maxEntries] {
		delete(s.entries, id)
	}
}
