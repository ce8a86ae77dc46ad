package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/lo"

	"semord/internal/types"
)

// MemoryStore keeps all state in process memory behind a single RWMutex.
type MemoryStore struct {
	mu      sync.RWMutex
	values  map[Key]string
	buckets map[string][]types.LeaderboardEntry
	closed  bool
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:  make(map[Key]string),
		buckets: make(map[string][]types.LeaderboardEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, key Key) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) SetIfAbsent(_ context.Context, key Key, value string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrClosed
	}
	if existing, ok := s.values[key]; ok {
		return existing, false, nil
	}
	s.values[key] = value
	return value, true, nil
}

func (s *MemoryStore) Append(_ context.Context, day string, entry types.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.buckets[day] = append(s.buckets[day], cloneEntry(entry))
	return nil
}

// Read returns a copy of the bucket; callers may modify it freely.
func (s *MemoryStore) Read(_ context.Context, day string) ([]types.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return lo.Map(s.buckets[day], func(e types.LeaderboardEntry, _ int) types.LeaderboardEntry {
		return cloneEntry(e)
	}), nil
}

func (s *MemoryStore) Replace(_ context.Context, day string, entries []types.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if len(entries) == 0 {
		delete(s.buckets, day)
		return nil
	}
	s.buckets[day] = lo.Map(entries, func(e types.LeaderboardEntry, _ int) types.LeaderboardEntry {
		return cloneEntry(e)
	})
	return nil
}

func (s *MemoryStore) Prune(_ context.Context, before string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	removed := 0
	for k := range s.values {
		if k.Day < before {
			delete(s.values, k)
			removed++
		}
	}
	for day := range s.buckets {
		if day < before {
			delete(s.buckets, day)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type record struct {
	Key   Key    `json:"key"`
	Value string `json:"value"`
}

type snapshot struct {
	Values  []record                            `json:"values"`
	Buckets map[string][]types.LeaderboardEntry `json:"buckets"`
}

// SaveSnapshot writes the full store to path as JSON. The file is written to a
// temporary name first and renamed into place.
func (s *MemoryStore) SaveSnapshot(path string) error {
	s.mu.RLock()
	snap := snapshot{
		Values:  lo.MapToSlice(s.values, func(k Key, v string) record { return record{Key: k, Value: v} }),
		Buckets: s.buckets,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

// LoadSnapshot replaces the store contents with the snapshot at path. A missing file
// is reported with an error satisfying os.IsNotExist.
func (s *MemoryStore) LoadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decoding snapshot %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = lo.SliceToMap(snap.Values, func(r record) (Key, string) { return r.Key, r.Value })
	s.buckets = snap.Buckets
	if s.buckets == nil {
		s.buckets = make(map[string][]types.LeaderboardEntry)
	}
	return nil
}

// cloneEntry copies e's attempts. The copy is never nil so that entries always
// serialize with an attempts list.
func cloneEntry(e types.LeaderboardEntry) types.LeaderboardEntry {
	e.Attempts = append(make([]string, 0, len(e.Attempts)), e.Attempts...)
	return e
}
