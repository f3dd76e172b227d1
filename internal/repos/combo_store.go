package repos

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"cozyoven/internal/domain"
	applog "cozyoven/internal/log"
)

// Medium is a durable key-value store holding one whole document per key.
// Get returns nil, nil for a missing key.
type Medium interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// PersistError means a change was applied but could not be written durably.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string { return fmt.Sprintf("combo store %s: not saved durably: %v", e.Op, e.Err) }
func (e *PersistError) Unwrap() error { return e.Err }

// ComboStore keeps every ComboConfig as one JSON list under a single key.
// It does not enforce combo invariants; callers validate before writing.
type ComboStore struct {
	mu    sync.Mutex
	kv    Medium
	key   string
	newID func() string
}

func NewComboStore(kv Medium, key string) *ComboStore {
	return &ComboStore{kv: kv, key: key, newID: uuid.NewString}
}

// load treats a missing or unreadable document as an empty list.
func (s *ComboStore) load() []domain.ComboConfig {
	raw, err := s.kv.Get(s.key)
	if err != nil {
		applog.Error(nil, "combo.store.read", err, map[string]any{"key": s.key})
		return []domain.ComboConfig{}
	}
	if len(raw) == 0 {
		return []domain.ComboConfig{}
	}
	var out []domain.ComboConfig
	if err := json.Unmarshal(raw, &out); err != nil {
		applog.Error(nil, "combo.store.corrupt", err, map[string]any{"key": s.key})
		return []domain.ComboConfig{}
	}
	if out == nil {
		out = []domain.ComboConfig{}
	}
	return out
}

func (s *ComboStore) save(op string, combos []domain.ComboConfig) error {
	raw, err := json.Marshal(combos)
	if err == nil {
		err = s.kv.Put(s.key, raw)
	}
	if err != nil {
		applog.Error(nil, "combo.store.write", err, map[string]any{"key": s.key, "op": op})
		return &PersistError{Op: op, Err: err}
	}
	return nil
}

func (s *ComboStore) GetAll() []domain.ComboConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *ComboStore) GetByID(id string) (domain.ComboConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.load() {
		if c.ID == id {
			return c, true
		}
	}
	return domain.ComboConfig{}, false
}

// Create assigns a fresh id and appends. Any id on data is ignored.
// On a *PersistError the returned record is still the one the caller should show.
func (s *ComboStore) Create(data domain.ComboConfig) (domain.ComboConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	combos := s.load()
	data.ID = s.newID()
	combos = append(combos, data)
	return data, s.save("create", combos)
}

// Update merges patch onto the stored record. When check is set it runs on the merged record
// under the store lock, and a check error aborts without writing. ok is false when id is unknown.
func (s *ComboStore) Update(id string, patch domain.ComboPatch, check func(domain.ComboConfig) error) (domain.ComboConfig, bool, error) {
	return s.Modify(id, func(c domain.ComboConfig) (domain.ComboConfig, error) {
		merged := patch.Apply(c)
		if check != nil {
			if err := check(merged); err != nil {
				return c, err
			}
		}
		return merged, nil
	})
}

// Modify replaces the stored record with edit's result while holding the store lock, so edit
// always sees the latest version. An edit error aborts without writing and returns the stored record.
func (s *ComboStore) Modify(id string, edit func(domain.ComboConfig) (domain.ComboConfig, error)) (domain.ComboConfig, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	combos := s.load()
	for i := range combos {
		if combos[i].ID != id {
			continue
		}
		updated, err := edit(combos[i])
		if err != nil {
			return combos[i], true, err
		}
		updated.ID = id
		combos[i] = updated
		return updated, true, s.save("update", combos)
	}
	return domain.ComboConfig{}, false, nil
}

// Delete is idempotent: an unknown id is not an error and writes nothing.
func (s *ComboStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	combos := s.load()
	kept := combos[:0]
	for _, c := range combos {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(combos) {
		return nil
	}
	return s.save("delete", kept)
}
