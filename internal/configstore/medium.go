package configstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	yaml "gopkg.in/yaml.v3"
)

// MemoryMedium keeps records in process memory. Used for the ephemeral
// session area and in tests.
type MemoryMedium struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryMedium returns an empty in-memory medium.
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{records: make(map[string]Record)}
}

func (m *MemoryMedium) Read(_ context.Context, area, key string) (Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[area+"/"+key]
	if !ok {
		return nil, false, nil
	}
	return clone(rec), true, nil
}

func (m *MemoryMedium) Write(_ context.Context, area, key string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[area+"/"+key] = clone(rec)
	return nil
}

func (m *MemoryMedium) Delete(_ context.Context, area, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, area+"/"+key)
	return nil
}

// FileMedium persists each record as a YAML file under Dir/<area>/<key>.yaml.
type FileMedium struct {
	Dir string
	// StrictPerms, when true, enforces 0700 on directories and 0600 on files
	// so preference records are readable only by the owner.
	StrictPerms bool
}

func (m *FileMedium) dirPerm() os.FileMode {
	if m.StrictPerms {
		return 0o700
	}
	return 0o755
}

func (m *FileMedium) filePerm() os.FileMode {
	if m.StrictPerms {
		return 0o600
	}
	return 0o644
}

func (m *FileMedium) pathFor(area, key string) string {
	return filepath.Join(m.Dir, area, key+".yaml")
}

func (m *FileMedium) Read(_ context.Context, area, key string) (Record, bool, error) {
	b, err := os.ReadFile(m.pathFor(area, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var rec Record
	if err := yaml.Unmarshal(b, &rec); err != nil {
		return nil, false, err
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, true, nil
}

func (m *FileMedium) Write(_ context.Context, area, key string, rec Record) error {
	dir := filepath.Join(m.Dir, area)
	if err := os.MkdirAll(dir, m.dirPerm()); err != nil {
		return err
	}
	b, err := yaml.Marshal(rec)
	if err != nil {
		return err
	}
	return os.WriteFile(m.pathFor(area, key), b, m.filePerm())
}

func (m *FileMedium) Delete(_ context.Context, area, key string) error {
	err := os.Remove(m.pathFor(area, key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
