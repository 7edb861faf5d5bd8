package mapstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// FileStore persists each table as <dir>/<table>.yaml so the downstream
// conversion stages (and humans) can read them without this tool.
type FileStore struct {
	Dir string

	buckets *Buckets
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{
		Dir:     dir,
		buckets: NewBuckets(),
	}
}

func (s *FileStore) Buckets() *Buckets { return s.buckets }

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Load() error {
	for _, table := range sortedTableNames() {
		source, err := os.ReadFile(s.tablePath(table))
		if errors.Is(err, os.ErrNotExist) {
			// first run, or a table this document never produced
			continue
		}
		if err != nil {
			return fmt.Errorf("mapstore: couldn't read table %s: %w", table, err)
		}

		switch Tables[table] {
		case MultiValue:
			entries := map[string][]string{}
			if err := yaml.Unmarshal(source, &entries); err != nil {
				return fmt.Errorf("mapstore: couldn't parse table %s: %w", table, err)
			}
			for _, key := range sortedKeys(entries) {
				for _, value := range entries[key] {
					s.buckets.AppendMulti(table, key, value)
				}
			}
		default:
			entries := map[string]string{}
			if err := yaml.Unmarshal(source, &entries); err != nil {
				return fmt.Errorf("mapstore: couldn't parse table %s: %w", table, err)
			}
			for _, key := range sortedKeys(entries) {
				if err := s.buckets.AddSingle(table, key, entries[key]); err != nil {
					return fmt.Errorf("mapstore: loading table %s: %w", table, err)
				}
			}
		}
	}

	return nil
}

func (s *FileStore) Save() error {
	if err := os.MkdirAll(s.Dir, 0750); err != nil {
		return fmt.Errorf("mapstore: couldn't create store directory %s: %w", s.Dir, err)
	}

	for _, table := range s.buckets.TableNames() {
		var payload any
		switch Tables[table] {
		case MultiValue:
			payload = s.buckets.MultiTable(table)
		default:
			payload = s.buckets.SingleTable(table)
		}

		out, err := yaml.Marshal(payload)
		if err != nil {
			return fmt.Errorf("mapstore: couldn't marshal table %s: %w", table, err)
		}
		if err := os.WriteFile(s.tablePath(table), out, 0644); err != nil {
			return fmt.Errorf("mapstore: couldn't write table %s: %w", table, err)
		}
	}

	return nil
}

func (s *FileStore) tablePath(table string) string {
	return filepath.Join(s.Dir, table+".yaml")
}

func sortedTableNames() []string {
	names := maps.Keys(Tables)
	slices.Sort(names)
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
