package preset

import (
	"fmt"
	"log"
	"slices"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	storeObject   = "presets"
	storeIndexKey = "_index"
)

// Store persists user-edited presets in the platform data directory. A Store
// with no manager works in memory-less degraded mode: saves are dropped and
// lookups find nothing.
type Store struct {
	m *gdata.Manager
}

// OpenStore opens the data directory of appName.
func OpenStore(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open preset store: %w", err)
	}
	return NewStore(m), nil
}

// NewStore wraps an existing manager. m may be nil.
func NewStore(m *gdata.Manager) *Store {
	return &Store{m: m}
}

// Available reports whether the store can persist anything.
func (s *Store) Available() bool { return s.m != nil }

// Exists reports whether a preset called name was saved.
func (s *Store) Exists(name string) bool {
	if s.m == nil || name == storeIndexKey {
		return false
	}
	return s.m.ObjectPropExists(storeObject, name)
}

// Save validates and persists p, replacing any preset with the same name.
func (s *Store) Save(p *Preset) error {
	if s.m == nil {
		return nil
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("refusing to save preset: %w", err)
	}
	if p.Name == storeIndexKey {
		return fmt.Errorf("preset name %q is reserved", p.Name)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preset %q: %w", p.Name, err)
	}
	if err := s.m.SaveObjectProp(storeObject, p.Name, data); err != nil {
		return fmt.Errorf("failed to save preset %q: %w", p.Name, err)
	}

	names, err := s.Names()
	if err != nil {
		log.Printf("psys: preset index unreadable, rebuilding: %v", err)
		names = nil
	}
	if !slices.Contains(names, p.Name) {
		names = append(names, p.Name)
		slices.Sort(names)
		return s.saveIndex(names)
	}
	return nil
}

// Load returns the preset saved under name.
func (s *Store) Load(name string) (*Preset, error) {
	if !s.Exists(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	data, err := s.m.LoadObjectProp(storeObject, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load preset %q: %w", name, err)
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preset %q: %w", name, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("stored preset %q: %w", name, err)
	}
	return &p, nil
}

// Names lists the saved presets in sorted order.
func (s *Store) Names() ([]string, error) {
	if s.m == nil || !s.m.ObjectPropExists(storeObject, storeIndexKey) {
		return nil, nil
	}
	data, err := s.m.LoadObjectProp(storeObject, storeIndexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load preset index: %w", err)
	}
	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preset index: %w", err)
	}
	return names, nil
}

func (s *Store) saveIndex(names []string) error {
	data, err := yaml.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to marshal preset index: %w", err)
	}
	if err := s.m.SaveObjectProp(storeObject, storeIndexKey, data); err != nil {
		return fmt.Errorf("failed to save preset index: %w", err)
	}
	return nil
}

// Merge overlays every saved preset onto doc, replacing presets with the same
// name and appending new ones.
func (s *Store) Merge(doc *Document) error {
	names, err := s.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		p, err := s.Load(name)
		if err != nil {
			return err
		}
		if existing, err := doc.Find(name); err == nil {
			*existing = *p
			continue
		}
		doc.Presets = append(doc.Presets, *p)
	}
	return nil
}
