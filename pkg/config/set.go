package config

import "sort"

// Set holds every configuration loaded into one session, preserving
// insertion order and offering name lookup and the canonical priority
// ordering.
type Set struct {
	configs []*Config
	byName  map[string]*Config
}

// NewSet creates an empty configuration set.
func NewSet() *Set {
	return &Set{byName: make(map[string]*Config)}
}

// Add inserts a configuration, replacing any previous configuration with
// the same name in the lookup index. Insertion order is preserved.
func (s *Set) Add(config *Config) {
	s.configs = append(s.configs, config)
	s.byName[config.Name] = config
}

// ByName returns the configuration with the given name, or nil.
func (s *Set) ByName(name string) *Config {
	return s.byName[name]
}

// Len returns the number of configurations in the set.
func (s *Set) Len() int {
	return len(s.configs)
}

// All returns the configurations in insertion order. The returned slice is
// shared; callers must not mutate it.
func (s *Set) All() []*Config {
	return s.configs
}

// Sorted returns the configurations in application order: ascending
// priority, ties broken by insertion order. The input set is not modified.
func (s *Set) Sorted() []*Config {
	sorted := make([]*Config, len(s.configs))
	copy(sorted, s.configs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) < 0
	})
	return sorted
}
