package objc

import (
	"fmt"
	"sync"

	"github.com/go-cacao/cacao/pkg/errors"
)

// classKey identifies a cache entry. The same subclass name under different
// superclass names is a distinct entry; no normalization happens. An empty
// superclass means the class was looked up without caring about ancestry.
type classKey struct {
	name       string
	superclass string
}

// classEntry is a cached class handle. The superclass name is retained for
// diagnostics only. Entries are replaced wholesale, never mutated.
type classEntry struct {
	superclass string
	cls        Class
}

// ClassMap is the process-wide cache for class lookup and registration.
// Rather than constantly calling into the runtime, class handles are stored
// here after first lookup or creation.
//
// Readers proceed concurrently; a writer blocks all readers and writers.
// The fallback path in Load acquires the write lock only after the read
// lock has been released, so there is no lock-ordering hazard.
type ClassMap struct {
	mu      sync.RWMutex
	entries map[classKey]classEntry
	rt      Runtime
}

// NewClassMap returns an empty ClassMap backed by rt.
func NewClassMap(rt Runtime) *ClassMap {
	return &ClassMap{
		entries: make(map[classKey]classEntry),
		rt:      rt,
	}
}

// Load attempts to resolve a previously seen class. It checks the internal
// map first, then falls back to asking the runtime directly; the fallback
// covers the case where another module in the same process registered the
// class without this cache's knowledge. A class found via the fallback is
// cached under the supplied key before being returned.
//
// When superclass is non-empty and the fallback finds a same-named class
// whose ancestry does not include that superclass, the class is rejected
// and reported rather than silently adopted: the global class namespace is
// shared by everything loaded into the process, and a name match alone does
// not make an unrelated class safe to subclass against.
//
// Absence is not an error; the second return is false if the class exists
// nowhere.
func (m *ClassMap) Load(name, superclass string) (Class, bool) {
	m.mu.RLock()
	entry, ok := m.entries[classKey{name, superclass}]
	m.mu.RUnlock()
	if ok {
		return entry.cls, true
	}

	if m.rt == nil {
		return 0, false
	}

	cls, ok := m.rt.LookupClass(name)
	if !ok {
		return 0, false
	}

	if superclass != "" {
		if sup, ok := m.rt.LookupClass(superclass); ok && !m.rt.Conforms(cls, sup) {
			errors.Report(&errors.Error{
				Op:    "objc.ClassMap.Load",
				Kind:  errors.KindLookup,
				Class: name,
				Err:   fmt.Errorf("runtime class %q does not inherit from %q; refusing to adopt it", name, superclass),
			})
			return 0, false
		}
	}

	m.Store(name, superclass, cls)
	return cls, true
}

// Store unconditionally inserts or overwrites the entry for
// (name, superclass).
func (m *ClassMap) Store(name, superclass string, cls Class) {
	m.mu.Lock()
	m.entries[classKey{name, superclass}] = classEntry{
		superclass: superclass,
		cls:        cls,
	}
	m.mu.Unlock()
}

// Len returns the number of cached entries.
func (m *ClassMap) Len() int {
	m.mu.RLock()
	n := len(m.entries)
	m.mu.RUnlock()
	return n
}
