package sanitizer

import (
	"slices"
	"sync"

	"github.com/arloliu/telepack/event"
	"github.com/arloliu/telepack/format"
	"github.com/arloliu/telepack/internal/hash"
	"github.com/arloliu/telepack/metadata"
)

// binding is the cached resolution of a (path, name) pair.
type binding struct {
	path      string
	name      string
	canHandle bool
	delegate  Sanitizer
	provider  FieldProvider
}

// ValueSanitizer is a chain of responsibility that turns raw field values
// into typed properties.
//
// A field is bound, in order, to the first registered FieldProvider that
// claims it, to a pass-through resolver when nothing is registered at all, or
// to the first chained Sanitizer that claims it. Resolutions are cached per
// (path, name), negative results included, and the cache is dropped on every
// change to the chain.
//
// ValueSanitizer is safe for concurrent use.
type ValueSanitizer struct {
	mu         sync.RWMutex
	providers  []FieldProvider
	sanitizers []Sanitizer
	cache      map[uint64][]*binding
	generation uint64
}

var _ Sanitizer = (*ValueSanitizer)(nil)

// remover is implemented by sanitizers that hold chains of their own.
type remover interface {
	RemoveSanitizer(s Sanitizer) bool
	RemoveFieldSanitizer(p FieldProvider) bool
}

// New creates a ValueSanitizer with the given field providers.
func New(providers ...FieldProvider) *ValueSanitizer {
	s := &ValueSanitizer{cache: make(map[uint64][]*binding)}
	for _, p := range providers {
		s.AddFieldSanitizer(p)
	}

	return s
}

// AddSanitizer appends s to the fallback chain. Nil, already registered
// sanitizers and the receiver itself are ignored.
func (s *ValueSanitizer) AddSanitizer(other Sanitizer) {
	if other == nil || other == Sanitizer(s) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.sanitizers, other) {
		return
	}
	s.sanitizers = append(s.sanitizers, other)
	s.invalidateLocked()
}

// RemoveSanitizer removes other from this chain and from every chained
// sanitizer that supports removal. It reports whether other was found anywhere.
func (s *ValueSanitizer) RemoveSanitizer(other Sanitizer) bool {
	if other == nil {
		return false
	}

	s.mu.Lock()
	idx := slices.Index(s.sanitizers, other)
	if idx >= 0 {
		s.sanitizers = slices.Delete(s.sanitizers, idx, idx+1)
	}
	chained := slices.Clone(s.sanitizers)
	s.mu.Unlock()

	removed := idx >= 0
	for _, c := range chained {
		if r, ok := c.(remover); ok && r.RemoveSanitizer(other) {
			removed = true
		}
	}

	if removed {
		s.invalidate()
	}

	return removed
}

// AddFieldSanitizer registers a field provider. Nil and already registered
// providers are ignored.
func (s *ValueSanitizer) AddFieldSanitizer(p FieldProvider) {
	if p == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.providers, p) {
		return
	}
	s.providers = append(s.providers, p)
	s.invalidateLocked()
}

// RemoveFieldSanitizer removes p from this sanitizer and from every chained
// sanitizer that supports removal. It reports whether p was found anywhere.
func (s *ValueSanitizer) RemoveFieldSanitizer(p FieldProvider) bool {
	if p == nil {
		return false
	}

	s.mu.Lock()
	idx := slices.Index(s.providers, p)
	if idx >= 0 {
		s.providers = slices.Delete(s.providers, idx, idx+1)
	}
	chained := slices.Clone(s.sanitizers)
	s.mu.Unlock()

	removed := idx >= 0
	for _, c := range chained {
		if r, ok := c.(remover); ok && r.RemoveFieldSanitizer(p) {
			removed = true
		}
	}

	if removed {
		s.invalidate()
	}

	return removed
}

// IsEmpty reports whether no providers and no chained sanitizers are registered.
func (s *ValueSanitizer) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.providers) == 0 && len(s.sanitizers) == 0
}

// HandleField implements Sanitizer.
func (s *ValueSanitizer) HandleField(path, name string) bool {
	return s.resolve(path, name).canHandle
}

// Value implements Sanitizer.
func (s *ValueSanitizer) Value(path, name string, value any, stringifyObjects bool) *event.EventProperty {
	b := s.resolve(path, name)
	if !b.canHandle {
		return nil
	}
	if b.delegate != nil {
		return b.delegate.Value(path, name, value, stringifyObjects)
	}

	prop, fieldType := classify(value, stringifyObjects)
	if prop == nil {
		return nil
	}

	return s.handleProperty(b, path, name, fieldType, prop)
}

// Property implements Sanitizer. prop is copied before it is modified.
func (s *ValueSanitizer) Property(path, name string, prop *event.EventProperty, stringifyObjects bool) *event.EventProperty {
	b := s.resolve(path, name)
	if !b.canHandle {
		return nil
	}
	if b.delegate != nil {
		return b.delegate.Property(path, name, prop, stringifyObjects)
	}

	if prop == nil || !metadata.IsValueAssigned(prop.Value) {
		return nil
	}
	fieldType := metadata.FieldValueType(prop.Value)
	if fieldType == format.FieldNotSet {
		return nil
	}

	return s.handleProperty(b, path, name, fieldType, prop.Clone())
}

func (s *ValueSanitizer) handleProperty(b *binding, path, name string, fieldType format.FieldValueType, prop *event.EventProperty) *event.EventProperty {
	prop = applyKind(prop, fieldType)
	if prop == nil || b.provider == nil {
		return prop
	}

	prop, ok := s.callFieldSanitizer(b.provider, path, name, fieldType, prop, 0)
	if !ok {
		return nil
	}

	return prop
}

// callFieldSanitizer applies the provider's sanitizer func to prop. Object
// values are rebuilt key by key, each assigned entry sanitized at the nested
// path. It reports false when the object nests deeper than metadata.MaxDepth,
// which rejects the whole field.
func (s *ValueSanitizer) callFieldSanitizer(p FieldProvider, path, name string, fieldType format.FieldValueType, prop *event.EventProperty, depth int) (*event.EventProperty, bool) {
	if prop == nil {
		return nil, true
	}

	fn := p.GetSanitizer(path, name, fieldType, prop)
	if fn == nil {
		return prop, true
	}

	entries, ok := metadata.ObjectEntries(prop.Value)
	if !ok {
		return fn(FieldDetails{Path: path, Name: name, Type: fieldType, Prop: prop, Sanitizer: s}), true
	}
	if depth >= metadata.MaxDepth {
		return nil, false
	}

	nestedPath := path + "." + name
	rebuilt := make(map[string]any, len(entries))
	for key, value := range entries {
		if !metadata.IsValueAssigned(value) {
			continue
		}
		nested := SanitizeProperty(key, value, false)
		nested, ok = s.callFieldSanitizer(p, nestedPath, key, metadata.FieldValueType(value), nested, depth+1)
		if !ok {
			return nil, false
		}
		if nested != nil {
			rebuilt[key] = nested.Value
		}
	}
	prop.Value = rebuilt

	return prop, true
}

// resolve returns the cached binding for (path, name), computing it on a miss.
func (s *ValueSanitizer) resolve(path, name string) *binding {
	key := hash.FieldKey(path, name)

	s.mu.RLock()
	for _, b := range s.cache[key] {
		if b.path == path && b.name == name {
			s.mu.RUnlock()
			return b
		}
	}
	providers := slices.Clone(s.providers)
	sanitizers := slices.Clone(s.sanitizers)
	generation := s.generation
	s.mu.RUnlock()

	b := bind(path, name, providers, sanitizers)

	s.mu.Lock()
	if s.generation == generation {
		if s.cache == nil {
			s.cache = make(map[uint64][]*binding)
		}
		s.cache[key] = append(s.cache[key], b)
	}
	s.mu.Unlock()

	return b
}

func bind(path, name string, providers []FieldProvider, sanitizers []Sanitizer) *binding {
	b := &binding{path: path, name: name}

	for _, p := range providers {
		if p.HandleField(path, name) {
			b.canHandle = true
			b.provider = p

			return b
		}
	}

	if len(providers) == 0 && len(sanitizers) == 0 {
		b.canHandle = true

		return b
	}

	for _, c := range sanitizers {
		if c.HandleField(path, name) {
			b.canHandle = true
			b.delegate = c

			return b
		}
	}

	return b
}

func (s *ValueSanitizer) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidateLocked()
}

func (s *ValueSanitizer) invalidateLocked() {
	s.cache = make(map[uint64][]*binding)
	s.generation++
}
