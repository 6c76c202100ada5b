// Package apispec handles the API descriptors attached to API-backed
// component types: parsing them, encoding the per-call payload embedded in
// YAIL, and importing OpenAPI documents as component types.
package apispec

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

var (
	ErrInvalidDescriptor = errors.New("invalid API descriptor")
	ErrFunctionNotFound  = errors.New("API function not found")
	ErrInvalidDocument   = errors.New("invalid OpenAPI document")
)

// Spec is a parsed API descriptor.
type Spec struct {
	ServerURL string
	Functions []Function
}

// Function is one callable operation. Raw holds the descriptor object as
// written; only Name is interpreted here.
type Function struct {
	Name string
	Raw  json.RawMessage
}

// Lookup returns the first function named name.
func (s *Spec) Lookup(name string) (*Function, error) {
	for i := range s.Functions {
		if s.Functions[i].Name == name {
			return &s.Functions[i], nil
		}
	}
	return nil, errors.Wrapf(ErrFunctionNotFound, "%q", name)
}

type specJSON struct {
	ServerURL string            `json:"serverUrl"`
	Functions []json.RawMessage `json:"functions"`
}

// ParseSpec decodes a descriptor without consulting the cache.
func ParseSpec(descriptor string) (*Spec, error) {
	var raw specJSON
	if err := json.Unmarshal([]byte(descriptor), &raw); err != nil {
		return nil, errors.Wrap(ErrInvalidDescriptor, err.Error())
	}
	spec := &Spec{
		ServerURL: raw.ServerURL,
		Functions: make([]Function, 0, len(raw.Functions)),
	}
	for i, fn := range raw.Functions {
		var head struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(fn, &head); err != nil {
			return nil, errors.Wrapf(ErrInvalidDescriptor, "functions[%d]: %v", i, err)
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, fn); err != nil {
			return nil, errors.Wrapf(ErrInvalidDescriptor, "functions[%d]: %v", i, err)
		}
		spec.Functions = append(spec.Functions, Function{Name: head.Name, Raw: compact.Bytes()})
	}
	return spec, nil
}

// maxCacheEntries bounds the parse cache; it is cleared when full.
const maxCacheEntries = 256

// Cache memoizes parsed descriptors keyed by the hash of their text.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[uint64]cacheEntry
}

type cacheEntry struct {
	descriptor string
	spec       *Spec
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[uint64]cacheEntry)}
}

// Parse returns the parsed descriptor, parsing it at most once per distinct text.
// The returned Spec is shared and must not be modified.
func (c *Cache) Parse(descriptor string) (*Spec, error) {
	key := xxhash.Sum64String(descriptor)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && e.descriptor == descriptor {
		return e.spec, nil
	}

	spec, err := ParseSpec(descriptor)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if len(c.entries) >= maxCacheEntries {
		c.entries = make(map[uint64]cacheEntry)
	}
	c.entries[key] = cacheEntry{descriptor: descriptor, spec: spec}
	c.mu.Unlock()
	return spec, nil
}

// Len returns the number of cached descriptors.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var defaultCache = NewCache()

// Parse parses a descriptor through the package cache.
func Parse(descriptor string) (*Spec, error) {
	return defaultCache.Parse(descriptor)
}
