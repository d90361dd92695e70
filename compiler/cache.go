// Copyright 2021 Torben Schinke
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compiler

import (
	"hash/fnv"
	"sort"
	"sync"
)

// CacheKey identifies one LanguageConfig's preamble artefact.
type CacheKey uint64

// Key hashes a deterministic encoding of lang into a CacheKey (spec.md
// §8). Map iteration in Go is randomized, so ExtraMacros is sorted by key
// before hashing to keep the result stable across runs.
func (lang LanguageConfig) Key() CacheKey {
	h := fnv.New64a()

	h.Write([]byte(lang.Profile))
	h.Write([]byte{0})
	h.Write([]byte(lang.Stage))
	h.Write([]byte{0})
	writeUint(h, uint64(lang.Version))

	names := make([]string, 0, len(lang.ExtraMacros))
	for k := range lang.ExtraMacros {
		names = append(names, k)
	}

	sort.Strings(names)

	for _, k := range names {
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(lang.ExtraMacros[k]))
		h.Write([]byte{0})
	}

	return CacheKey(h.Sum64())
}

func writeUint(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(v >> (8 * i))
	}

	h.Write(buf[:])
}

// Cache holds precompiled Preambles keyed by LanguageConfig, so many
// Compile calls for different shader stages sharing one dialect reuse the
// same parsed builtin declarations rather than re-lexing and re-parsing
// them every time (spec.md §5 "artefact cache").
type Cache struct {
	mu       sync.RWMutex
	preambles map[CacheKey]*Preamble
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{preambles: make(map[CacheKey]*Preamble)}
}

// Get returns the cached Preamble for lang, if one has been stored.
func (c *Cache) Get(lang LanguageConfig) (*Preamble, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.preambles[lang.Key()]

	return p, ok
}

// Store records preamble under lang's cache key, replacing any prior
// entry.
func (c *Cache) Store(lang LanguageConfig, preamble *Preamble) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.preambles[lang.Key()] = preamble
}
