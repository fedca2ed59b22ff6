package core

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FormatInfo describes an upload format.
type FormatInfo struct {
	Key        string   // Unique identifier: "csv"
	Label      string   // Display name: "Comma-separated values"
	Extensions []string // Lowercase, with leading dot: ".csv"
	Fallback   bool     // Used for file names no other format claims
}

// ParseFunc decodes an uploaded file into a Dataset.
type ParseFunc func(data []byte) (*Dataset, error)

// FormatDefinition contains everything needed to read one upload format.
type FormatDefinition struct {
	Info  FormatInfo
	Parse ParseFunc
}

var (
	registry   = make(map[string]FormatDefinition)
	registryMu sync.RWMutex
)

// Register adds a format definition to the registry.
// Panics if the key, an extension, or the fallback slot is already taken.
func Register(def FormatDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("format already registered: %s", def.Info.Key))
	}
	if def.Parse == nil {
		panic(fmt.Sprintf("format %s has no parse function", def.Info.Key))
	}

	for i, ext := range def.Info.Extensions {
		ext = strings.ToLower(ext)
		def.Info.Extensions[i] = ext
		for _, other := range registry {
			for _, taken := range other.Info.Extensions {
				if taken == ext {
					panic(fmt.Sprintf("extension %s already registered by %s", ext, other.Info.Key))
				}
			}
		}
	}

	if def.Info.Fallback {
		for _, other := range registry {
			if other.Info.Fallback {
				panic(fmt.Sprintf("fallback format already registered: %s", other.Info.Key))
			}
		}
	}

	registry[def.Info.Key] = def
}

// Get returns a format definition by key.
// Returns false if not found.
func Get(key string) (FormatDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// ForFileName picks the format for an uploaded file by its extension,
// falling back to the fallback format when no extension matches.
func ForFileName(name string) (FormatDefinition, bool) {
	ext := strings.ToLower(filepath.Ext(name))

	registryMu.RLock()
	defer registryMu.RUnlock()

	var fallback *FormatDefinition
	for key := range registry {
		def := registry[key]
		for _, e := range def.Info.Extensions {
			if e == ext {
				return def, true
			}
		}
		if def.Info.Fallback {
			fallback = &def
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return FormatDefinition{}, false
}

// Formats returns all registered formats sorted by key.
func Formats() []FormatDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]FormatDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// AcceptedExtensions lists every registered extension, sorted.
func AcceptedExtensions() []string {
	var exts []string
	for _, def := range Formats() {
		exts = append(exts, def.Info.Extensions...)
	}
	sort.Strings(exts)
	return exts
}

// FormatCount returns the number of registered formats.
func FormatCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered formats.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]FormatDefinition)
}
