// Package collections loads the set of API collections the suites run against.
package collections

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Known collection names.
const (
	Categories = "categories"
	Products   = "products"
	Services   = "services"
	Stores     = "stores"
)

const (
	defaultLimit = 10
	maxLimit     = 25
)

var defaultLimitProbes = []int{5, 7, 25}

// Collection describes one collection endpoint and its pagination contract.
type Collection struct {
	Name         string `json:"name" yaml:"name"`
	Path         string `json:"path" yaml:"path"`
	Enabled      *bool  `json:"enabled" yaml:"enabled"`
	DefaultLimit int    `json:"default_limit" yaml:"default_limit"`
	MaxLimit     int    `json:"max_limit" yaml:"max_limit"`
	LimitProbes  []int  `json:"limit_probes" yaml:"limit_probes"`
}

type configFile struct {
	Collections []Collection `json:"collections" yaml:"collections"`
}

// Registry holds the loaded collection definitions.
type Registry struct {
	mu          sync.RWMutex
	collections []Collection
	idx         map[string]Collection
}

// Default returns the four collections of the API with the stock pagination contract.
func Default() *Registry {
	reg, err := newRegistry([]Collection{
		{Name: Categories},
		{Name: Products},
		{Name: Services},
		{Name: Stores},
	})
	if err != nil {
		panic(err) // static input
	}
	return reg
}

// LoadRegistry loads collection definitions from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("collections file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open collections file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read collections file: %w", err)
	}

	cf, err := parseConfigFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(cf.Collections) == 0 {
		return nil, errors.New("collections file contains no collections entries")
	}

	return newRegistry(cf.Collections)
}

func newRegistry(entries []Collection) (*Registry, error) {
	reg := &Registry{
		collections: make([]Collection, len(entries)),
		idx:         make(map[string]Collection, len(entries)),
	}
	for i := range entries {
		c := sanitizeCollection(entries[i])
		if err := validateCollection(c); err != nil {
			return nil, fmt.Errorf("collections[%d]: %w", i, err)
		}
		if _, exists := reg.idx[c.Name]; exists {
			return nil, fmt.Errorf("duplicate collection name %q", c.Name)
		}
		reg.collections[i] = c
		reg.idx[c.Name] = c
	}
	return reg, nil
}

type unmarshalFn func([]byte, any) error

func parseConfigFile(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if cf, err := unmarshalConfigFile(d.name, data, d.fn); err == nil {
			return cf, nil
		}
	}

	return configFile{}, errors.New("collections file format not recognized (expected YAML or JSON)")
}

func unmarshalConfigFile(name string, data []byte, fn unmarshalFn) (configFile, error) {
	var cf configFile
	if err := fn(data, &cf); err != nil {
		return configFile{}, fmt.Errorf("decode %s collections: %w", name, err)
	}
	return cf, nil
}

func sanitizeCollection(c Collection) Collection {
	c.Name = strings.ToLower(strings.TrimSpace(c.Name))
	c.Path = strings.Trim(strings.TrimSpace(c.Path), "/")
	if c.Path == "" {
		c.Path = c.Name
	}
	if c.Enabled == nil {
		def := true
		c.Enabled = &def
	}
	if c.DefaultLimit == 0 {
		c.DefaultLimit = defaultLimit
	}
	if c.MaxLimit == 0 {
		c.MaxLimit = maxLimit
	}
	if len(c.LimitProbes) == 0 {
		c.LimitProbes = append([]int(nil), defaultLimitProbes...)
	}
	return c
}

func validateCollection(c Collection) error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.DefaultLimit < 0 || c.MaxLimit < 0 {
		return fmt.Errorf("limits must be positive for collection %q", c.Name)
	}
	if c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("default_limit %d exceeds max_limit %d for collection %q", c.DefaultLimit, c.MaxLimit, c.Name)
	}
	for _, p := range c.LimitProbes {
		if p <= 0 || p > c.MaxLimit {
			return fmt.Errorf("limit probe %d out of range (1..%d) for collection %q", p, c.MaxLimit, c.Name)
		}
	}
	return nil
}

// ByName returns the collection definition by name.
func (r *Registry) ByName(name string) (Collection, bool) {
	if r == nil {
		return Collection{}, false
	}
	name = strings.ToLower(strings.TrimSpace(name))

	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.idx[name]
	return c, ok
}

// All returns all configured collections.
func (r *Registry) All() []Collection {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Collection, len(r.collections))
	copy(out, r.collections)
	return out
}

// Enabled returns collections that are enabled.
func (r *Registry) Enabled() []Collection {
	all := r.All()
	if len(all) == 0 {
		return nil
	}

	out := make([]Collection, 0, len(all))
	for _, c := range all {
		if c.EnabledValue() {
			out = append(out, c)
		}
	}
	return out
}

// EnabledValue returns enabled flag defaulting to true.
func (c Collection) EnabledValue() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// Normalized fills defaults for a hand-built Collection.
func (c Collection) Normalized() Collection {
	return sanitizeCollection(c)
}
