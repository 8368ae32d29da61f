package ai

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Loader compiles and caches the embedded JSON schemas used to validate
// model output. Schema names are the filenames without extension
// (extract_v1, questions_v1, score_v1).
type Loader struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

func NewLoader() (*Loader, error) {
	l := &Loader{cache: make(map[string]*jsonschema.Schema)}
	if err := l.Reload(); err != nil {
		return nil, err
	}

	return l, nil
}

// GetSchema returns a compiled schema by name.
func (l *Loader) GetSchema(name string) (*jsonschema.Schema, bool) {
	l.mu.RLock()
	s, ok := l.cache[name]
	l.mu.RUnlock()

	return s, ok
}

// Reload compiles every embedded schema file.
func (l *Loader) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return fmt.Errorf("read schemas dir: %w", err)
	}

	newCache := make(map[string]*jsonschema.Schema)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		b, err := fs.ReadFile(schemaFS, path.Join("schemas", e.Name()))
		if err != nil {
			return fmt.Errorf("read schema %s: %w", e.Name(), err)
		}

		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}

		newCache[strings.TrimSuffix(e.Name(), ".json")] = rs
	}

	l.cache = newCache
	return nil
}
