package dataset

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Env carries the shared resources a factory may use.
type Env struct {
	Pool   *Pool
	Logger *slog.Logger
}

// Connector returns the pooled connection for a credentials entry.
func (e Env) Connector(credentials string) (Connector, error) {
	if e.Pool == nil {
		return nil, fmt.Errorf("no connection pool configured")
	}
	return e.Pool.Handle(credentials)
}

// Factory builds a data set from its catalog arguments.
// args excludes the "type" key.
type Factory func(name string, args map[string]any, env Env) (Dataset, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a data set factory under typeName.
// Called by data set packages in their init() functions.
func Register(typeName string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[typeName] = factory
}

// Get retrieves a data set factory by type name.
func Get(typeName string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[typeName]
	return f, ok
}

// New builds a data set of the given type.
func New(typeName, name string, args map[string]any, env Env) (Dataset, error) {
	factory, ok := Get(typeName)
	if !ok {
		return nil, &UnknownTypeError{Type: typeName, Dataset: name, Available: ListTypes()}
	}
	if env.Logger == nil {
		env.Logger = slog.New(slog.DiscardHandler)
	}
	return factory(name, args, env)
}

// ListTypes returns all registered type names (sorted).
func ListTypes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownTypeError is returned when a catalog entry names an unregistered type.
type UnknownTypeError struct {
	Type      string
	Dataset   string
	Available []string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown data set type %q for %q\nAvailable types: %v\nHint: Check the type of your entry in catalog.yaml", e.Type, e.Dataset, e.Available)
}
