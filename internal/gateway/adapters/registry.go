// Package adapters holds the provider registry. Each gateway adapter
// registers a factory; config selects one by name at startup.
package adapters

import (
	"fmt"
	"sort"
	"sync"

	"github.com/smallbiznis/facture/internal/gateway/domain"
)

// Factory builds a provider from its raw settings.
type Factory func(settings map[string]string) (domain.Provider, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs a factory under the given provider name. Duplicate
// registration is a programming error and panics at init time.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := factories[name]; ok {
		panic(fmt.Sprintf("gateway adapter %q registered twice", name))
	}
	factories[name] = f
}

// Build constructs the named provider.
func Build(name string, settings map[string]string) (domain.Provider, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", domain.ErrUnknownProvider, name, Names())
	}
	return f(settings)
}

// Names lists the registered providers.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
