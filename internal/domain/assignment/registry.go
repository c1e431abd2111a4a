package assignment

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps normalized strategy keys to the policy they evaluate.
// Tenant-custom keys are registered as aliases of a built-in Kind.
type Registry struct {
	mu    sync.RWMutex
	kinds map[Key]Kind
}

// NewRegistry returns an empty registry. Most callers want DefaultRegistry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[Key]Kind)}
}

// DefaultRegistry returns a registry holding round_robin, least_open and manual.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.kinds[KeyRoundRobin] = KindRoundRobin
	r.kinds[KeyLeastOpen] = KindLeastOpen
	r.kinds[KeyManual] = KindManual
	return r
}

// builtinKinds pins the built-in keys. round_robin in particular is the
// fallback for unknown keys and must keep meaning round-robin.
var builtinKinds = map[Key]Kind{
	KeyRoundRobin: KindRoundRobin,
	KeyLeastOpen:  KindLeastOpen,
	KeyManual:     KindManual,
}

// Register binds key (normalized first) to kind, replacing any previous
// binding. Built-in keys can only be bound to their own kind.
func (r *Registry) Register(key string, kind Kind) error {
	if kind == KindUnrecognized {
		return fmt.Errorf("register strategy %q: %w", key, ErrInvalidArgument)
	}
	k := NormalizeKey(key)
	if want, ok := builtinKinds[k]; ok && want != kind {
		return fmt.Errorf("register strategy %q: built-in key cannot be rebound: %w", key, ErrConfiguration)
	}
	r.mu.Lock()
	r.kinds[k] = kind
	r.mu.Unlock()
	return nil
}

// RegisterAlias binds key to whatever target currently resolves to.
func (r *Registry) RegisterAlias(key, target string) error {
	s, ok := r.Lookup(NormalizeKey(target))
	if !ok {
		return fmt.Errorf("register alias %q -> %q: unknown target: %w", key, target, ErrConfiguration)
	}
	return r.Register(key, s.Kind())
}

// RegisterAliases registers a set of key -> target aliases where targets may
// name other keys of the same set. Aliases are bound once their target
// resolves, so the outcome does not depend on map order. Targets that never
// resolve (unknown or cyclic) fail with ErrConfiguration and leave the
// resolvable aliases registered.
func (r *Registry) RegisterAliases(aliases map[string]string) error {
	pending := make(map[Key]Key, len(aliases))
	for key, target := range aliases {
		pending[NormalizeKey(key)] = NormalizeKey(target)
	}

	for len(pending) > 0 {
		progressed := false
		for _, key := range sortedKeys(pending) {
			target := pending[key]
			if _, waiting := pending[target]; waiting && target != key {
				continue
			}
			s, ok := r.Lookup(target)
			if !ok {
				continue
			}
			if err := r.Register(string(key), s.Kind()); err != nil {
				return err
			}
			delete(pending, key)
			progressed = true
		}
		if !progressed {
			break
		}
	}

	if len(pending) > 0 {
		unresolved := sortedKeys(pending)
		return fmt.Errorf("register aliases %v: unknown or cyclic target: %w", unresolved, ErrConfiguration)
	}
	return nil
}

func sortedKeys(m map[Key]Key) []Key {
	keys := make([]Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Lookup returns the strategy registered under an already normalized key.
func (r *Registry) Lookup(k Key) (Strategy, bool) {
	r.mu.RLock()
	kind, ok := r.kinds[k]
	r.mu.RUnlock()
	if !ok {
		return Strategy{}, false
	}
	return StrategyFor(kind)
}

// Keys returns the registered keys in lexical order.
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	keys := make([]Key, 0, len(r.kinds))
	for k := range r.kinds {
		keys = append(keys, k)
	}
	r.mu.RUnlock()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
