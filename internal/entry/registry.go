package entry

import "sync"

// Registry tracks citation keys seen within one batch run, for duplicate
// detection. Scope a Registry to a single run; independent runs must not
// share one. Safe for concurrent use.
type Registry struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewRegistry returns an empty per-batch key registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]bool)}
}

// Register records the key and reports whether it was already registered.
func (r *Registry) Register(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	dup := r.seen[key]
	r.seen[key] = true
	return dup
}

// Seen reports whether the key has been registered without recording it.
func (r *Registry) Seen(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen[key]
}
