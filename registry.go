package sqlauth

import "sync"

// EngineRegistry maps configured engine identifiers to live Engine
// providers. Engines come and go with the host's service lifecycle, so
// lookups are by name on every dispatch rather than bound once.
type EngineRegistry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

func NewEngineRegistry() *EngineRegistry {
	return &EngineRegistry{
		engines: map[string]Engine{},
	}
}

func (r *EngineRegistry) Register(name string, engine Engine) {
	if name == "" || engine == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[name] = engine
}

func (r *EngineRegistry) Deregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, name)
}

func (r *EngineRegistry) Lookup(name string) (Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	engine, ok := r.engines[name]
	return engine, ok
}
