package settings

import "sync"

// Registry holds the containers declared at setup time.
type Registry struct {
	mu         sync.RWMutex
	containers []Container
}

func NewRegistry() *Registry { return &Registry{} }

// Register adds c, replacing any container registered under the same key.
func (r *Registry) Register(c Container) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.containers {
		if existing.Key == c.Key {
			r.containers[i] = c
			return
		}
	}
	r.containers = append(r.containers, c)
}

func (r *Registry) Containers() []Container {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Container(nil), r.containers...)
}

func (r *Registry) Container(key string) (Container, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.containers {
		if c.Key == key {
			return c, true
		}
	}
	return Container{}, false
}

// Field finds a field by name across all containers.
func (r *Registry) Field(name string) (Field, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.containers {
		for _, f := range c.Fields {
			if f.Name == name {
				return f, true
			}
		}
	}
	return Field{}, false
}
