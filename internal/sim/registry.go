package sim

import (
	"sync"

	"github.com/Faultbox/seacraft/internal/ocean/spectrum"
)

// Source is a named spectrum whose configuration can change at runtime.
// The field is rebuilt by the driver when the source is drained.
type Source struct {
	Name string

	mu    sync.RWMutex
	cfg   spectrum.Config
	field *spectrum.Field
}

// NewSource creates a source with an initial field.
func NewSource(name string, field *spectrum.Field) *Source {
	return &Source{Name: name, cfg: field.Config, field: field}
}

// Config returns the configuration the next rebuild will use.
func (s *Source) Config() spectrum.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Field returns the current static spectrum.
func (s *Source) Field() *spectrum.Field {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.field
}

func (s *Source) setConfig(cfg spectrum.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// rebuild regenerates the field from the pending configuration.
func (s *Source) rebuild() (*spectrum.Field, error) {
	f, err := spectrum.Generate(s.Config())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.field = f
	s.mu.Unlock()
	return f, nil
}

// Registry is the per-frame queue of spectra awaiting regeneration. A source
// is queued at most once until the next Drain.
type Registry struct {
	mu     sync.Mutex
	queue  []*Source
	queued map[*Source]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{queued: make(map[*Source]struct{})}
}

// Enqueue marks s for regeneration. It reports false if s is already queued.
func (r *Registry) Enqueue(s *Source) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.queued[s]; ok {
		return false
	}
	r.queued[s] = struct{}{}
	r.queue = append(r.queue, s)
	return true
}

// Pending returns the number of queued sources.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

// Drain removes every queued source and calls fn for each in enqueue order.
// Sources enqueued by fn wait for the next Drain.
func (r *Registry) Drain(fn func(*Source)) int {
	r.mu.Lock()
	batch := r.queue
	r.queue = nil
	r.queued = make(map[*Source]struct{})
	r.mu.Unlock()

	for _, s := range batch {
		fn(s)
	}
	return len(batch)
}
