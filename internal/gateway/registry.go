package gateway

import (
	"sync"

	ierr "github.com/tierforge/tierforge/internal/errors"
)

// BackendType selects a gateway implementation.
type BackendType string

const (
	BackendSimulated BackendType = "simulated"
	BackendHTTP      BackendType = "http"
)

// Registry holds named gateway backends. It is constructed once at
// startup and passed to the services that need it; there is no
// process-wide singleton.
type Registry struct {
	mu       sync.RWMutex
	backends map[BackendType]Gateway
	def      BackendType
}

func NewRegistry() *Registry {
	return &Registry{backends: make(map[BackendType]Gateway)}
}

// Register adds a backend. The first registered backend becomes the
// default until SetDefault overrides it.
func (r *Registry) Register(name BackendType, gw Gateway) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.backends) == 0 {
		r.def = name
	}
	r.backends[name] = gw
}

func (r *Registry) SetDefault(name BackendType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.backends[name]; !ok {
		return ierr.NewErrorf("gateway backend %s is not registered", name).
			WithHint("Register the backend before selecting it").
			Mark(ierr.ErrNotFound)
	}
	r.def = name
	return nil
}

// Get returns the named backend, or the default when name is empty.
func (r *Registry) Get(name BackendType) (Gateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" {
		name = r.def
	}
	gw, ok := r.backends[name]
	if !ok {
		return nil, ierr.NewErrorf("gateway backend %s is not registered", name).
			WithHint("No such gateway backend is configured").
			WithReportableDetails(map[string]interface{}{"backend": name}).
			Mark(ierr.ErrNotFound)
	}
	return gw, nil
}

// Default returns the default backend.
func (r *Registry) Default() (Gateway, error) {
	return r.Get("")
}
