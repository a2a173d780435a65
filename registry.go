package lenient

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Registry resolves adapters for Go types through a chain of factories:
// explicit registrations first, then user factories, then the built-in scalar
// factory, then the collection factory. Resolved adapters are cached.
// A Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	explicit  map[reflect.Type]Adapter
	factories []Factory
	cache     map[reflect.Type]Adapter
	pending   map[reflect.Type]*deferredAdapter
	logger    *zap.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger handed to adapters. Tolerant collections log
// dropped elements at debug level.
func WithLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithFactory appends a user factory ahead of the built-in ones.
func WithFactory(f Factory) RegistryOption {
	return func(r *Registry) { r.factories = append(r.factories, f) }
}

// NewRegistry creates a registry with the built-in adapters.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		explicit: make(map[reflect.Type]Adapter),
		cache:    make(map[reflect.Type]Adapter),
		pending:  make(map[reflect.Type]*deferredAdapter),
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry used when no registry is given.
func DefaultRegistry() *Registry { return defaultRegistry }

// Logger returns the registry's logger.
func (r *Registry) Logger() *zap.Logger { return r.logger }

// Register binds an adapter to exactly t. It takes precedence over factories.
func (r *Registry) Register(t reflect.Type, a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.explicit[t] = a
	clear(r.cache)
}

// RegisterType binds an adapter to T.
func RegisterType[T any](reg *Registry, a Adapter) { reg.Register(reflect.TypeFor[T](), a) }

// AddFactory appends a user factory. User factories run before the built-in ones.
func (r *Registry) AddFactory(f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = append(r.factories, f)
	clear(r.cache)
}

var builtinFactories = []Factory{scalarFactory{}, collectionFactory{}}

// Adapter returns the adapter for t or an error wrapping ErrNoAdapter.
// A type that refers to itself, such as type Tree []Tree, resolves to an
// adapter that forwards to the outer resolution once it completes.
func (r *Registry) Adapter(t reflect.Type) (Adapter, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: <nil>", ErrNoAdapter)
	}
	r.mu.Lock()
	if a, ok := r.cache[t]; ok {
		r.mu.Unlock()
		return a, nil
	}
	if a, ok := r.explicit[t]; ok {
		r.mu.Unlock()
		return a, nil
	}
	if d, ok := r.pending[t]; ok {
		r.mu.Unlock()
		return d, nil
	}
	d := &deferredAdapter{t: t, done: make(chan struct{})}
	r.pending[t] = d
	chain := append(append([]Factory{}, r.factories...), builtinFactories...)
	r.mu.Unlock()

	a, err := r.create(t, chain)

	r.mu.Lock()
	delete(r.pending, t)
	if err == nil {
		r.cache[t] = a
	}
	r.mu.Unlock()
	d.resolve(a, err)
	return a, err
}

// create runs the factory chain. Factories may resolve element types
// recursively, so no lock is held here.
func (r *Registry) create(t reflect.Type, chain []Factory) (Adapter, error) {
	for _, f := range chain {
		a, err := f.Create(t, r)
		if err != nil {
			return nil, err
		}
		if a != nil {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoAdapter, t)
}

// deferredAdapter stands in for an adapter still being resolved further up
// the stack. It blocks on first use until that resolution finishes.
type deferredAdapter struct {
	t    reflect.Type
	done chan struct{}
	a    Adapter
	err  error
}

func (d *deferredAdapter) resolve(a Adapter, err error) {
	d.a, d.err = a, err
	close(d.done)
}

func (d *deferredAdapter) get() (Adapter, error) {
	<-d.done
	return d.a, d.err
}

func (d *deferredAdapter) Read(r *Reader) (any, error) {
	a, err := d.get()
	if err != nil {
		return nil, err
	}
	return a.Read(r)
}

func (d *deferredAdapter) FromValue(r *Reader, v any) (any, error) {
	a, err := d.get()
	if err != nil {
		return nil, err
	}
	return a.FromValue(r, v)
}

func (d *deferredAdapter) Write(w *Writer, v any) error {
	a, err := d.get()
	if err != nil {
		return err
	}
	return a.Write(w, v)
}

// String names the type only; the resolved label would recurse.
func (d *deferredAdapter) String() string { return d.t.String() }

// AdapterFor returns the adapter for T.
func AdapterFor[T any](reg *Registry) (Adapter, error) { return reg.Adapter(reflect.TypeFor[T]()) }
