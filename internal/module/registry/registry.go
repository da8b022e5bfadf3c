// Package registry is the module catalog: which modules exist, what they can
// do, and how to construct each implementation variant. Registration is
// data-driven - adding a tenant or module is catalog data, not new wiring
// code.
package registry

import (
	"context"
	"sort"
	"sync"

	"dashgate/internal/module"
	id "dashgate/pkg/domain"
	dErrors "dashgate/pkg/domain-errors"
)

// Factory constructs a fresh implementation instance. Instances are never
// shared across tenants, so factories must not return singletons.
type Factory func(ctx context.Context) (module.Module, error)

// Entry is one catalog record: a module descriptor plus its implementation
// variants keyed by implementation key ("standard", "acme-custom", ...).
type Entry struct {
	Descriptor      module.Descriptor
	Implementations map[string]Factory
}

// Registry holds the module catalog. Populated at startup, read-mostly after.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[id.ModuleID]module.Descriptor
	factories   map[string]Factory
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		descriptors: make(map[id.ModuleID]module.Descriptor),
		factories:   make(map[string]Factory),
	}
}

// Register adds one catalog entry. Every entry must carry a standard
// implementation so tenants without a bespoke variant can still be served.
func (r *Registry) Register(e Entry) error {
	if e.Descriptor.ModuleID.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "catalog entry missing module id")
	}
	if _, ok := e.Implementations[module.ImplementationStandard]; !ok {
		return dErrors.New(dErrors.CodeInvalidInput,
			"catalog entry for "+e.Descriptor.ModuleID.String()+" missing standard implementation")
	}
	// Validate the whole entry before touching the maps; a rejected entry must
	// leave no partial catalog state behind.
	for key, factory := range e.Implementations {
		if factory == nil {
			return dErrors.New(dErrors.CodeInvalidInput,
				"nil factory for "+e.Descriptor.ModuleID.String()+"/"+key)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.descriptors[e.Descriptor.ModuleID]; exists {
		return dErrors.New(dErrors.CodeConflict,
			"module "+e.Descriptor.ModuleID.String()+" already registered")
	}
	r.descriptors[e.Descriptor.ModuleID] = e.Descriptor
	for key, factory := range e.Implementations {
		r.factories[factoryKey(e.Descriptor.ModuleID, key)] = factory
	}
	return nil
}

// RegisterAll registers catalog entries in bulk, stopping at the first error.
func (r *Registry) RegisterAll(entries []Entry) error {
	for _, e := range entries {
		if err := r.Register(e); err != nil {
			return err
		}
	}
	return nil
}

// Descriptor returns the catalog record for a module id.
func (r *Registry) Descriptor(moduleID id.ModuleID) (module.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[moduleID]
	return d, ok
}

// Descriptors returns all catalog records ordered by module id.
func (r *Registry) Descriptors() []module.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]module.Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModuleID < out[j].ModuleID })
	return out
}

// Load instantiates the named implementation variant and runs its one-time
// Register step against the host. Each call yields a fresh instance.
func (r *Registry) Load(ctx context.Context, moduleID id.ModuleID, implementationKey string, host module.Host) (module.Module, error) {
	if implementationKey == "" {
		implementationKey = module.ImplementationStandard
	}

	r.mu.RLock()
	factory, ok := r.factories[factoryKey(moduleID, implementationKey)]
	r.mu.RUnlock()
	if !ok {
		return nil, dErrors.New(dErrors.CodeModuleLoadFailed,
			"no implementation "+implementationKey+" registered for module "+moduleID.String())
	}

	impl, err := factory(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeModuleLoadFailed,
			"constructing "+moduleID.String()+"/"+implementationKey)
	}
	if err := impl.Register(host); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeModuleLoadFailed,
			"registering "+moduleID.String()+"/"+implementationKey)
	}
	return impl, nil
}

func factoryKey(moduleID id.ModuleID, implementationKey string) string {
	return moduleID.String() + "/" + implementationKey
}
