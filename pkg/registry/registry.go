// Package registry is the process-wide manifest bridging stable operation
// identifiers to callable business-logic entry points.
//
// The registry is a two-phase structure: an explicit registration phase runs
// during process initialization, before any request is served, and Freeze
// ends it. After Freeze the map is read-only, so dispatch-time lookups need
// no locking. Entry points are plain functions from validated parameters to
// a result or domain error, unaware of which protocol front-end invoked them.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lvsoft/service-kit/internal/logging"
	"github.com/lvsoft/service-kit/pkg/contract"
)

// HandlerFunc is a business-logic entry point. Parameters arrive as one flat
// map, already merged from whatever transport carried them.
type HandlerFunc func(ctx context.Context, params map[string]any) (any, error)

// Definition is the registration boundary consumed from the authoring layer:
// everything needed to resolve the entry point to a contract operation.
type Definition struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	Parameters  []contract.ParameterSpec
	Response    string
}

// Operation projects the definition onto the contract's operation shape.
func (d Definition) Operation() contract.Operation {
	return contract.Operation{
		ID:          d.ID,
		Method:      d.Method,
		Path:        d.Path,
		Summary:     d.Summary,
		Description: d.Description,
		Parameters:  d.Parameters,
		Response:    d.Response,
	}
}

type entry struct {
	def     Definition
	handler HandlerFunc
}

// Registry maps operation identifiers to entry points.
type Registry struct {
	mu     sync.Mutex
	frozen bool
	byID   map[string]entry
	order  []string
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to surface consistency faults.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an empty registry in its registration phase.
func New(opts ...Option) *Registry {
	r := &Registry{
		byID:   make(map[string]entry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds an entry point under the identifier of its definition.
// A duplicate identifier fails initialization rather than silently
// shadowing, and registration after Freeze is rejected.
func (r *Registry) Register(def Definition, fn HandlerFunc) error {
	if def.ID == "" {
		return fmt.Errorf("registry: definition has no operation identifier (%s %s)", def.Method, def.Path)
	}
	if fn == nil {
		return fmt.Errorf("registry: operation %q registered without a handler", def.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("registry: registration of %q after freeze", def.ID)
	}
	if _, dup := r.byID[def.ID]; dup {
		return &DuplicateError{ID: def.ID}
	}
	r.byID[def.ID] = entry{def: def, handler: fn}
	r.order = append(r.order, def.ID)
	return nil
}

// MustRegister is Register for process-initialization call sites where a
// failure is a programming error.
func (r *Registry) MustRegister(def Definition, fn HandlerFunc) {
	if err := r.Register(def, fn); err != nil {
		panic(err)
	}
}

// Freeze ends the registration phase. Idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Invoke looks up the identifier and calls its entry point.
//
// A lookup miss after startup means the contract promises an operation with
// no backing entry point. That is a deployment defect, not a user mistake:
// it is logged as such and surfaced as a ConsistencyFault.
func (r *Registry) Invoke(ctx context.Context, id string, params map[string]any) (any, error) {
	e, ok := r.lookup(id)
	if !ok {
		fault := &ConsistencyFault{ID: id}
		r.logger.Error("registry consistency fault: contract operation has no registered entry point",
			"operation", id)
		return nil, fault
	}
	return e.handler(ctx, params)
}

// Definitions returns the registered definitions in registration order.
func (r *Registry) Definitions() []Definition {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].def)
	}
	return out
}

// Contract assembles a contract from the registered definitions: the single
// source of truth both protocol projections are built from.
func (r *Registry) Contract(title, version string) (*contract.Contract, error) {
	defs := r.Definitions()
	ops := make([]contract.Operation, len(defs))
	for i, d := range defs {
		ops[i] = d.Operation()
	}
	return contract.New(title, version, ops)
}

// Len reports the number of registered entry points.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *Registry) lookup(id string) (entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	return e, ok
}
