// Package resthttp projects a contract plus a registry onto an HTTP router.
//
// One chi route is emitted per contract operation. On a matching inbound
// call the operation identifier is looked up in the registry and the entry
// point invoked with path, query and body parameters merged into one flat
// map. The router and the MCP projection are built from the same contract
// and registry snapshot, so the two surfaces can only differ in transport
// envelope, never in shape.
package resthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lvsoft/service-kit/internal/logging"
	"github.com/lvsoft/service-kit/pkg/contract"
	"github.com/lvsoft/service-kit/pkg/registry"
)

// Server routes contract operations to registered entry points.
type Server struct {
	contract *contract.Contract
	registry *registry.Registry
	logger   *slog.Logger
}

// Option configures the projection.
type Option func(*Server)

// WithLogger sets the request/fault logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewHandler builds the HTTP handler for the contract. Every operation gets
// a route; the machine-readable contract itself is served at the well-known
// endpoint so clients can rebuild their command namespace from the exact
// document the server routes by.
func NewHandler(c *contract.Contract, reg *registry.Registry, opts ...Option) http.Handler {
	s := &Server{
		contract: c,
		registry: reg,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get(contract.SpecPath, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		data, err := json.Marshal(c.Document())
		if err != nil {
			http.Error(w, "failed to render contract", http.StatusInternalServerError)
			s.logger.Error("contract serialization failed", "error", err)
			return
		}
		w.Write(data)
	})

	for _, op := range c.Operations() {
		op := op
		r.MethodFunc(op.Method, op.Path, s.dispatch(op))
	}

	return enableCORS(r)
}

// dispatch builds the routing rule for one operation.
func (s *Server) dispatch(op contract.Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		params, err := mergeParams(op, req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			s.logger.Warn("request parameter extraction failed", "operation", op.ID, "error", err)
			return
		}

		result, err := s.registry.Invoke(req.Context(), op.ID, params)
		if err != nil {
			var fault *registry.ConsistencyFault
			if errors.As(err, &fault) {
				// Deployment defect: the contract promised this operation.
				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"error": fmt.Sprintf("internal: operation %q is not wired to an implementation", op.ID),
				})
				return
			}
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// mergeParams flattens path, query and body parameters into one map, the
// shape entry points consume. Body fields win name collisions; query values
// carry best-effort primitive types.
func mergeParams(op contract.Operation, req *http.Request) (map[string]any, error) {
	params := make(map[string]any)

	declared := make(map[string]contract.ParameterSpec, len(op.Parameters))
	for _, p := range op.Parameters {
		declared[p.Name] = p
	}

	for _, p := range op.Parameters {
		if p.In != contract.InPath {
			continue
		}
		value := chi.URLParam(req, p.Name)
		if value == "" && p.Required {
			return nil, fmt.Errorf("missing path parameter %q", p.Name)
		}
		typed, err := typedValue(value, p.Type)
		if err != nil {
			return nil, fmt.Errorf("invalid value for path parameter %q: expected %s", p.Name, p.Type)
		}
		params[p.Name] = typed
	}

	for name, values := range req.URL.Query() {
		if len(values) == 0 {
			continue
		}
		value := values[0]
		if p, ok := declared[name]; ok && p.In == contract.InQuery {
			typed, err := typedValue(value, p.Type)
			if err != nil {
				return nil, fmt.Errorf("invalid value for query parameter %q: expected %s", name, p.Type)
			}
			params[name] = typed
			continue
		}
		params[name] = inferValue(value)
	}

	for _, p := range op.Parameters {
		if p.In != contract.InHeader {
			continue
		}
		if v := req.Header.Get(p.Name); v != "" {
			params[p.Name] = v
		}
	}

	if req.Body != nil && req.ContentLength != 0 {
		var body any
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("invalid JSON request body: %v", err)
		}
		if obj, ok := body.(map[string]any); ok {
			for k, v := range obj {
				params[k] = v
			}
		} else if body != nil {
			params["body"] = body
		}
	}

	return params, nil
}

func typedValue(value, typ string) (any, error) {
	switch typ {
	case "integer":
		return strconv.ParseInt(value, 10, 64)
	case "number":
		return strconv.ParseFloat(value, 64)
	case "boolean":
		return strconv.ParseBool(value)
	default:
		return value, nil
	}
}

// inferValue mirrors the lenient typing applied to undeclared query
// parameters: number, then bool, else string.
func inferValue(value string) any {
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Debug("response encode failed", "error", err)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
