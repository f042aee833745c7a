// Package contract holds the in-memory representation of an API contract:
// the set of operations (path, method, parameters, response shape) that the
// command tree, the request executor and the protocol projections all read.
//
// A Contract is loaded once (from a local document, a remote service, or
// synthesized from registered operation definitions) and is read-only
// afterwards.
package contract

import (
	"fmt"
	"sort"
	"strings"
)

// Location identifies where a parameter is carried on the wire.
type Location string

const (
	InPath   Location = "path"
	InQuery  Location = "query"
	InHeader Location = "header"
	InBody   Location = "body"
)

// ParameterSpec describes a single operation parameter.
type ParameterSpec struct {
	Name        string
	In          Location
	Type        string // string, integer, number, boolean
	Required    bool
	Default     string
	Description string
}

// Operation is one (path, method) pair of the contract. Immutable once loaded.
type Operation struct {
	ID          string
	Method      string // upper case HTTP method
	Path        string // template with {name} placeholders
	Summary     string
	Description string
	Parameters  []ParameterSpec
	Response    string // response shape reference, informational
}

// Doc returns the short human-readable description of the operation.
func (o Operation) Doc() string {
	if o.Summary != "" {
		return o.Summary
	}
	return o.Description
}

// BodyParam returns the declared body parameter, if the operation has one.
func (o Operation) BodyParam() (ParameterSpec, bool) {
	for _, p := range o.Parameters {
		if p.In == InBody {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

// Contract is the read-only set of operations exposed by a service.
type Contract struct {
	Title   string
	Version string

	ops []Operation
}

// New assembles a contract from a list of operations. Duplicate
// (path, method) pairs are rejected; operations are kept in a stable order
// (path, then method).
func New(title, version string, ops []Operation) (*Contract, error) {
	seen := make(map[string]string, len(ops))
	sorted := make([]Operation, len(ops))
	copy(sorted, ops)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		return sorted[i].Method < sorted[j].Method
	})

	for i := range sorted {
		op := &sorted[i]
		op.Method = strings.ToUpper(op.Method)
		if !strings.HasPrefix(op.Path, "/") {
			op.Path = "/" + op.Path
		}
		if op.ID == "" {
			op.ID = deriveID(op.Path, op.Method)
		}
		key := op.Method + " " + op.Path
		if prev, dup := seen[key]; dup {
			return nil, &LoadError{Reason: fmt.Sprintf("duplicate operation %s (ids %q and %q)", key, prev, op.ID)}
		}
		seen[key] = op.ID
	}

	return &Contract{Title: title, Version: version, ops: sorted}, nil
}

// Operations returns the contract's operations. The returned slice is a copy;
// the contract itself never mutates after New.
func (c *Contract) Operations() []Operation {
	out := make([]Operation, len(c.ops))
	copy(out, c.ops)
	return out
}

// Len reports the number of operations.
func (c *Contract) Len() int { return len(c.ops) }

// deriveID builds a stable identifier for operations that carry no explicit
// operationId: path segments joined by underscores plus the method.
func deriveID(path, method string) string {
	segs := segments(path)
	if len(segs) == 0 {
		return strings.ToLower(method)
	}
	return strings.Join(segs, "_") + "_" + strings.ToLower(method)
}

// segments splits a path template into its named segments, rendering
// placeholders literally ({id} -> id).
func segments(path string) []string {
	var out []string
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		seg = strings.TrimSuffix(strings.TrimPrefix(seg, "{"), "}")
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// Segments exposes the literal path segments of an operation path.
func Segments(path string) []string { return segments(path) }
