// Package command turns a contract into an addressable command namespace and
// binds user-supplied arguments to contract operations.
//
// Every operation is reachable under a dotted name built from its URL
// segments plus a lower-cased method suffix: GET /v1/users/{id} becomes
// v1.users.id.get. The namespace is derived once and cached next to the
// contract; it never mutates afterwards.
package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lvsoft/service-kit/pkg/contract"
)

// Candidate is one completion suggestion with its description.
type Candidate struct {
	Name        string
	Description string
}

// Node is a namespace segment. Leaves map 1:1 to an operation; interior
// nodes are shared prefixes.
type Node struct {
	Name     string
	Children map[string]*Node
	Op       *contract.Operation // non-nil on leaves only
}

// Tree is the command namespace derived from a contract.
type Tree struct {
	root   *Node
	leaves map[string]contract.Operation
	names  []string // sorted leaf names
}

// Build derives the namespace from the contract. Two operations mapping to
// the same dotted name (possible once placeholders are rendered literally)
// fail construction, naming both offenders.
func Build(c *contract.Contract) (*Tree, error) {
	t := &Tree{
		root:   &Node{Children: make(map[string]*Node)},
		leaves: make(map[string]contract.Operation),
	}

	for _, op := range c.Operations() {
		name := LeafName(op)
		if prev, dup := t.leaves[name]; dup {
			return nil, &CollisionError{
				Name:   name,
				First:  fmt.Sprintf("%s %s (%s)", prev.Method, prev.Path, prev.ID),
				Second: fmt.Sprintf("%s %s (%s)", op.Method, op.Path, op.ID),
			}
		}
		t.leaves[name] = op
		t.names = append(t.names, name)
		t.insert(name, op)
	}
	sort.Strings(t.names)
	return t, nil
}

// LeafName computes the dotted command name of an operation: path segments
// (placeholders rendered literally) joined by dots, plus the method suffix.
func LeafName(op contract.Operation) string {
	segs := contract.Segments(op.Path)
	segs = append(segs, strings.ToLower(op.Method))
	return strings.Join(segs, ".")
}

func (t *Tree) insert(name string, op contract.Operation) {
	node := t.root
	parts := strings.Split(name, ".")
	for i, part := range parts {
		child, ok := node.Children[part]
		if !ok {
			child = &Node{Name: part, Children: make(map[string]*Node)}
			node.Children[part] = child
		}
		if i == len(parts)-1 {
			leaf := op
			child.Op = &leaf
		}
		node = child
	}
}

// Resolve maps a full dotted name to its originating operation.
func (t *Tree) Resolve(name string) (contract.Operation, error) {
	op, ok := t.leaves[name]
	if !ok {
		return contract.Operation{}, &ResolutionError{Name: name}
	}
	return op, nil
}

// Names returns all leaf names in sorted order.
func (t *Tree) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Complete returns the leaf names starting with partial, in sorted order,
// each with the operation's description.
func (t *Tree) Complete(partial string) []Candidate {
	var out []Candidate
	for _, name := range t.names {
		if strings.HasPrefix(name, partial) {
			op := t.leaves[name]
			out = append(out, Candidate{Name: name, Description: op.Doc()})
		}
	}
	return out
}

// CompleteFlags returns the --name flags of a resolved command matching
// partial. Used by the interactive shell when the token under the cursor is
// a flag.
func (t *Tree) CompleteFlags(command, partial string) []Candidate {
	op, ok := t.leaves[command]
	if !ok {
		return nil
	}
	var out []Candidate
	for _, p := range op.Parameters {
		flag := "--" + p.Name
		if strings.HasPrefix(flag, partial) {
			out = append(out, Candidate{Name: flag, Description: p.Description})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
