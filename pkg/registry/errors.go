package registry

import "fmt"

// DuplicateError reports two entry points registered under one identifier.
// It is fatal at initialization: allowing it would silently shadow one of
// the two implementations.
type DuplicateError struct {
	ID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("registry: duplicate registration for operation %q", e.ID)
}

// ConsistencyFault reports a dispatch-time lookup miss: the contract
// references an operation absent from the registry. It is classified as an
// internal defect and surfaced as a server-side error, never attributed to
// the caller.
type ConsistencyFault struct {
	ID string
}

func (e *ConsistencyFault) Error() string {
	return fmt.Sprintf("registry: operation %q has no registered entry point", e.ID)
}
