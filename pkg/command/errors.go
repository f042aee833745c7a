package command

import (
	"fmt"
	"strings"
)

// CollisionError reports two operations mapping to one command name. It is
// fatal at build time: a namespace with ambiguous leaves cannot dispatch.
type CollisionError struct {
	Name   string
	First  string
	Second string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("command name collision: %q maps to both %s and %s", e.Name, e.First, e.Second)
}

// ResolutionError reports an unknown command at dispatch time. The session
// continues; no network call is made.
type ResolutionError struct {
	Name string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Name)
}

// ValidationError reports one missing or malformed argument.
type ValidationError struct {
	Param    string
	Expected string // declared type, for malformed values
	Value    string
	Missing  bool
}

func (e *ValidationError) Error() string {
	if e.Missing {
		return fmt.Sprintf("missing required parameter --%s", e.Param)
	}
	return fmt.Sprintf("invalid value %q for --%s: expected %s", e.Value, e.Param, e.Expected)
}

// ValidationErrors aggregates per-parameter failures so one bad invocation
// reports every offending parameter at once.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}
