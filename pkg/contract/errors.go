package contract

import "fmt"

// LoadError reports a malformed or unreachable contract. It is fatal at
// startup: no command tree or projection can be built without a contract.
type LoadError struct {
	Source string // where the contract came from (URL, file, "definitions")
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	msg := "contract load failed"
	if e.Source != "" {
		msg += " (" + e.Source + ")"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }
