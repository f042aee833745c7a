package client

import (
	"fmt"
	"net/http"
	"strings"
)

// NetworkError is a transport-level failure: the call never produced an HTTP
// response. Timeout reports whether the request deadline expired.
type NetworkError struct {
	URL     string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request to %s timed out: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError is a non-2xx response, carried with its body. It is the
// command's result, not a dispatch fault; sessions continue after it.
type RemoteError struct {
	Status int
	Body   []byte
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("remote returned %d %s", e.Status, http.StatusText(e.Status))
	if body := strings.TrimSpace(string(e.Body)); body != "" {
		msg += ": " + body
	}
	return msg
}

// DecodeError reports a response whose body could not be read.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to read response body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
