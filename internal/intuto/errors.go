package intuto

import "fmt"

// TransportError reports a connection-level failure (DNS, refused
// connection, timeout). No response body is available.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("api call to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
