package api

import "fmt"

// RequestError is the single failure kind returned by Client. Status and Body
// are set when the server answered with a non-2xx status.
type RequestError struct {
	Status  int
	Body    string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d - %s", e.Status, e.Body)
}

func (e *RequestError) Unwrap() error { return e.Err }
