// Package errors holds the domain errors surfaced to API clients with a
// stable machine-readable code.
package errors

import "errors"

// DomainError pairs a stable code with a human message.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// As reports whether err carries a DomainError and returns it.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
