package server

import (
	"fmt"
	"net/http"
)

// ErrUnknownMode indicates an unrecognized import mode
type ErrUnknownMode struct {
	Mode string
}

func (e *ErrUnknownMode) Error() string {
	return fmt.Sprintf("unknown import mode %q: expected 'preview' or 'commit'", e.Mode)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	if _, ok := err.(*ErrUnknownMode); ok {
		return http.StatusBadRequest
	}
	if isContainerError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
