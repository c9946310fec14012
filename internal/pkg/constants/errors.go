package constants

import (
	"errors"
	"net/http"
)

// CodedError carries the HTTP status the api layer answers with.
type CodedError struct {
	code int
	msg  string
}

func NewCodedError(code int, msg string) *CodedError {
	return &CodedError{code: code, msg: msg}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrNotLoaded    = NewCodedError(http.StatusServiceUnavailable, "datasets are not loaded yet")
	ErrNotFound     = NewCodedError(http.StatusNotFound, "not found")
	ErrBadRequest   = NewCodedError(http.StatusBadRequest, "bad request")
	ErrUnauthorized = NewCodedError(http.StatusUnauthorized, "unauthorized")
	ErrLoadFailed   = NewCodedError(http.StatusBadGateway, "dataset load failed")

	ErrMalformedPolygon = errors.New("malformed polygon")
	ErrDuplicateID      = errors.New("duplicate id")
	ErrInvalidDataset   = errors.New("invalid dataset")
	ErrMissingDataset   = errors.New("missing dataset")
)
