package constants

import (
	"errors"
	"net/http"
)

// CodedError is an error that knows which HTTP status it maps to.
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

// Row-level rejections. A record failing any of them is dropped.
var (
	ErrMissingField                = errors.New("missing required field")
	ErrInjuryCountExceedsEmployees = errors.New("total injuries exceed annual average employees")
	ErrImplausibleHoursWorked      = errors.New("total hours worked outside plausible band")
	ErrInconsistentSubcategories   = errors.New("illness subcategories exceed total injuries")
	ErrNonPositiveHours            = errors.New("total hours worked is not positive")
)

// Source-level failures, fatal for one year's load only.
var (
	ErrSourceUnavailable    = NewCodedError(http.StatusServiceUnavailable, "source unavailable")
	ErrSourceSchemaMismatch = NewCodedError(http.StatusUnprocessableEntity, "source schema mismatch")
	ErrDecode               = errors.New("no supported text encoding succeeded")
)

// ErrDomain is returned by metric functions for inputs outside their domain.
var ErrDomain = errors.New("input outside function domain")

var (
	ErrNotFound   = NewCodedError(http.StatusNotFound, "not found")
	ErrBadRequest = NewCodedError(http.StatusBadRequest, "bad request")
)
