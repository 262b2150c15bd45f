// Package outcome holds the structured result returned by every user-facing
// operation: either success with data, or a rejection carrying a kind and a
// human readable reason.
package outcome

import "errors"

// Kind classifies why an operation was rejected.
type Kind string

const (
	Unauthenticated Kind = "unauthenticated"
	Forbidden       Kind = "forbidden"
	NotFound        Kind = "not_found"
	Validation      Kind = "validation"
	Expired         Kind = "expired"
	Duplicate       Kind = "duplicate"
	Conflict        Kind = "conflict"
)

// Rejection is an expected, user-visible failure. No state was changed by the
// operation that returned it, except where the operation documents otherwise
// (an expired request is marked expired before the rejection is returned).
type Rejection struct {
	Kind    Kind
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

// Reject creates a new rejection.
func Reject(kind Kind, message string) *Rejection {
	return &Rejection{Kind: kind, Message: message}
}

// AsRejection unwraps err into a rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// ErrNotAuthenticated is returned by every operation invoked without a caller identity.
var ErrNotAuthenticated = Reject(Unauthenticated, "Not authenticated")

// Result is the wire envelope used by the HTTP API.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Kind    Kind   `json:"kind,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK wraps data in a successful result.
func OK(data any) Result {
	return Result{Success: true, Data: data}
}

// Failed converts err into a failed result. Errors that are not rejections are
// reported with a generic message so internal details do not leak.
func Failed(err error) Result {
	if r, ok := AsRejection(err); ok {
		return Result{Success: false, Error: r.Message, Kind: r.Kind}
	}
	return Result{Success: false, Error: "Something went wrong. Please try again."}
}
