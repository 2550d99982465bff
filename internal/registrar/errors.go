package registrar

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/leozw/domainhub/internal/core"
)

// Category is the normalized failure taxonomy for registrar calls.
type Category string

const (
	// CategoryAuth indicates rejected credentials or missing permissions
	CategoryAuth Category = "auth"

	// CategoryAPI indicates the registrar refused the request
	CategoryAPI Category = "api"

	// CategoryTimeout indicates the registrar took too long to respond
	CategoryTimeout Category = "timeout"

	// CategoryOutage indicates the registrar is unreachable or failing
	CategoryOutage Category = "outage"

	// CategoryRateLimited indicates too many requests
	CategoryRateLimited Category = "rate_limited"

	// CategoryBadData indicates a response that could not be decoded
	CategoryBadData Category = "bad_data"

	// CategoryInternal is used for errors that did not come from a registrar
	CategoryInternal Category = "internal"
)

var (
	ErrUnsupportedRegistrar = errors.New("unsupported registrar")
	ErrUpstream             = errors.New("failed to communicate with registrar")
)

// Error wraps a registrar failure with its category.
type Error struct {
	Category  Category
	Registrar core.Registrar
	Op        string
	Message   string
	Err       error
	Retryable bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s [%s]: %s: %v", e.Registrar, e.Op, e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s [%s]: %s", e.Registrar, e.Op, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(category Category, reg core.Registrar, op, message string, err error) *Error {
	retryable := category == CategoryTimeout ||
		category == CategoryOutage ||
		category == CategoryRateLimited

	return &Error{
		Category:  category,
		Registrar: reg,
		Op:        op,
		Message:   message,
		Err:       err,
		Retryable: retryable,
	}
}

// StatusError classifies a non-2xx HTTP answer.
func StatusError(reg core.Registrar, op string, status int, body string) *Error {
	msg := fmt.Sprintf("http %d", status)
	if body != "" {
		msg += ": " + body
	}

	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return NewError(CategoryAuth, reg, op, msg, nil)
	case status == http.StatusTooManyRequests:
		return NewError(CategoryRateLimited, reg, op, msg, nil)
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return NewError(CategoryTimeout, reg, op, msg, nil)
	case status >= 500:
		return NewError(CategoryOutage, reg, op, msg, nil)
	}
	return NewError(CategoryAPI, reg, op, msg, nil)
}

// TransportError classifies a failure to complete the HTTP exchange.
// Cancellation by the caller is passed through untouched.
func TransportError(reg core.Registrar, op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return NewError(CategoryTimeout, reg, op, "request timed out", err)
	}
	return NewError(CategoryOutage, reg, op, "request failed", err)
}

func IsRetryable(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Retryable
	}
	return false
}

func CategoryOf(err error) Category {
	var re *Error
	if errors.As(err, &re) {
		return re.Category
	}
	return CategoryInternal
}
