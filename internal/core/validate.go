package core

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

// MaxNameservers bounds a nameserver update.
const MaxNameservers = 10

var ErrValidation = errors.New("validation failed")

// ValidationError describes bad input. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidateNameservers trims and checks a nameserver set before it is sent to
// a registrar. The returned slice keeps the caller's order.
func ValidateNameservers(nameservers []string) ([]string, error) {
	if len(nameservers) == 0 {
		return nil, &ValidationError{Field: "nameservers", Message: "at least one nameserver required"}
	}
	if len(nameservers) > MaxNameservers {
		return nil, &ValidationError{
			Field:   "nameservers",
			Message: fmt.Sprintf("at most %d nameservers allowed", MaxNameservers),
		}
	}

	out := make([]string, 0, len(nameservers))
	for i, ns := range nameservers {
		host, err := NormalizeDomainName(ns)
		if err != nil {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("nameservers[%d]", i),
				Message: err.Error(),
			}
		}
		out = append(out, host)
	}
	return out, nil
}

// NormalizeDomainName lower-cases, strips a trailing dot and converts to the
// ASCII (punycode) form. Names must contain at least one dot.
func NormalizeDomainName(name string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return "", errors.New("empty domain name")
	}

	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil {
		return "", fmt.Errorf("invalid domain name %q: %w", name, err)
	}
	if !strings.Contains(ascii, ".") {
		return "", fmt.Errorf("domain name must contain a dot: %q", name)
	}
	return ascii, nil
}
