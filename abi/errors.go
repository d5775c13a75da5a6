package abi

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAbi           = errors.New("invalid abi")
	ErrInsufficientCalldata = errors.New("insufficient calldata")
	ErrSelectorNotFound     = errors.New("function selector not found")
	ErrDecode               = errors.New("abi decode failed")
	ErrEventNotFound        = errors.New("event not found")
	ErrAnonymousEvent       = errors.New("anonymous event cannot be matched by topic")
)

// IsClientError reports whether err was caused by the supplied input rather
// than by a collaborator or internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAbi) ||
		errors.Is(err, ErrInsufficientCalldata) ||
		errors.Is(err, ErrSelectorNotFound) ||
		errors.Is(err, ErrDecode) ||
		errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrAnonymousEvent)
}

func decodeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, args...))
}
