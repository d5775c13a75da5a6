package services

import (
	"errors"
	"fmt"

	"github.com/ethpandaops/txdecoder/abi"
)

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrCalldataTooLarge    = errors.New("calldata too large")
	ErrTransactionSource   = errors.New("transaction source error")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrWrongNetwork        = errors.New("wrong network")
	ErrAbiSource           = errors.New("abi source error")
)

// IsClientError reports whether err should be answered as a bad request.
// Missing transactions and unknown networks count as client errors, all other
// collaborator failures are server side.
func IsClientError(err error) bool {
	return abi.IsClientError(err) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrCalldataTooLarge) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrWrongNetwork)
}

// HintedError carries a human readable hint next to a decode failure, e.g.
// the text signature of an unknown selector.
type HintedError struct {
	Err  error
	Hint string
}

func (e *HintedError) Error() string {
	return fmt.Sprintf("%v (%v)", e.Err, e.Hint)
}

func (e *HintedError) Unwrap() error {
	return e.Err
}
