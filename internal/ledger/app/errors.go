package app

import "errors"

var (
	ErrNoDocument         = errors.New("no ledger document")
	ErrStorageUnavailable = errors.New("ledger storage unavailable")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrClosed             = errors.New("ledger closed")
)
