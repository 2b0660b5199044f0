package hedera

import "errors"

var (
	ErrInvalidAccountID = errors.New("invalid account id")
	ErrNotLongForm      = errors.New("address is not a long-form account address")
	ErrUnknownOperation = errors.New("unknown contract operation")
	ErrMissingParam     = errors.New("missing parameter")
	ErrInvalidAmount    = errors.New("amount must be a positive integer")
	ErrReverted         = errors.New("transaction reverted")
	ErrNoOperatorKey    = errors.New("operator key not configured")
)
