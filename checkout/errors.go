package checkout

import "errors"

var (
	ErrNotFound                = errors.New("checkout: not found")
	ErrAgeRejected             = errors.New("checkout: customer below minimum age")
	ErrEmptyOrder              = errors.New("checkout: order has no lines")
	ErrCheckoutPending         = errors.New("checkout: confirmation already pending")
	ErrNotAwaitingConfirmation = errors.New("checkout: no checkout awaiting confirmation")
	ErrInvalidTier             = errors.New("checkout: invalid pricing tier")
)
