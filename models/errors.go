package models

import "errors"

// Domain errors surfaced by the campaign services. Handlers translate these
// to HTTP statuses; nothing below is ever swallowed silently.
var (
	ErrAgentNotFound  = errors.New("agent not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrEmptyName      = errors.New("full name must not be empty")
	ErrEmptyAnswer    = errors.New("answer must not be empty")

	ErrTicketNotFound = errors.New("qr code not found")
	ErrTicketUsed     = errors.New("qr code already used")

	ErrNoClueToday     = errors.New("no clue scheduled for today")
	ErrAlreadyAnswered = errors.New("today's clue already answered by this agent")

	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponExpired   = errors.New("coupon expired")
	ErrCouponExhausted = errors.New("coupon has no uses left")

	ErrMaxTierReached = errors.New("badge already at maximum tier")
	// ErrMintRace: the participant's badge moved under a concurrent mint;
	// the losing attempt is rolled back and may be retried.
	ErrMintRace = errors.New("badge changed during mint, retry")
)
