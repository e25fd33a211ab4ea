package services

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrCoverageNotFound    = errors.New("coverage not found")
	ErrBeneficiaryNotFound = errors.New("beneficiary not found")
	ErrStepGated           = errors.New("current step has unresolved validation errors")
	ErrNoOffer             = errors.New("no coverages available for this profile")
	ErrPaymentMethodUnset  = errors.New("payment method not selected")
	ErrDebitUnavailable    = errors.New("debit payment is not available yet")
	ErrUnknownProvider     = errors.New("unknown widget provider")
	ErrMissingPreAuth      = errors.New("payment pre-authorization is missing")
)
