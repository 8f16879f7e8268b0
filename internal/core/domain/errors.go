package domain

import "errors"

// Error categories. Every sentinel below wraps exactly one of them, so a
// caller may match either the precise failure or its category with
// errors.Is.
var (
	ErrAuthorization = errors.New("authorization error")
	ErrState         = errors.New("state error")
	ErrFunds         = errors.New("funds error")
	ErrTransfer      = errors.New("transfer error")
	ErrValidation    = errors.New("validation error")
)

var (
	ErrNotOwner      = categorized("not owner", ErrAuthorization)
	ErrNotAuthorized = categorized("not authorized", ErrAuthorization)

	ErrCampaignNotFound  = categorized("campaign not found", ErrState)
	ErrCampaignNotActive = categorized("campaign not active", ErrState)
	// ErrTxConflict reports a transaction that lost a serialization race
	// and committed nothing. The call may be retried as is.
	ErrTxConflict = categorized("transaction conflict, retry", ErrState)

	ErrInsufficientDeposit = categorized("insufficient deposit", ErrFunds)
	ErrCampaignOutOfFunds  = categorized("campaign out of funds", ErrFunds)
	ErrNothingToWithdraw   = categorized("nothing to withdraw", ErrFunds)
	ErrInsufficientFunds   = categorized("insufficient funds", ErrFunds)

	ErrTransferFailed = categorized("transfer failed", ErrTransfer)
	ErrVaultNotFound  = categorized("reward vault not found", ErrTransfer)

	ErrInvalidSplit    = categorized("split weights must sum to 10000", ErrValidation)
	ErrInvalidArgument = categorized("invalid argument", ErrValidation)
	ErrBatchTooLarge   = categorized("batch too large", ErrValidation)
)

type categoryError struct {
	msg      string
	category error
}

func categorized(msg string, category error) error {
	return &categoryError{msg: msg, category: category}
}

func (e *categoryError) Error() string { return e.msg }

func (e *categoryError) Unwrap() error { return e.category }
