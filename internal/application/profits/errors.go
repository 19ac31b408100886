package profits

import "errors"

var (
	ErrProfitNotFound        = errors.New("Profit not found")
	ErrPaidAmountNotPositive = errors.New("Paid amount must be greater than zero")
	ErrNoPendingShare        = errors.New("No pending partner share")
)
