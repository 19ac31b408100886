package distributions

import "errors"

var (
	ErrAmountNotPositive   = errors.New("Amount must be greater than zero")
	ErrNoProfits           = errors.New("No profits found")
	ErrNothingToDistribute = errors.New("No pending partner share to distribute")
	ErrEntryNotFound       = errors.New("Distribution record not found")
	ErrLegacyEntryReadOnly = errors.New("The legacy catch-up entry cannot be edited")
)
