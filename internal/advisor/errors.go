package advisor

import "errors"

var (
	// ErrUnknownProfile is returned for a profile name not in the profile set
	ErrUnknownProfile = errors.New("unknown risk profile")

	// ErrUnknownProductType is returned for an unrecognised product type
	ErrUnknownProductType = errors.New("unknown product type")

	// ErrUnknownFund is returned when a pick names a fund missing from the catalog
	ErrUnknownFund = errors.New("unknown fund")

	// ErrBudgetExceeded is returned in strict mode when picks overspend a category
	ErrBudgetExceeded = errors.New("category budget exceeded")
)
