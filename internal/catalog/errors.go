package catalog

import (
	"errors"
	"fmt"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
)

var (
	// ErrSourceNotFound is returned when the workbook (or CSV directory) does not exist
	ErrSourceNotFound = errors.New("catalog source not found")

	// ErrSourceUnavailable is returned when a remote source exists but cannot be
	// read right now (timeouts, 5xx, access denied)
	ErrSourceUnavailable = errors.New("catalog source unavailable")

	// ErrSheetNotFound is returned when a named sheet is absent from the source
	ErrSheetNotFound = errors.New("sheet not found")
)

// LoadError is the explicit failure of loading one product type.
// 엔진에는 항상 유효한(비어 있을 수 있는) 카탈로그만 전달된다.
type LoadError struct {
	ProductType contracts.ProductType
	Source      string
	Err         error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s catalog from %s: %v", e.ProductType, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
