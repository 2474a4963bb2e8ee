package tablecompare

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned by Compare when the caller's cancellation channel
// closed before the comparison finished. No partial ComparisonResult is
// returned alongside it.
var ErrCancelled = errors.New("tablecompare: comparison cancelled")

// KeyColumnsNotCommonError is returned by Compare when a configured key column
// is not present in the reconciled common fields of the two datasets.
type KeyColumnsNotCommonError struct {
	Field string
}

func (e *KeyColumnsNotCommonError) Error() string {
	return fmt.Sprintf("tablecompare: key column %q is not common to both datasets", e.Field)
}

// NewKeyColumnsNotCommonError constructs a KeyColumnsNotCommonError for field.
func NewKeyColumnsNotCommonError(field string) error {
	return &KeyColumnsNotCommonError{Field: field}
}
