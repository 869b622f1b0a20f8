package traits

import "fmt"

// TaxonomyError describes an invalid taxonomy rule.
type TaxonomyError struct {
	Index   int
	Message string
}

func (e *TaxonomyError) Error() string {
	return fmt.Sprintf("taxonomy rule %d: %s", e.Index, e.Message)
}
