package ledger

import "fmt"

// NotInInventoryError reports a utilisation against an item that was never
// purchased.
type NotInInventoryError struct {
	Item string
}

func (e *NotInInventoryError) Error() string {
	return fmt.Sprintf("Item %q not found in inventory", e.Item)
}

// InsufficientQuantityError reports a utilisation that exceeds the stocked
// quantity.
type InsufficientQuantityError struct {
	Item      string
	Requested float64
	Available float64
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("Insufficient quantity for %q: requested %g, available %g", e.Item, e.Requested, e.Available)
}
