package cart

import "fmt"

// ErrItemNotFound indicates a basket item could not be found
type ErrItemNotFound struct {
	ItemID string
}

func (e *ErrItemNotFound) Error() string {
	return fmt.Sprintf("basket item not found: %s", e.ItemID)
}

// ErrItemNotOpen indicates an operation on a closed basket item
type ErrItemNotOpen struct {
	ItemID string
	Status ItemStatus
}

func (e *ErrItemNotOpen) Error() string {
	return fmt.Sprintf("basket item %s is %s", e.ItemID, e.Status)
}
