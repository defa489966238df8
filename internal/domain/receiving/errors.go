package receiving

import "fmt"

// ErrInvalidOrderTransition indicates an invalid order state transition
type ErrInvalidOrderTransition struct {
	OrderID     string
	From        OrderStatus
	To          OrderStatus
	Description string
}

func (e *ErrInvalidOrderTransition) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("invalid order transition for %s: %s -> %s: %s",
			e.OrderID, e.From, e.To, e.Description)
	}
	return fmt.Sprintf("invalid order transition for %s: %s -> %s",
		e.OrderID, e.From, e.To)
}

// ErrNoMovement indicates a confirmation that moved nothing
type ErrNoMovement struct {
	OrderID string
}

func (e *ErrNoMovement) Error() string {
	return fmt.Sprintf("order %s: confirmation moved no stock", e.OrderID)
}

// ErrOrderNotFound indicates an order could not be found
type ErrOrderNotFound struct {
	OrderID string
}

func (e *ErrOrderNotFound) Error() string {
	return fmt.Sprintf("order not found: %s", e.OrderID)
}
