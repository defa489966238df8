package replenishment

import "fmt"

// ErrInvalidTaskTransition indicates an invalid task state transition
type ErrInvalidTaskTransition struct {
	TaskID      string
	From        TaskStatus
	To          TaskStatus
	Description string
}

func (e *ErrInvalidTaskTransition) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("invalid task transition for %s: %s -> %s: %s",
			e.TaskID, e.From, e.To, e.Description)
	}
	return fmt.Sprintf("invalid task transition for %s: %s -> %s",
		e.TaskID, e.From, e.To)
}

// ErrNoMovement indicates a confirmation that moved nothing
type ErrNoMovement struct {
	TaskID string
}

func (e *ErrNoMovement) Error() string {
	return fmt.Sprintf("task %s: confirmation moved no stock", e.TaskID)
}

// ErrTaskNotFound indicates a task could not be found
type ErrTaskNotFound struct {
	TaskID string
}

func (e *ErrTaskNotFound) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}
