package replenishment

import "context"

// TaskRepository stores replenishment tasks.
type TaskRepository interface {
	// Create persists a new task
	Create(ctx context.Context, task *Task) error

	// Update saves changes to an existing task
	Update(ctx context.Context, task *Task) error

	// FindByID retrieves a task by its id
	FindByID(ctx context.Context, id string) (*Task, error)

	// FindOpenByRule retrieves a rule's open tasks in create order
	FindOpenByRule(ctx context.Context, ruleID string) ([]*Task, error)

	// FindOpen retrieves every open task in create order
	FindOpen(ctx context.Context) ([]*Task, error)

	// FindAll retrieves every task in create order, optionally filtered
	FindAll(ctx context.Context, filter TaskFilter) ([]*Task, error)
}

// TaskFilter narrows FindAll. Zero values mean no constraint.
type TaskFilter struct {
	Status      TaskStatus
	Destination string
	StaffID     string
	SKUID       string
}

// Matches reports whether a task satisfies every set constraint.
func (f TaskFilter) Matches(t *Task) bool {
	if f.Status != "" && t.Status() != f.Status {
		return false
	}
	if f.Destination != "" && t.Destination() != f.Destination {
		return false
	}
	if f.StaffID != "" && t.AssignedStaffID() != f.StaffID {
		return false
	}
	if f.SKUID != "" && t.SKUID() != f.SKUID {
		return false
	}
	return true
}
