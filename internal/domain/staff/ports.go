package staff

import "context"

// Repository stores staff members.
type Repository interface {
	// Save persists a member, replacing any previous version of the id
	Save(ctx context.Context, member *Member) error

	// FindByID retrieves a member by id
	FindByID(ctx context.Context, id string) (*Member, error)

	// FindAll retrieves every member in id order
	FindAll(ctx context.Context) ([]*Member, error)

	// FindOnShift retrieves the active members in id order
	FindOnShift(ctx context.Context) ([]*Member, error)
}

// ErrMemberNotFound indicates a staff id is not registered
type ErrMemberNotFound struct {
	StaffID string
}

func (e *ErrMemberNotFound) Error() string {
	return "staff member not found: " + e.StaffID
}
