package audit

import "context"

// Trail stores audit entries, the flow timeline and the recent-reads
// buffer. Appends never fail business-wise; an error means the store itself
// broke.
type Trail interface {
	// AppendEntry stores an audit line
	AppendEntry(ctx context.Context, entry Entry) error

	// FindEntriesFor retrieves one entity's audit lines in append order
	FindEntriesFor(ctx context.Context, entityID string) ([]Entry, error)

	// FindEntries retrieves the newest audit lines, newest first, up to limit
	FindEntries(ctx context.Context, limit int) ([]Entry, error)

	// AppendFlow stores a timeline event, assigning its seq
	AppendFlow(ctx context.Context, event FlowEvent) error

	// FindFlow retrieves the newest timeline events, newest first, up to limit
	FindFlow(ctx context.Context, limit int) ([]FlowEvent, error)

	// AppendRead stores an accepted read in the recent-reads buffer
	AppendRead(ctx context.Context, record ReadRecord) error

	// FindRecentReads retrieves a location's newest reads, newest first
	FindRecentReads(ctx context.Context, locationID string, limit int) ([]ReadRecord, error)
}
