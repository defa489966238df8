package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
)

// defaultAuditLimit caps the audit log when the caller gives no limit.
const defaultAuditLimit = 50

// GetAuditLogQuery retrieves audit entries: one entity's full history when
// EntityID is set, otherwise the newest entries engine-wide.
type GetAuditLogQuery struct {
	EntityID string
	Limit    int
}

// GetAuditLogResponse carries audit entries.
type GetAuditLogResponse struct {
	Entries []*AuditEntryDTO `json:"entries"`
}

// AuditEntryDTO is the wire shape of one audit line.
type AuditEntryDTO struct {
	ID       string    `json:"id"`
	EntityID string    `json:"entityId"`
	Action   string    `json:"action"`
	Actor    string    `json:"actor"`
	Details  string    `json:"details,omitempty"`
	At       time.Time `json:"at"`
}

// GetAuditLogHandler answers the audit log read model.
type GetAuditLogHandler struct {
	trail audit.Trail
}

// NewGetAuditLogHandler creates the handler.
func NewGetAuditLogHandler(trail audit.Trail) *GetAuditLogHandler {
	return &GetAuditLogHandler{trail: trail}
}

// Handle executes the query.
func (h *GetAuditLogHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetAuditLogQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetAuditLogQuery")
	}

	var (
		entries []audit.Entry
		err     error
	)
	if query.EntityID != "" {
		entries, err = h.trail.FindEntriesFor(ctx, query.EntityID)
	} else {
		limit := query.Limit
		if limit <= 0 {
			limit = defaultAuditLimit
		}
		entries, err = h.trail.FindEntries(ctx, limit)
	}
	if err != nil {
		return nil, err
	}

	out := make([]*AuditEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, &AuditEntryDTO{
			ID:       entry.ID,
			EntityID: entry.EntityID,
			Action:   string(entry.Action),
			Actor:    entry.Actor,
			Details:  entry.Details,
			At:       entry.At,
		})
	}
	return &GetAuditLogResponse{Entries: out}, nil
}
