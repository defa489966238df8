package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
)

// defaultReadLimit caps the recent-reads section of the zone detail.
const defaultReadLimit = 20

// GetZoneDetailQuery retrieves everything known about one zone.
type GetZoneDetailQuery struct {
	LocationID string
	ReadLimit  int
}

// GetZoneDetailResponse is the zone drill-down: stock rows, live rules, the
// open work heading there and the latest reads its antennas produced.
type GetZoneDetailResponse struct {
	Location    *LocationDTO   `json:"location"`
	Snapshots   []*SnapshotDTO `json:"snapshots"`
	Rules       []*RuleDTO     `json:"rules"`
	OpenTasks   []*TaskDTO     `json:"openTasks"`
	RecentReads []*ReadDTO     `json:"recentReads"`
}

// SnapshotDTO is the wire shape of a stock snapshot row.
type SnapshotDTO struct {
	LocationID string    `json:"locationId"`
	SKUID      string    `json:"skuId"`
	Source     string    `json:"source"`
	Qty        int       `json:"qty"`
	Confidence *float64  `json:"confidence,omitempty"`
	Version    uint64    `json:"version"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ReadDTO is the wire shape of one recent read.
type ReadDTO struct {
	EPC        string    `json:"epc"`
	SKUID      string    `json:"skuId"`
	LocationID string    `json:"locationId"`
	AntennaID  string    `json:"antennaId,omitempty"`
	At         time.Time `json:"at"`
	RSSI       *float64  `json:"rssi,omitempty"`
	Synthetic  bool      `json:"synthetic"`
}

// GetZoneDetailHandler answers the zone detail read model.
type GetZoneDetailHandler struct {
	locations layout.LocationRepository
	snapshots snapshot.Repository
	registry  rules.RuleRepository
	tasks     replenishment.TaskRepository
	trail     audit.Trail
}

// NewGetZoneDetailHandler creates the handler.
func NewGetZoneDetailHandler(
	locations layout.LocationRepository,
	snapshots snapshot.Repository,
	registry rules.RuleRepository,
	tasks replenishment.TaskRepository,
	trail audit.Trail,
) *GetZoneDetailHandler {
	return &GetZoneDetailHandler{
		locations: locations,
		snapshots: snapshots,
		registry:  registry,
		tasks:     tasks,
		trail:     trail,
	}
}

// Handle executes the query. A missing zone surfaces as the layout domain's
// not-found error for the transport layer to map.
func (h *GetZoneDetailHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetZoneDetailQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetZoneDetailQuery")
	}

	location, err := h.locations.FindByID(ctx, query.LocationID)
	if err != nil {
		return nil, err
	}

	rows, err := h.snapshots.FindByLocation(ctx, location.ID())
	if err != nil {
		return nil, err
	}
	zoneRules, err := h.registry.FindByLocation(ctx, location.ID())
	if err != nil {
		return nil, err
	}
	open, err := h.tasks.FindOpen(ctx)
	if err != nil {
		return nil, err
	}

	limit := query.ReadLimit
	if limit <= 0 {
		limit = defaultReadLimit
	}
	reads, err := h.trail.FindRecentReads(ctx, location.ID(), limit)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*SnapshotDTO, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, toSnapshotDTO(row))
	}
	ruleDTOs := make([]*RuleDTO, 0, len(zoneRules))
	for _, rule := range zoneRules {
		ruleDTOs = append(ruleDTOs, toRuleDTO(rule))
	}
	taskDTOs := make([]*TaskDTO, 0)
	for _, task := range open {
		if task.Destination() == location.ID() {
			taskDTOs = append(taskDTOs, toTaskDTO(task))
		}
	}
	readDTOs := make([]*ReadDTO, 0, len(reads))
	for _, read := range reads {
		readDTOs = append(readDTOs, toReadDTO(read))
	}

	return &GetZoneDetailResponse{
		Location:    toLocationDTO(location),
		Snapshots:   snapshots,
		Rules:       ruleDTOs,
		OpenTasks:   taskDTOs,
		RecentReads: readDTOs,
	}, nil
}

func toSnapshotDTO(row snapshot.Snapshot) *SnapshotDTO {
	var confidence *float64
	if c := row.Confidence(); c != nil {
		v, _ := c.Float64()
		confidence = &v
	}
	return &SnapshotDTO{
		LocationID: row.LocationID(),
		SKUID:      row.SKUID(),
		Source:     string(row.Source()),
		Qty:        row.Qty(),
		Confidence: confidence,
		Version:    row.Version(),
		UpdatedAt:  row.LastCalculatedAt(),
	}
}

func toReadDTO(read audit.ReadRecord) *ReadDTO {
	return &ReadDTO{
		EPC:        read.EPC,
		SKUID:      read.SKUID,
		LocationID: read.LocationID,
		AntennaID:  read.AntennaID,
		At:         read.At,
		RSSI:       read.RSSI,
		Synthetic:  read.Synthetic,
	}
}
