package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/ledger"
	"github.com/andrescamacho/floorsense-go/internal/domain/presence"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// syntheticEPCPrefix marks tags the engine invented for stock that arrived
// from outside the store, as opposed to tags a reader actually saw.
const syntheticEPCPrefix = "epc-syn-"

// TransferExecutor moves stock between locations. RFID stock moves as
// presence records (re-bound EPCs, logged as synthetic reads); NON_RFID
// stock moves as signed REPLENISHMENT ledger entries. External sources have
// no stock of their own: pulling from one synthesises RFID tags or credits
// the NON_RFID ledger out of thin air. Moves never write snapshots; the
// caller recomputes both ends afterwards.
type TransferExecutor struct {
	presence  presence.Repository
	mappings  catalog.EPCMappingRepository
	ledger    ledger.Repository
	locations layout.LocationRepository
	trail     audit.Trail
	params    shared.Params
}

// NewTransferExecutor creates the executor.
func NewTransferExecutor(
	presenceRepo presence.Repository,
	mappings catalog.EPCMappingRepository,
	ledgerRepo ledger.Repository,
	locations layout.LocationRepository,
	trail audit.Trail,
	params shared.Params,
) *TransferExecutor {
	return &TransferExecutor{
		presence:  presenceRepo,
		mappings:  mappings,
		ledger:    ledgerRepo,
		locations: locations,
		trail:     trail,
		params:    params,
	}
}

// Move transfers up to qty units of a SKU from sourceID to destinationID at
// the given cursor instant and returns how much actually moved. A zero
// return means the source had nothing to give.
func (t *TransferExecutor) Move(ctx context.Context, sourceID, destinationID, skuID string, source shared.Source, qty int, at time.Time) (int, error) {
	if qty <= 0 {
		return 0, nil
	}
	if shared.IsExternalLocationID(sourceID) {
		return t.moveExternal(ctx, destinationID, skuID, source, qty, at)
	}
	return t.moveInternal(ctx, sourceID, destinationID, skuID, source, qty, at)
}

// Synthesise invents qty new tagged units of an RFID SKU at a location:
// fresh EPCs mapped from the given instant, bound to the location's primary
// antenna and logged as synthetic reads.
func (t *TransferExecutor) Synthesise(ctx context.Context, locationID, skuID string, qty int, at time.Time) (int, error) {
	antennaID, err := t.primaryAntenna(ctx, locationID)
	if err != nil {
		return 0, err
	}
	for i := 0; i < qty; i++ {
		epc := syntheticEPCPrefix + uuid.New().String()
		if err := t.mappings.Register(ctx, catalog.NewEPCMapping(epc, skuID, at, nil)); err != nil {
			return i, err
		}
		if err := t.bind(ctx, epc, skuID, locationID, antennaID, at); err != nil {
			return i, err
		}
	}
	return qty, nil
}

func (t *TransferExecutor) moveExternal(ctx context.Context, destinationID, skuID string, source shared.Source, qty int, at time.Time) (int, error) {
	if source == shared.SourceRFID {
		return t.Synthesise(ctx, destinationID, skuID, qty, at)
	}
	if err := t.credit(ctx, destinationID, skuID, qty, at); err != nil {
		return 0, err
	}
	return qty, nil
}

func (t *TransferExecutor) moveInternal(ctx context.Context, sourceID, destinationID, skuID string, source shared.Source, qty int, at time.Time) (int, error) {
	if source == shared.SourceRFID {
		return t.moveEPCs(ctx, sourceID, destinationID, skuID, qty, at)
	}

	available, err := t.ledger.Quantity(ctx, sourceID, skuID)
	if err != nil {
		return 0, err
	}
	moved := min(qty, available)
	if moved == 0 {
		return 0, nil
	}
	if err := t.debit(ctx, sourceID, skuID, moved, at); err != nil {
		return 0, err
	}
	if err := t.credit(ctx, destinationID, skuID, moved, at); err != nil {
		return 0, err
	}
	return moved, nil
}

// moveEPCs re-binds the oldest-seen present tags at the source to the
// destination's primary antenna.
func (t *TransferExecutor) moveEPCs(ctx context.Context, sourceID, destinationID, skuID string, qty int, at time.Time) (int, error) {
	records, err := t.presence.FindBySKUAndLocation(ctx, skuID, sourceID)
	if err != nil {
		return 0, err
	}
	antennaID, err := t.primaryAntenna(ctx, destinationID)
	if err != nil {
		return 0, err
	}
	moved := 0
	for _, record := range records {
		if moved == qty {
			break
		}
		if !record.PresentAt(at, t.params.PresenceTTL) {
			continue
		}
		if err := t.bind(ctx, record.EPC, skuID, destinationID, antennaID, at); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// bind upserts a presence record and logs the synthetic read behind it.
func (t *TransferExecutor) bind(ctx context.Context, epc, skuID, locationID, antennaID string, at time.Time) error {
	err := t.presence.Upsert(ctx, presence.Record{
		EPC:        epc,
		SKUID:      skuID,
		LocationID: locationID,
		AntennaID:  antennaID,
		LastSeenAt: at.UTC(),
	})
	if err != nil {
		return err
	}
	return t.trail.AppendRead(ctx, audit.ReadRecord{
		EPC:        epc,
		SKUID:      skuID,
		LocationID: locationID,
		AntennaID:  antennaID,
		At:         at.UTC(),
		Synthetic:  true,
	})
}

func (t *TransferExecutor) credit(ctx context.Context, locationID, skuID string, qty int, at time.Time) error {
	entry, err := ledger.NewEntry(locationID, skuID, qty, ledger.EntryKindReplenishment, at)
	if err != nil {
		return err
	}
	_, err = t.ledger.Append(ctx, entry)
	return err
}

func (t *TransferExecutor) debit(ctx context.Context, locationID, skuID string, qty int, at time.Time) error {
	entry, err := ledger.NewEntry(locationID, skuID, -qty, ledger.EntryKindReplenishment, at)
	if err != nil {
		return err
	}
	_, err = t.ledger.Append(ctx, entry)
	return err
}

// primaryAntenna resolves where re-bound tags land. Locations without
// antennas (a back-room warehouse) still hold presence records, just with
// no antenna attached.
func (t *TransferExecutor) primaryAntenna(ctx context.Context, locationID string) (string, error) {
	location, err := t.locations.FindByID(ctx, locationID)
	if err != nil {
		return "", err
	}
	if antenna, ok := location.PrimaryAntenna(); ok {
		return antenna.ID(), nil
	}
	return "", nil
}
