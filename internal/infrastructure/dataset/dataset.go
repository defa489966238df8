package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/application/setup"
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/ledger"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/staff"
)

// Store is the JSON shape of a seed dataset: the full physical and
// commercial description of one store at boot. Everything here lands in the
// engine's repositories before the first rule projection runs.
type Store struct {
	Locations []Location `json:"locations"`
	Externals []External `json:"externals"`
	SKUs      []SKU      `json:"skus"`
	Mappings  []Mapping  `json:"epcMappings"`
	Baselines []Baseline `json:"baselines"`
	Templates []Template `json:"ruleTemplates"`
	Staff     []Member   `json:"staff"`
}

// Location seeds one zone with its antennas.
type Location struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Polygon  []layout.Point `json:"polygon,omitempty"`
	Colour   string         `json:"colour"`
	IsSales  bool           `json:"isSales"`
	Sources  []string       `json:"sources,omitempty"`
	Antennas []string       `json:"antennas,omitempty"`
}

// External seeds one external replenishment source id.
type External struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// SKU seeds one catalog entry.
type SKU struct {
	ID      string          `json:"id"`
	Source  string          `json:"source"`
	Title   string          `json:"title"`
	Variant catalog.Variant `json:"variant"`
}

// Mapping seeds one EPC association window. A missing activeFrom means the
// beginning of time; a missing activeTo leaves the window open.
type Mapping struct {
	EPC        string     `json:"epc"`
	SKUID      string     `json:"skuId"`
	ActiveFrom *time.Time `json:"activeFrom,omitempty"`
	ActiveTo   *time.Time `json:"activeTo,omitempty"`
}

// Baseline seeds the trusted NON_RFID count for a (location, SKU) key.
type Baseline struct {
	LocationID string `json:"locationId"`
	SKUID      string `json:"skuId"`
	Qty        int    `json:"qty"`
}

// Template seeds one min/max rule template.
type Template struct {
	ID              string                  `json:"id"`
	Scope           string                  `json:"scope"`
	ZoneID          string                  `json:"zoneId,omitempty"`
	Selector        string                  `json:"selector"`
	SKUID           string                  `json:"skuId,omitempty"`
	Attributes      catalog.AttributeFilter `json:"attributes,omitempty"`
	Min             int                     `json:"min"`
	Max             int                     `json:"max"`
	Priority        int                     `json:"priority"`
	InboundSourceID string                  `json:"inboundSourceId,omitempty"`
}

// Member seeds one staff roster entry.
type Member struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Role     string   `json:"role"`
	OnShift  bool     `json:"onShift"`
	ScopeAll bool     `json:"scopeAll"`
	Zones    []string `json:"zones,omitempty"`
}

// Load reads a dataset file. An empty path returns the built-in demo store.
func Load(path string) (*Store, error) {
	if path == "" {
		return Demo(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}
	return &store, nil
}

// Apply seeds the engine's stores from the dataset. Locations land first so
// later sections can reference them; templates land last so Bootstrap's
// projection sees the complete floor. Apply does not project or recompute;
// call engine.Bootstrap afterwards.
func Apply(ctx context.Context, engine *setup.Engine, store *Store, at time.Time) error {
	for _, loc := range store.Locations {
		if shared.IsReservedLocationID(loc.ID) {
			return fmt.Errorf("dataset location %s: reserved zone ids cannot be seeded", loc.ID)
		}
		antennas := make([]layout.Antenna, 0, len(loc.Antennas))
		for _, antennaID := range loc.Antennas {
			antennas = append(antennas, layout.NewAntenna(antennaID, loc.ID))
		}
		zone := layout.NewLocation(loc.ID, loc.Name, loc.Polygon, loc.Colour, loc.IsSales, loc.Sources, antennas, at)
		if err := engine.Locations.Create(ctx, zone); err != nil {
			return fmt.Errorf("dataset location %s: %w", loc.ID, err)
		}
	}

	for _, ext := range store.Externals {
		if !shared.IsExternalLocationID(ext.ID) {
			return fmt.Errorf("dataset external %s: id must carry the external- prefix", ext.ID)
		}
		if err := engine.Externals.Register(ctx, ext.ID, ext.Label); err != nil {
			return fmt.Errorf("dataset external %s: %w", ext.ID, err)
		}
	}

	for _, entry := range store.SKUs {
		source, err := shared.ParseSource(entry.Source)
		if err != nil {
			return fmt.Errorf("dataset sku %s: %w", entry.ID, err)
		}
		sku := catalog.NewSKU(entry.ID, source, entry.Title, entry.Variant)
		if err := engine.SKUs.Create(ctx, sku); err != nil {
			return fmt.Errorf("dataset sku %s: %w", entry.ID, err)
		}
	}

	for _, m := range store.Mappings {
		from := time.Time{}
		if m.ActiveFrom != nil {
			from = *m.ActiveFrom
		}
		mapping := catalog.NewEPCMapping(m.EPC, m.SKUID, from, m.ActiveTo)
		if err := engine.Mappings.Register(ctx, mapping); err != nil {
			return fmt.Errorf("dataset mapping %s: %w", m.EPC, err)
		}
	}

	for _, b := range store.Baselines {
		baseline := ledger.Baseline{
			LocationID: b.LocationID,
			SKUID:      b.SKUID,
			Qty:        b.Qty,
			At:         at,
		}
		if err := engine.Ledger.SetBaseline(ctx, baseline); err != nil {
			return fmt.Errorf("dataset baseline %s/%s: %w", b.LocationID, b.SKUID, err)
		}
	}

	for _, t := range store.Templates {
		template, err := rules.NewTemplate(
			t.ID,
			rules.TemplateScope(t.Scope),
			t.ZoneID,
			rules.TemplateSelector(t.Selector),
			t.SKUID,
			t.Attributes,
			t.Min,
			t.Max,
			t.Priority,
			t.InboundSourceID,
			at,
		)
		if err != nil {
			return fmt.Errorf("dataset template %s: %w", t.ID, err)
		}
		if err := engine.Templates.Save(ctx, template); err != nil {
			return fmt.Errorf("dataset template %s: %w", template.ID(), err)
		}
	}

	for _, m := range store.Staff {
		role, err := staff.ParseRole(m.Role)
		if err != nil {
			return fmt.Errorf("dataset staff %s: %w", m.ID, err)
		}
		scope := staff.Scope{All: m.ScopeAll, LocationIDs: m.Zones}
		member := staff.NewMember(m.ID, m.Name, role, m.OnShift, scope)
		if err := engine.Staff.Save(ctx, member); err != nil {
			return fmt.Errorf("dataset staff %s: %w", m.ID, err)
		}
	}

	return nil
}
