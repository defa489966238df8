package dataset

import (
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
)

// Demo returns the built-in demonstration store: two sales zones and a
// backroom wired to one distribution centre, a small football-kit catalog
// with tagged jerseys and untagged accessories, and a three-person roster.
// It is the dataset the daemon boots with when no path is configured, and
// the fixture the acceptance suite leans on.
func Demo() *Store {
	return &Store{
		Locations: []Location{
			{
				ID:      "zone-floor-a",
				Name:    "Floor A - Match Kits",
				Polygon: []layout.Point{{X: 0, Y: 0}, {X: 12, Y: 0}, {X: 12, Y: 8}, {X: 0, Y: 8}},
				Colour:  "#1565c0",
				IsSales: true,
				Sources: []string{"zone-backroom", "external-dc-north"},
				Antennas: []string{
					"ant-a1",
					"ant-a2",
				},
			},
			{
				ID:      "zone-floor-b",
				Name:    "Floor B - Supporter Gear",
				Polygon: []layout.Point{{X: 12, Y: 0}, {X: 24, Y: 0}, {X: 24, Y: 8}, {X: 12, Y: 8}},
				Colour:  "#2e7d32",
				IsSales: true,
				Sources: []string{"zone-backroom"},
				Antennas: []string{
					"ant-b1",
				},
			},
			{
				ID:      "zone-backroom",
				Name:    "Backroom",
				Polygon: []layout.Point{{X: 0, Y: 8}, {X: 24, Y: 8}, {X: 24, Y: 14}, {X: 0, Y: 14}},
				Colour:  "#6d4c41",
				IsSales: false,
				Sources: []string{"external-dc-north"},
				Antennas: []string{
					"ant-br1",
				},
			},
		},
		Externals: []External{
			{ID: "external-dc-north", Label: "North Distribution Centre"},
		},
		SKUs: []SKU{
			{
				ID:     "sku-home-jsy",
				Source: "RFID",
				Title:  "Home JSY 24/25",
				Variant: catalog.Variant{
					Kit: "home", AgeGroup: "adult", Gender: "men", Role: "player", Quality: "match",
				},
			},
			{
				ID:     "sku-away-jsy",
				Source: "RFID",
				Title:  "Away JSY 24/25",
				Variant: catalog.Variant{
					Kit: "away", AgeGroup: "adult", Gender: "men", Role: "player", Quality: "match",
				},
			},
			{
				ID:     "sku-gk-jsy",
				Source: "RFID",
				Title:  "Goalkeeper JSY 24/25",
				Variant: catalog.Variant{
					Kit: "home", AgeGroup: "adult", Gender: "men", Role: "goalkeeper", Quality: "match",
				},
			},
			{
				ID:     "sku-scarf",
				Source: "NON_RFID",
				Title:  "Supporter Scarf",
				Variant: catalog.Variant{
					Kit: "home", AgeGroup: "adult", Gender: "unisex", Quality: "fan",
				},
			},
			{
				ID:     "sku-socks",
				Source: "NON_RFID",
				Title:  "Match Socks",
				Variant: catalog.Variant{
					Kit: "home", AgeGroup: "adult", Gender: "unisex", Quality: "match",
				},
			},
		},
		Mappings: []Mapping{
			{EPC: "epc-1001", SKUID: "sku-home-jsy"},
			{EPC: "epc-1002", SKUID: "sku-home-jsy"},
			{EPC: "epc-1003", SKUID: "sku-home-jsy"},
			{EPC: "epc-1004", SKUID: "sku-home-jsy"},
			{EPC: "epc-1005", SKUID: "sku-home-jsy"},
			{EPC: "epc-2001", SKUID: "sku-away-jsy"},
			{EPC: "epc-2002", SKUID: "sku-away-jsy"},
			{EPC: "epc-2003", SKUID: "sku-away-jsy"},
			{EPC: "epc-3001", SKUID: "sku-gk-jsy"},
			{EPC: "epc-3002", SKUID: "sku-gk-jsy"},
		},
		Baselines: []Baseline{
			{LocationID: "zone-floor-a", SKUID: "sku-socks", Qty: 6},
			{LocationID: "zone-floor-b", SKUID: "sku-scarf", Qty: 10},
			{LocationID: "zone-backroom", SKUID: "sku-scarf", Qty: 40},
			{LocationID: "zone-backroom", SKUID: "sku-socks", Qty: 24},
		},
		Templates: []Template{
			{
				ID:       "tpl-floor-a-home-jsy",
				Scope:    "LOCATION",
				ZoneID:   "zone-floor-a",
				Selector: "SKU",
				SKUID:    "sku-home-jsy",
				Min:      3,
				Max:      8,
				Priority: 10,
			},
			{
				ID:         "tpl-match-kit",
				Scope:      "GENERIC",
				Selector:   "ATTRIBUTES",
				Attributes: catalog.AttributeFilter{Quality: "match"},
				Min:        2,
				Max:        6,
				Priority:   1,
			},
			{
				ID:              "tpl-backroom-scarves",
				Scope:           "LOCATION",
				ZoneID:          "zone-backroom",
				Selector:        "SKU",
				SKUID:           "sku-scarf",
				Min:             20,
				Max:             60,
				Priority:        5,
				InboundSourceID: "external-dc-north",
			},
		},
		Staff: []Member{
			{ID: "staff-amara", Name: "Amara Okafor", Role: "ASSOCIATE", OnShift: true, ScopeAll: true},
			{ID: "staff-jonas", Name: "Jonas Lindqvist", Role: "ASSOCIATE", OnShift: true, Zones: []string{"zone-floor-a", "zone-backroom"}},
			{ID: "staff-priya", Name: "Priya Natarajan", Role: "SUPERVISOR", OnShift: false, ScopeAll: true},
		},
	}
}
