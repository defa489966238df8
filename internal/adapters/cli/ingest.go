package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// NewIngestCommand creates the ingest command with subcommands
func NewIngestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Feed reader and point-of-sale events into the engine",
		Long: `Feed RFID reads, POS events and zone sweeps into the engine.

These are the same payloads the reader bridge and the POS connector send;
the CLI form exists for demos, backfills and debugging.

Examples:
  floorsense ingest read --epc epc-1001 --antenna ant-a1
  floorsense ingest read --epc epc-1001 --antenna ant-a1 --at "2026-08-25T10:15:00Z"
  floorsense ingest sale --sku sku-scarf --zone zone-floor-b --qty 2
  floorsense ingest sale --sku sku-scarf --zone zone-floor-b --type RETURN
  floorsense ingest sweep zone-floor-a`,
	}

	cmd.AddCommand(newIngestReadCommand())
	cmd.AddCommand(newIngestSaleCommand())
	cmd.AddCommand(newIngestSweepCommand())

	return cmd
}

func newIngestReadCommand() *cobra.Command {
	var (
		epc       string
		antennaID string
		zoneID    string
		at        string
		rssi      float64
	)

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Ingest one RFID read",
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := parseTimestamp(at)
			if err != nil {
				return err
			}
			body := map[string]any{
				"epc":       epc,
				"antennaId": antennaID,
			}
			if zoneID != "" {
				body["locationId"] = zoneID
			}
			if ts != nil {
				body["timestamp"] = ts.UTC().Format(time.RFC3339Nano)
			}
			if cmd.Flags().Changed("rssi") {
				body["rssi"] = rssi
			}
			return newClient().postCommand("/api/ingest/reads", body)
		},
	}

	cmd.Flags().StringVar(&epc, "epc", "", "Tag EPC (required)")
	cmd.Flags().StringVar(&antennaID, "antenna", "", "Reporting antenna id (required)")
	cmd.Flags().StringVar(&zoneID, "zone", "", "Claimed zone id (must match the antenna's zone)")
	cmd.Flags().StringVar(&at, "at", "", "Event timestamp (default: daemon clock)")
	cmd.Flags().Float64Var(&rssi, "rssi", 0, "Signal strength")
	_ = cmd.MarkFlagRequired("epc")
	_ = cmd.MarkFlagRequired("antenna")

	return cmd
}

func newIngestSaleCommand() *cobra.Command {
	var (
		skuID     string
		zoneID    string
		eventType string
		qty       int
		at        string
	)

	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Ingest one POS event",
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := parseTimestamp(at)
			if err != nil {
				return err
			}
			body := map[string]any{
				"skuId":      skuID,
				"locationId": zoneID,
				"eventType":  eventType,
				"qty":        qty,
			}
			if ts != nil {
				body["timestamp"] = ts.UTC().Format(time.RFC3339Nano)
			}
			return newClient().postCommand("/api/ingest/sales", body)
		},
	}

	cmd.Flags().StringVar(&skuID, "sku", "", "SKU id (required)")
	cmd.Flags().StringVar(&zoneID, "zone", "", "Selling zone id (required)")
	cmd.Flags().StringVar(&eventType, "type", "SALE", "Event type: SALE or RETURN")
	cmd.Flags().IntVar(&qty, "qty", 1, "Units sold or returned")
	cmd.Flags().StringVar(&at, "at", "", "Event timestamp (default: daemon clock)")
	_ = cmd.MarkFlagRequired("sku")
	_ = cmd.MarkFlagRequired("zone")

	return cmd
}

func newIngestSweepCommand() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "sweep <zone-id>",
		Short: "Force a presence sweep of one zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := parseTimestamp(at)
			if err != nil {
				return err
			}
			body := map[string]any{}
			if ts != nil {
				body["timestamp"] = ts.UTC().Format(time.RFC3339Nano)
			}
			return newClient().postCommand("/api/zones/"+args[0]+"/sweep", body)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Sweep timestamp (default: daemon clock)")

	return cmd
}
