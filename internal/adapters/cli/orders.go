package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	viewQueries "github.com/andrescamacho/floorsense-go/internal/application/views/queries"
)

// NewOrderCommand creates the order command with subcommands
func NewOrderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage receiving orders",
		Long: `List, create and confirm receiving orders: planned stock moving
between zones or inbound from an external source. Confirming books the
arrival into the destination ledger.

Examples:
  floorsense order list --open
  floorsense order list --destination zone-backroom
  floorsense order create --from external-dc-north --to zone-backroom --sku sku-scarf --qty 20
  floorsense order confirm order-1234`,
	}

	cmd.AddCommand(newOrderListCommand())
	cmd.AddCommand(newOrderCreateCommand())
	cmd.AddCommand(newOrderConfirmCommand())

	return cmd
}

func newOrderListCommand() *cobra.Command {
	var (
		status      string
		destination string
		source      string
		staffID     string
		openOnly    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List receiving orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			if status != "" {
				query["status"] = status
			}
			if destination != "" {
				query["destination"] = destination
			}
			if source != "" {
				query["source"] = source
			}
			if staffID != "" {
				query["staff"] = staffID
			}
			if openOnly {
				query["open"] = "true"
			}
			var out viewQueries.ListOrdersResponse
			if err := newClient().getJSON("/api/orders", query, &out); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out)
			}

			table := newTable()
			fmt.Fprintln(table, "ID\tFROM\tTO\tSKU\tREQUESTED\tSTATUS\tEXTERNAL\tCONFTD\tCREATED")
			for _, order := range out.Orders {
				fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
					order.ID,
					order.SourceID,
					order.DestinationID,
					order.SKUID,
					order.RequestedQty,
					order.Status,
					yesNo(order.External),
					fmtIntPtr(order.ConfirmedQty),
					fmtTime(order.CreatedAt),
				)
			}
			return table.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "IN_TRANSIT, CONFIRMED or CANCELLED")
	cmd.Flags().StringVar(&destination, "destination", "", "Only orders heading to this zone")
	cmd.Flags().StringVar(&source, "source", "", "Only orders coming out of this source")
	cmd.Flags().StringVar(&staffID, "staff", "", "Only orders assigned to this member")
	cmd.Flags().BoolVar(&openOnly, "open", false, "Only in-transit orders")

	return cmd
}

func newOrderCreateCommand() *cobra.Command {
	var (
		from   string
		to     string
		skuID  string
		source string
		qty    int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a receiving order",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"sourceId":      from,
				"destinationId": to,
				"skuId":         skuID,
				"requestedQty":  qty,
			}
			if source != "" {
				body["source"] = source
			}
			return newClient().postCommand("/api/orders", body)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source zone or external id (required)")
	cmd.Flags().StringVar(&to, "to", "", "Destination zone id (required)")
	cmd.Flags().StringVar(&skuID, "sku", "", "SKU id (required)")
	cmd.Flags().StringVar(&source, "source", "", "RFID or NON_RFID, defaults to the SKU's own source")
	cmd.Flags().IntVar(&qty, "qty", 0, "Requested units")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("sku")

	return cmd
}

func newOrderConfirmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <order-id>",
		Short: "Confirm an arrival and book the movement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().postCommand("/api/orders/"+args[0]+"/confirm", map[string]any{})
		},
	}
}
