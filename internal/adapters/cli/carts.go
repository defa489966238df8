package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	viewQueries "github.com/andrescamacho/floorsense-go/internal/application/views/queries"
)

// NewCartCommand creates the cart command with subcommands
func NewCartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage customer carts and checkout",
		Long: `Inspect and drive customer carts. Adding an RFID item opens a
pending pick that the next matching antenna read consumes; checkout
sells every line and routes personalisable units through the cashier
staging area.

Examples:
  floorsense cart show cust-42
  floorsense cart add --customer cust-42 --zone zone-floor-a --sku sku-home-jsy
  floorsense cart add --customer cust-42 --zone zone-floor-a --sku sku-scarf --qty 2
  floorsense cart remove item-1234
  floorsense cart checkout cust-42`,
	}

	cmd.AddCommand(newCartShowCommand())
	cmd.AddCommand(newCartAddCommand())
	cmd.AddCommand(newCartRemoveCommand())
	cmd.AddCommand(newCartCheckoutCommand())

	return cmd
}

func newCartShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <customer-id>",
		Short: "Show a customer's open cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out viewQueries.GetBasketResponse
			if err := newClient().getJSON("/api/cart/"+args[0], nil, &out); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out)
			}

			fmt.Printf("cart for %s\n", out.CustomerID)
			if len(out.Items) == 0 {
				fmt.Println("(empty)")
				return nil
			}
			table := newTable()
			fmt.Fprintln(table, "ITEM\tZONE\tSKU\tSOURCE\tQTY\tPICKED\tPENDING\tADDED")
			for _, item := range out.Items {
				fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					item.ID, item.LocationID, item.SKUID, item.Source,
					item.Qty, item.PickedQty, item.PickRemaining, fmtTime(item.AddedAt))
			}
			return table.Flush()
		},
	}
}

func newCartAddCommand() *cobra.Command {
	var (
		customerID string
		zoneID     string
		skuID      string
		qty        int
		at         string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to a customer's cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"customerId": customerID,
				"locationId": zoneID,
				"skuId":      skuID,
				"qty":        qty,
			}
			when, err := parseTimestamp(at)
			if err != nil {
				return err
			}
			if when != nil {
				body["timestamp"] = when.UTC().Format(time.RFC3339Nano)
			}
			return newClient().postCommand("/api/cart/items", body)
		},
	}

	cmd.Flags().StringVar(&customerID, "customer", "", "Customer id (required)")
	cmd.Flags().StringVar(&zoneID, "zone", "", "Zone the item is taken from (required)")
	cmd.Flags().StringVar(&skuID, "sku", "", "SKU id (required)")
	cmd.Flags().IntVar(&qty, "qty", 1, "Units")
	cmd.Flags().StringVar(&at, "at", "", "Event time, RFC 3339 or YYYY-MM-DD HH:MM:SS")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("zone")
	_ = cmd.MarkFlagRequired("sku")

	return cmd
}

func newCartRemoveCommand() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove a cart item and cancel its pending pick",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			when, err := parseTimestamp(at)
			if err != nil {
				return err
			}
			if when != nil {
				body["timestamp"] = when.UTC().Format(time.RFC3339Nano)
			}
			return newClient().postCommand("/api/cart/items/"+args[0]+"/remove", body)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Event time, RFC 3339 or YYYY-MM-DD HH:MM:SS")

	return cmd
}

func newCartCheckoutCommand() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "checkout <customer-id>",
		Short: "Sell every line in the customer's cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"customerId": args[0],
			}
			when, err := parseTimestamp(at)
			if err != nil {
				return err
			}
			if when != nil {
				body["timestamp"] = when.UTC().Format(time.RFC3339Nano)
			}
			return newClient().postCommand("/api/cart/checkout", body)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Event time, RFC 3339 or YYYY-MM-DD HH:MM:SS")

	return cmd
}
