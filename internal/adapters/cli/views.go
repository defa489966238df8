package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	viewQueries "github.com/andrescamacho/floorsense-go/internal/application/views/queries"
)

// NewDashboardCommand creates the dashboard command
func NewDashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Store-wide overview: one card per zone plus engine totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out viewQueries.GetDashboardResponse
			if err := newClient().getJSON("/api/dashboard", nil, &out); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out)
			}

			table := newTable()
			fmt.Fprintln(table, "ZONE\tNAME\tSALES\tSKUS\tTOTAL QTY\tLOW STOCK\tOPEN TASKS\tINBOUND")
			for _, card := range out.Locations {
				fmt.Fprintf(table, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
					card.ID, card.Name, yesNo(card.IsSales),
					card.SKUs, card.TotalQty, card.LowStockRules, card.OpenTasks, card.InTransitOrders)
			}
			if err := table.Flush(); err != nil {
				return err
			}
			fmt.Printf("\nopen tasks: %d  in-transit orders: %d  staff on shift: %d\n",
				out.OpenTasks, out.InTransitOrders, out.OnShiftStaff)
			return nil
		},
	}
}

// NewSKUCommand creates the sku command
func NewSKUCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sku",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out viewQueries.ListSKUsResponse
			if err := newClient().getJSON("/api/skus", nil, &out); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out)
			}

			table := newTable()
			fmt.Fprintln(table, "ID\tTITLE\tSOURCE\tROLE\tQUALITY\tPERSONALISABLE")
			for _, sku := range out.SKUs {
				fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\t%s\n",
					sku.ID, sku.Title, sku.Source,
					orDash(sku.Variant.Role), orDash(sku.Variant.Quality), yesNo(sku.Personalisable))
			}
			return table.Flush()
		},
	}
}

// NewFlowCommand creates the flow command
func NewFlowCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Show the engine event timeline, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			if limit > 0 {
				query["limit"] = strconv.Itoa(limit)
			}
			var out viewQueries.GetFlowTimelineResponse
			if err := newClient().getJSON("/api/flow", query, &out); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out)
			}

			table := newTable()
			fmt.Fprintln(table, "SEQ\tAT\tKIND\tSTATUS\tENTITY\tZONE\tSKU\tDETAILS")
			for _, event := range out.Events {
				fmt.Fprintf(table, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					event.Seq, fmtTime(event.At), event.Kind, event.Status,
					orDash(event.EntityID), orDash(event.LocationID), orDash(event.SKUID), orDash(event.Details))
			}
			return table.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of events, default 50")

	return cmd
}

// NewAuditCommand creates the audit command
func NewAuditCommand() *cobra.Command {
	var (
		entityID string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log",
		Long: `Show the audit log: newest entries engine-wide, or one entity's
full history with --entity.

Examples:
  floorsense audit
  floorsense audit --entity task-1234
  floorsense audit --limit 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			if entityID != "" {
				query["entity"] = entityID
			}
			if limit > 0 {
				query["limit"] = strconv.Itoa(limit)
			}
			var out viewQueries.GetAuditLogResponse
			if err := newClient().getJSON("/api/audit", query, &out); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out)
			}

			table := newTable()
			fmt.Fprintln(table, "AT\tENTITY\tACTION\tACTOR\tDETAILS")
			for _, entry := range out.Entries {
				fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n",
					fmtTime(entry.At), entry.EntityID, entry.Action, orDash(entry.Actor), orDash(entry.Details))
			}
			return table.Flush()
		},
	}

	cmd.Flags().StringVar(&entityID, "entity", "", "Only this entity's history")
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of entries, default 50")

	return cmd
}
