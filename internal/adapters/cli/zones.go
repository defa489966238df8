package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	viewQueries "github.com/andrescamacho/floorsense-go/internal/application/views/queries"
)

// NewZoneCommand creates the zone command with subcommands
func NewZoneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zone",
		Short: "Manage store zones and external sources",
		Long: `Manage the store floor: zones, their antennas and replenishment
sources, and the external source registry.

Examples:
  floorsense zone list
  floorsense zone show zone-floor-a
  floorsense zone show zone-floor-a --reads 20
  floorsense zone create --id zone-floor-c --name "Floor C" --sales --source zone-backroom --antenna ant-c1
  floorsense zone update zone-floor-c --name "Floor C - Kids"
  floorsense zone delete zone-floor-c
  floorsense zone external register --id external-dc-south --label "South DC"
  floorsense zone external remove external-dc-south`,
	}

	cmd.AddCommand(newZoneListCommand())
	cmd.AddCommand(newZoneShowCommand())
	cmd.AddCommand(newZoneCreateCommand())
	cmd.AddCommand(newZoneUpdateCommand())
	cmd.AddCommand(newZoneDeleteCommand())
	cmd.AddCommand(newZoneExternalCommand())

	return cmd
}

func newZoneListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List zones and external sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out viewQueries.ListLocationsResponse
			if err := newClient().getJSON("/api/zones", nil, &out); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out)
			}

			table := newTable()
			fmt.Fprintln(table, "ID\tNAME\tSALES\tSOURCES\tANTENNAS")
			for _, zone := range out.Locations {
				fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n",
					zone.ID,
					zone.Name,
					yesNo(zone.IsSales),
					orDash(strings.Join(zone.Sources, ",")),
					orDash(strings.Join(zone.Antennas, ",")),
				)
			}
			if err := table.Flush(); err != nil {
				return err
			}

			if len(out.Externals) > 0 {
				fmt.Println()
				fmt.Println("External sources:")
				for id, label := range out.Externals {
					fmt.Printf("  %s\t%s\n", id, label)
				}
			}
			return nil
		},
	}
}

func newZoneShowCommand() *cobra.Command {
	var reads int

	cmd := &cobra.Command{
		Use:   "show <zone-id>",
		Short: "Show one zone: snapshots, rules, open tasks, recent reads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			if reads > 0 {
				query["reads"] = fmt.Sprintf("%d", reads)
			}
			var out viewQueries.GetZoneDetailResponse
			if err := newClient().getJSON("/api/zones/"+args[0], query, &out); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out)
			}

			zone := out.Location
			fmt.Printf("%s  (%s)\n", zone.ID, zone.Name)
			fmt.Printf("sales: %s  sources: %s  antennas: %s\n\n",
				yesNo(zone.IsSales),
				orDash(strings.Join(zone.Sources, ",")),
				orDash(strings.Join(zone.Antennas, ",")),
			)

			table := newTable()
			fmt.Fprintln(table, "SKU\tSOURCE\tQTY\tCONFIDENCE\tVERSION\tUPDATED")
			for _, row := range out.Snapshots {
				confidence := "-"
				if row.Confidence != nil {
					confidence = fmt.Sprintf("%.2f", *row.Confidence)
				}
				fmt.Fprintf(table, "%s\t%s\t%d\t%s\t%d\t%s\n",
					row.SKUID, row.Source, row.Qty, confidence, row.Version, fmtTime(row.UpdatedAt))
			}
			if err := table.Flush(); err != nil {
				return err
			}

			if len(out.Rules) > 0 {
				fmt.Println()
				table = newTable()
				fmt.Fprintln(table, "RULE\tSKU\tSOURCE\tMIN\tMAX\tTEMPLATE")
				for _, rule := range out.Rules {
					fmt.Fprintf(table, "%s\t%s\t%s\t%d\t%d\t%s\n",
						rule.ID, rule.SKUID, rule.Source, rule.Min, rule.Max, rule.TemplateID)
				}
				if err := table.Flush(); err != nil {
					return err
				}
			}

			if len(out.OpenTasks) > 0 {
				fmt.Println()
				table = newTable()
				fmt.Fprintln(table, "TASK\tSKU\tSTATUS\tDEFICIT\tASSIGNED")
				for _, task := range out.OpenTasks {
					fmt.Fprintf(table, "%s\t%s\t%s\t%d\t%s\n",
						task.ID, task.SKUID, task.Status, task.DeficitQty, orDash(task.AssignedStaffID))
				}
				if err := table.Flush(); err != nil {
					return err
				}
			}

			if len(out.RecentReads) > 0 {
				fmt.Println()
				table = newTable()
				fmt.Fprintln(table, "EPC\tSKU\tANTENNA\tAT\tSYNTHETIC")
				for _, read := range out.RecentReads {
					fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n",
						read.EPC, read.SKUID, orDash(read.AntennaID), fmtTime(read.At), yesNo(read.Synthetic))
				}
				if err := table.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&reads, "reads", 0, "Number of recent reads to include")

	return cmd
}

func newZoneCreateCommand() *cobra.Command {
	var (
		id       string
		name     string
		polygon  string
		colour   string
		isSales  bool
		sources  []string
		antennas []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a zone",
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := parsePolygon(polygon)
			if err != nil {
				return err
			}
			return newClient().postCommand("/api/zones", map[string]any{
				"id":         id,
				"name":       name,
				"polygon":    points,
				"colour":     colour,
				"isSales":    isSales,
				"sources":    sources,
				"antennaIds": antennas,
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Zone id (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&polygon, "polygon", "", "Floor outline as x,y;x,y;...")
	cmd.Flags().StringVar(&colour, "colour", "", "Display colour")
	cmd.Flags().BoolVar(&isSales, "sales", false, "Customers shop here")
	cmd.Flags().StringSliceVar(&sources, "source", nil, "Replenishment source in preference order (repeatable)")
	cmd.Flags().StringSliceVar(&antennas, "antenna", nil, "Owned antenna id (repeatable, first is primary)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newZoneUpdateCommand() *cobra.Command {
	var (
		name     string
		polygon  string
		colour   string
		isSales  bool
		sources  []string
		antennas []string
	)

	cmd := &cobra.Command{
		Use:   "update <zone-id>",
		Short: "Update a zone; only provided flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			if cmd.Flags().Changed("name") {
				body["name"] = name
			}
			if cmd.Flags().Changed("polygon") {
				points, err := parsePolygon(polygon)
				if err != nil {
					return err
				}
				body["polygon"] = points
			}
			if cmd.Flags().Changed("colour") {
				body["colour"] = colour
			}
			if cmd.Flags().Changed("sales") {
				body["isSales"] = isSales
			}
			if cmd.Flags().Changed("source") {
				body["sources"] = sources
			}
			if cmd.Flags().Changed("antenna") {
				body["antennaIds"] = antennas
			}
			resp, err := newClient().http.R().SetBody(body).Patch("/api/zones/" + args[0])
			if err != nil {
				return fmt.Errorf("failed to reach daemon at %s: %w", serverURL, err)
			}
			return printCommandOutcome(resp)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&polygon, "polygon", "", "Floor outline as x,y;x,y;...")
	cmd.Flags().StringVar(&colour, "colour", "", "Display colour")
	cmd.Flags().BoolVar(&isSales, "sales", false, "Customers shop here")
	cmd.Flags().StringSliceVar(&sources, "source", nil, "Replace the source list (repeatable)")
	cmd.Flags().StringSliceVar(&antennas, "antenna", nil, "Replace the antenna list (repeatable)")

	return cmd
}

func newZoneDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <zone-id>",
		Short: "Delete a zone and everything scoped to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().http.R().Delete("/api/zones/" + args[0])
			if err != nil {
				return fmt.Errorf("failed to reach daemon at %s: %w", serverURL, err)
			}
			return printCommandOutcome(resp)
		},
	}
}

func newZoneExternalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "external",
		Short: "Manage the external source registry",
	}

	var (
		id    string
		label string
	)
	register := &cobra.Command{
		Use:   "register",
		Short: "Register an external source id",
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().postCommand("/api/externals", map[string]any{
				"id":    id,
				"label": label,
			})
		},
	}
	register.Flags().StringVar(&id, "id", "", "External id, must carry the external- prefix (required)")
	register.Flags().StringVar(&label, "label", "", "Display label")
	_ = register.MarkFlagRequired("id")

	remove := &cobra.Command{
		Use:   "remove <external-id>",
		Short: "Remove an external source id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().http.R().Delete("/api/externals/" + args[0])
			if err != nil {
				return fmt.Errorf("failed to reach daemon at %s: %w", serverURL, err)
			}
			return printCommandOutcome(resp)
		},
	}

	cmd.AddCommand(register)
	cmd.AddCommand(remove)
	return cmd
}
