package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	viewQueries "github.com/andrescamacho/floorsense-go/internal/application/views/queries"
)

// NewStaffCommand creates the staff command with subcommands
func NewStaffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff members, shifts and zone scopes",
		Long: `Manage the staff roster. Members on shift are eligible for
auto-assignment of new tasks and inbound orders, restricted to the
zones in their scope.

Examples:
  floorsense staff list
  floorsense staff list --on-shift
  floorsense staff upsert --id staff-amara --name "Amara O." --role associate --on-shift --all-zones
  floorsense staff upsert --name "Jonas K." --role associate --zone zone-floor-a --zone zone-backroom
  floorsense staff shift staff-amara --off
  floorsense staff scope staff-jonas --zone zone-floor-b`,
	}

	cmd.AddCommand(newStaffListCommand())
	cmd.AddCommand(newStaffUpsertCommand())
	cmd.AddCommand(newStaffShiftCommand())
	cmd.AddCommand(newStaffScopeCommand())

	return cmd
}

func newStaffListCommand() *cobra.Command {
	var onShift bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staff members with their current load",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			if onShift {
				query["onShift"] = "true"
			}
			var out viewQueries.ListStaffResponse
			if err := newClient().getJSON("/api/staff", query, &out); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out)
			}

			table := newTable()
			fmt.Fprintln(table, "ID\tNAME\tROLE\tON SHIFT\tSCOPE\tLOAD")
			for _, member := range out.Members {
				scope := "all zones"
				if !member.ScopeAll {
					scope = orDash(strings.Join(member.Zones, ","))
				}
				fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\t%d\n",
					member.ID, member.Name, member.Role, yesNo(member.OnShift), scope, member.Load)
			}
			return table.Flush()
		},
	}

	cmd.Flags().BoolVar(&onShift, "on-shift", false, "Only members currently on shift")

	return cmd
}

func newStaffUpsertCommand() *cobra.Command {
	var (
		id       string
		name     string
		role     string
		onShift  bool
		allZones bool
		zones    []string
	)

	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Create or update a staff member",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"name":    name,
				"role":    role,
				"onShift": onShift,
				"scope": map[string]any{
					"all":         allZones || len(zones) == 0,
					"locationIds": zones,
				},
			}
			if id != "" {
				body["id"] = id
			}
			return newClient().postCommand("/api/staff", body)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Member id; omit to create")
	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&role, "role", "associate", "associate or supervisor")
	cmd.Flags().BoolVar(&onShift, "on-shift", false, "Start the member on shift")
	cmd.Flags().BoolVar(&allZones, "all-zones", false, "Scope covers every zone")
	cmd.Flags().StringSliceVar(&zones, "zone", nil, "Scoped zone id (repeatable)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newStaffShiftCommand() *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "shift <staff-id>",
		Short: "Put a member on shift, or off with --off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().postCommand("/api/staff/"+args[0]+"/shift", map[string]any{
				"onShift": !off,
			})
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Take the member off shift")

	return cmd
}

func newStaffScopeCommand() *cobra.Command {
	var (
		allZones bool
		zones    []string
	)

	cmd := &cobra.Command{
		Use:   "scope <staff-id>",
		Short: "Replace a member's zone scope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().postCommand("/api/staff/"+args[0]+"/scope", map[string]any{
				"all":         allZones || len(zones) == 0,
				"locationIds": zones,
			})
		},
	}

	cmd.Flags().BoolVar(&allZones, "all-zones", false, "Scope covers every zone")
	cmd.Flags().StringSliceVar(&zones, "zone", nil, "Scoped zone id (repeatable)")

	return cmd
}
