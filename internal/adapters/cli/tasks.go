package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	viewQueries "github.com/andrescamacho/floorsense-go/internal/application/views/queries"
)

// NewTaskCommand creates the task command with subcommands
func NewTaskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Work replenishment tasks",
		Long: `List and drive replenishment tasks through their lifecycle:
open, assigned, in progress, then confirmed with a moved quantity.

Examples:
  floorsense task list --open
  floorsense task list --zone zone-floor-a --status IN_PROGRESS
  floorsense task assign task-1234 --staff staff-amara
  floorsense task start task-1234 --staff staff-amara
  floorsense task confirm task-1234 --qty 5 --staff staff-amara`,
	}

	cmd.AddCommand(newTaskListCommand())
	cmd.AddCommand(newTaskAssignCommand())
	cmd.AddCommand(newTaskStartCommand())
	cmd.AddCommand(newTaskConfirmCommand())

	return cmd
}

func newTaskListCommand() *cobra.Command {
	var (
		status   string
		zoneID   string
		staffID  string
		skuID    string
		openOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List replenishment tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			if status != "" {
				query["status"] = status
			}
			if zoneID != "" {
				query["location"] = zoneID
			}
			if staffID != "" {
				query["staff"] = staffID
			}
			if skuID != "" {
				query["sku"] = skuID
			}
			if openOnly {
				query["open"] = "true"
			}
			var out viewQueries.ListTasksResponse
			if err := newClient().getJSON("/api/tasks", query, &out); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out)
			}

			table := newTable()
			fmt.Fprintln(table, "ID\tDEST\tSKU\tSTATUS\tDEFICIT\tTARGET\tFROM\tASSIGNED\tMOVED\tCREATED")
			for _, task := range out.Tasks {
				fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
					task.ID,
					task.Destination,
					task.SKUID,
					task.Status,
					task.DeficitQty,
					task.TargetQty,
					orDash(task.SourceZoneID),
					orDash(task.AssignedStaffID),
					fmtIntPtr(task.ConfirmedQty),
					fmtTime(task.CreatedAt),
				)
			}
			return table.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "OPEN, ASSIGNED, IN_PROGRESS, COMPLETED or CANCELLED")
	cmd.Flags().StringVar(&zoneID, "zone", "", "Only tasks heading to this zone")
	cmd.Flags().StringVar(&staffID, "staff", "", "Only tasks assigned to this member")
	cmd.Flags().StringVar(&skuID, "sku", "", "Only tasks for this SKU")
	cmd.Flags().BoolVar(&openOnly, "open", false, "Only the live working set")

	return cmd
}

func newTaskAssignCommand() *cobra.Command {
	var staffID string

	cmd := &cobra.Command{
		Use:   "assign <task-id>",
		Short: "Assign a task to a staff member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().postCommand("/api/tasks/"+args[0]+"/assign", map[string]any{
				"staffId": staffID,
			})
		},
	}

	cmd.Flags().StringVar(&staffID, "staff", "", "Staff member id (required)")
	_ = cmd.MarkFlagRequired("staff")

	return cmd
}

func newTaskStartCommand() *cobra.Command {
	var staffID string

	cmd := &cobra.Command{
		Use:   "start <task-id>",
		Short: "Mark a task in progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().postCommand("/api/tasks/"+args[0]+"/start", map[string]any{
				"staffId": staffID,
			})
		},
	}

	cmd.Flags().StringVar(&staffID, "staff", "", "Staff member id (required)")
	_ = cmd.MarkFlagRequired("staff")

	return cmd
}

func newTaskConfirmCommand() *cobra.Command {
	var (
		qty        int
		staffID    string
		sourceZone string
	)

	cmd := &cobra.Command{
		Use:   "confirm <task-id>",
		Short: "Confirm a task and move the stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"confirmedQty": qty,
			}
			if staffID != "" {
				body["confirmedBy"] = staffID
			}
			if sourceZone != "" {
				body["sourceZoneId"] = sourceZone
			}
			return newClient().postCommand("/api/tasks/"+args[0]+"/confirm", body)
		},
	}

	cmd.Flags().IntVar(&qty, "qty", 0, "Units actually moved")
	cmd.Flags().StringVar(&staffID, "staff", "", "Confirming staff member")
	cmd.Flags().StringVar(&sourceZone, "from", "", "Override the source zone the stock came out of")

	return cmd
}
