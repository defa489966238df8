package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	viewQueries "github.com/andrescamacho/floorsense-go/internal/application/views/queries"
)

// NewTemplateCommand creates the template command with subcommands
func NewTemplateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage min/max rule templates",
		Long: `Manage the rule templates that project into per-zone effective
rules. Generic templates cover every sales zone; location templates
pin one zone and win over generic ones for the same zone and SKU.

Examples:
  floorsense template list
  floorsense template list --all
  floorsense template apply --scope LOCATION --zone zone-floor-a --sku sku-home-jsy --min 3 --max 8 --priority 10
  floorsense template apply --scope GENERIC --attr quality=match --min 2 --max 6
  floorsense template delete tpl-1234`,
	}

	cmd.AddCommand(newTemplateListCommand())
	cmd.AddCommand(newTemplateApplyCommand())
	cmd.AddCommand(newTemplateDeleteCommand())

	return cmd
}

func newTemplateListCommand() *cobra.Command {
	var includeInactive bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rule templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			if includeInactive {
				query["includeInactive"] = "true"
			}
			var out viewQueries.ListTemplatesResponse
			if err := newClient().getJSON("/api/templates", query, &out); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out)
			}

			table := newTable()
			fmt.Fprintln(table, "ID\tSCOPE\tZONE\tSELECTOR\tTARGET\tMIN\tMAX\tPRIO\tACTIVE")
			for _, tpl := range out.Templates {
				target := tpl.SKUID
				if tpl.Selector == "ATTRIBUTES" {
					target = formatAttributes(tpl.Attributes)
				}
				fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					tpl.ID, tpl.Scope, orDash(tpl.ZoneID), tpl.Selector, orDash(target),
					tpl.Min, tpl.Max, tpl.Priority, yesNo(tpl.Active))
			}
			return table.Flush()
		},
	}

	cmd.Flags().BoolVar(&includeInactive, "all", false, "Include deactivated templates")

	return cmd
}

func newTemplateApplyCommand() *cobra.Command {
	var (
		id            string
		scope         string
		zoneID        string
		skuID         string
		attrs         []string
		min           int
		max           int
		priority      int
		inboundSource string
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update a template and reproject rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			selector := "SKU"
			if len(attrs) > 0 {
				selector = "ATTRIBUTES"
			}
			attributes, err := parseAttributes(attrs)
			if err != nil {
				return err
			}
			body := map[string]any{
				"scope":    scope,
				"selector": selector,
				"min":      min,
				"max":      max,
				"priority": priority,
			}
			if id != "" {
				body["id"] = id
			}
			if zoneID != "" {
				body["zoneId"] = zoneID
			}
			if skuID != "" {
				body["skuId"] = skuID
			}
			if len(attributes) > 0 {
				body["attributes"] = attributes
			}
			if inboundSource != "" {
				body["inboundSourceId"] = inboundSource
			}
			return newClient().postCommand("/api/templates", body)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Template id; omit to create, set to overwrite")
	cmd.Flags().StringVar(&scope, "scope", "GENERIC", "GENERIC or LOCATION")
	cmd.Flags().StringVar(&zoneID, "zone", "", "Zone id, required for LOCATION scope")
	cmd.Flags().StringVar(&skuID, "sku", "", "SKU id for an SKU selector")
	cmd.Flags().StringSliceVar(&attrs, "attr", nil, "Attribute filter key=value (repeatable, switches the selector)")
	cmd.Flags().IntVar(&min, "min", 0, "Restock trigger threshold")
	cmd.Flags().IntVar(&max, "max", 0, "Restock target")
	cmd.Flags().IntVar(&priority, "priority", 0, "Tie-break weight, higher wins")
	cmd.Flags().StringVar(&inboundSource, "inbound", "", "External source for inbound orders")

	return cmd
}

func newTemplateDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <template-id>",
		Short: "Deactivate a template and retract its rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().http.R().Delete("/api/templates/" + args[0])
			if err != nil {
				return fmt.Errorf("failed to reach daemon at %s: %w", serverURL, err)
			}
			return printCommandOutcome(resp)
		},
	}
}

// NewRuleCommand creates the rule command with subcommands
func NewRuleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Inspect and pin effective min/max rules",
		Long: `Inspect the effective rules projected from the template set, or
pin a single zone/SKU rule directly. A pinned rule is backed by a
location-scoped template, so it survives reprojection.

Examples:
  floorsense rule list
  floorsense rule list --zone zone-floor-a
  floorsense rule set --zone zone-floor-a --sku sku-home-jsy --min 3 --max 8
  floorsense rule delete rule-zone-floor-a-sku-home-jsy`,
	}

	cmd.AddCommand(newRuleListCommand())
	cmd.AddCommand(newRuleSetCommand())
	cmd.AddCommand(newRuleDeleteCommand())

	return cmd
}

func newRuleListCommand() *cobra.Command {
	var zoneID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List effective rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]string{}
			if zoneID != "" {
				query["location"] = zoneID
			}
			var out viewQueries.ListRulesResponse
			if err := newClient().getJSON("/api/rules", query, &out); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out)
			}

			table := newTable()
			fmt.Fprintln(table, "ID\tZONE\tSKU\tSOURCE\tMIN\tMAX\tPRIO\tINBOUND\tTEMPLATE")
			for _, rule := range out.Rules {
				fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
					rule.ID, rule.LocationID, rule.SKUID, rule.Source,
					rule.Min, rule.Max, rule.Priority, orDash(rule.InboundSourceID), rule.TemplateID)
			}
			return table.Flush()
		},
	}

	cmd.Flags().StringVar(&zoneID, "zone", "", "Only rules for this zone")

	return cmd
}

func newRuleSetCommand() *cobra.Command {
	var (
		zoneID        string
		skuID         string
		source        string
		min           int
		max           int
		priority      int
		inboundSource string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Pin a zone/SKU rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"locationId": zoneID,
				"skuId":      skuID,
				"min":        min,
				"max":        max,
				"priority":   priority,
			}
			if source != "" {
				body["source"] = source
			}
			if inboundSource != "" {
				body["inboundSourceId"] = inboundSource
			}
			return newClient().postCommand("/api/rules", body)
		},
	}

	cmd.Flags().StringVar(&zoneID, "zone", "", "Zone id (required)")
	cmd.Flags().StringVar(&skuID, "sku", "", "SKU id (required)")
	cmd.Flags().StringVar(&source, "source", "", "RFID or NON_RFID, defaults to the SKU's own source")
	cmd.Flags().IntVar(&min, "min", 0, "Restock trigger threshold")
	cmd.Flags().IntVar(&max, "max", 0, "Restock target")
	cmd.Flags().IntVar(&priority, "priority", 0, "Tie-break weight")
	cmd.Flags().StringVar(&inboundSource, "inbound", "", "External source for inbound orders")
	_ = cmd.MarkFlagRequired("zone")
	_ = cmd.MarkFlagRequired("sku")

	return cmd
}

func newRuleDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <rule-id>",
		Short: "Retract a pinned rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().http.R().Delete("/api/rules/" + args[0])
			if err != nil {
				return fmt.Errorf("failed to reach daemon at %s: %w", serverURL, err)
			}
			return printCommandOutcome(resp)
		},
	}
}
