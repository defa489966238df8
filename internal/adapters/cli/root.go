package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	serverURL  string
	timeoutSec int
	jsonOutput bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "floorsense",
		Short: "Floorsense CLI - Operate the store inventory daemon",
		Long: `Floorsense CLI drives the store inventory daemon over its HTTP API:
feed it reads and sales, manage zones and rules, and work the
replenishment queue from a terminal.

Examples:
  floorsense dashboard
  floorsense ingest read --epc epc-1001 --antenna ant-a1
  floorsense ingest sale --sku sku-scarf --zone zone-floor-b --qty 1
  floorsense zone list
  floorsense task list --open
  floorsense task confirm task-1b2c --qty 5 --staff staff-amara
  floorsense order create --from external-dc-north --to zone-backroom --sku sku-scarf --qty 20
  floorsense cart add --customer cust-7 --zone zone-floor-a --sku sku-home-jsy
  floorsense cart checkout cust-7`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", getDefaultServerURL(),
		"Base URL of the floorsense daemon")
	rootCmd.PersistentFlags().IntVar(&timeoutSec, "timeout", 10,
		"Request timeout in seconds")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print raw JSON responses")

	// Add command groups
	rootCmd.AddCommand(NewIngestCommand())
	rootCmd.AddCommand(NewZoneCommand())
	rootCmd.AddCommand(NewRuleCommand())
	rootCmd.AddCommand(NewTemplateCommand())
	rootCmd.AddCommand(NewTaskCommand())
	rootCmd.AddCommand(NewOrderCommand())
	rootCmd.AddCommand(NewStaffCommand())
	rootCmd.AddCommand(NewCartCommand())
	rootCmd.AddCommand(NewDashboardCommand())
	rootCmd.AddCommand(NewSKUCommand())
	rootCmd.AddCommand(NewFlowCommand())
	rootCmd.AddCommand(NewAuditCommand())

	return rootCmd
}

// getDefaultServerURL returns the default daemon address
func getDefaultServerURL() string {
	if url := os.Getenv("FLOORSENSE_SERVER"); url != "" {
		return url
	}
	return "http://127.0.0.1:8080"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
