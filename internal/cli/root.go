package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fieldbill",
	Short: "Time-tiered billing engine for field service work",
	Long: `Fieldbill turns technician time entries into invoices: it normalizes
clock-in/clock-out times, prices each minute against the tenant's rate
tiers, applies the first-hour discount for new clients, and freezes the
result into an immutable invoice.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedTiersCmd)
	rootCmd.AddCommand(apiKeyCmd)
}
