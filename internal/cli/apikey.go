package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/opsrate/fieldbill/internal/httpapi"
)

var (
	keyTenantID    string
	keyDescription string
)

var apiKeyCmd = &cobra.Command{
	Use:   "api-key",
	Short: "Issue an API key for a tenant",
	Long: `Generates a bearer token for a tenant and stores its hash. The token
is printed once and cannot be recovered afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		token := uuid.NewString()
		_, err = a.db.ExecContext(cmd.Context(),
			`INSERT INTO api_keys (key_hash, tenant_id, description) VALUES (?, ?, ?)`,
			httpapi.HashAPIKey(token), keyTenantID, keyDescription)
		if err != nil {
			return fmt.Errorf("storing api key: %w", err)
		}

		fmt.Printf("API key for tenant %s:\n%s\n", keyTenantID, token)
		return nil
	},
}

func init() {
	apiKeyCmd.Flags().StringVar(&keyTenantID, "tenant", "default", "tenant the key belongs to")
	apiKeyCmd.Flags().StringVar(&keyDescription, "description", "", "optional key description")
}
