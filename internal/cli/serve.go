package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/opsrate/fieldbill/internal/domain/activity"
	"github.com/opsrate/fieldbill/internal/domain/invoice"
	"github.com/opsrate/fieldbill/internal/domain/timesheet"
	"github.com/opsrate/fieldbill/internal/httpapi"
	"github.com/opsrate/fieldbill/internal/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the billing API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return runServer(a)
	},
}

func runServer(a *app) error {
	tierRepo := sqlite.NewRateTierRepository(a.db)
	entryRepo := sqlite.NewTimeEntryRepository(a.db)
	ticketRepo := sqlite.NewTicketRepository(a.db)
	clientRepo := sqlite.NewClientRepository(a.db)
	invoiceRepo := sqlite.NewInvoiceRepository(a.db)
	activityRepo := sqlite.NewActivityRepository(a.db)

	billingCfg := invoice.Config{
		DefaultHourlyRate: a.cfg.Billing.DefaultRate(),
		TaxRate:           a.cfg.Billing.Tax(),
		DueDays:           a.cfg.Billing.DueDays,
		DiscountMinutes:   a.cfg.Billing.DiscountMinutes,
	}

	services := httpapi.Services{
		Invoices: invoice.NewService(tierRepo, entryRepo, ticketRepo, clientRepo, invoiceRepo, activityRepo, billingCfg, a.logger),
		Entries:  timesheet.NewService(entryRepo, ticketRepo, activityRepo, a.logger),
		Activity: activity.NewService(activityRepo, a.logger),
	}

	resolver := &apiKeyResolver{db: a.db}
	router := httpapi.NewRouter(services, clientRepo, ticketRepo, a.logger, httpapi.AuthMiddleware(resolver))

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,

		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		a.logger.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("server error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type apiKeyResolver struct {
	db *sqlite.DB
}

func (r *apiKeyResolver) ResolveTenant(ctx context.Context, token string) (string, error) {
	hash := httpapi.HashAPIKey(token)
	var tenantID string
	err := r.db.QueryRowContext(ctx, `SELECT tenant_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&tenantID)
	if err != nil || tenantID == "" {
		return "", fmt.Errorf("unauthorized: invalid token")
	}
	_, _ = r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = CURRENT_TIMESTAMP WHERE key_hash = ?`, hash)
	return tenantID, nil
}
