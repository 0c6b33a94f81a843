package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opsrate/fieldbill/internal/domain/activity"
	"github.com/opsrate/fieldbill/internal/domain/rate"
	"github.com/opsrate/fieldbill/internal/sqlite"
)

var seedTenantID string

var seedTiersCmd = &cobra.Command{
	Use:   "seed-tiers <file>",
	Short: "Replace a tenant's rate tier configuration from a YAML file",
	Long: `Loads rate tiers from a YAML file and replaces the tenant's current
configuration. The file order is preserved and breaks level ties during
resolution, so keep the preferred tier first.

Example file:

    tiers:
      - name: Weekend
        level: 10
        days: [saturday, sunday]
        start: "00:00"
        end: "24:00"
        multiplier: "1.5"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return seedTiers(cmd.Context(), a, seedTenantID, args[0])
	},
}

func init() {
	seedTiersCmd.Flags().StringVar(&seedTenantID, "tenant", "default", "tenant to seed tiers for")
}

type tierFile struct {
	Tiers []tierSpec `yaml:"tiers"`
}

type tierSpec struct {
	Name       string   `yaml:"name"`
	Level      int      `yaml:"level"`
	Days       []string `yaml:"days"`
	Start      string   `yaml:"start"`
	End        string   `yaml:"end"`
	Multiplier string   `yaml:"multiplier"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func seedTiers(ctx context.Context, a *app, tenantID, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading tier file: %w", err)
	}

	var file tierFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing tier file: %w", err)
	}
	if len(file.Tiers) == 0 {
		return fmt.Errorf("tier file %s defines no tiers", path)
	}

	tiers, err := expandTiers(file.Tiers)
	if err != nil {
		return err
	}

	repo := sqlite.NewRateTierRepository(a.db)
	if err := repo.Seed(ctx, tenantID, tiers); err != nil {
		return fmt.Errorf("seeding tiers: %w", err)
	}

	activitySvc := activity.NewService(sqlite.NewActivityRepository(a.db), a.logger)
	_ = activitySvc.LogActivity(ctx, tenantID, &activity.ActivityEntry{
		ActivityType: activity.TypeTiersSeeded,
		Summary:      fmt.Sprintf("seeded %d rate tiers from %s", len(tiers), path),
	})

	a.logger.Info("rate tiers seeded", "tenant", tenantID, "tiers", len(tiers))
	fmt.Printf("Seeded %d rate tiers for tenant %s\n", len(tiers), tenantID)
	return nil
}

// expandTiers turns each spec into one tier per listed day, keeping file
// order so ties stay deterministic.
func expandTiers(specs []tierSpec) ([]rate.Tier, error) {
	var tiers []rate.Tier
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("tier %d: name is required", i+1)
		}
		if len(spec.Days) == 0 {
			return nil, fmt.Errorf("tier %q: at least one day is required", spec.Name)
		}

		startMinute, err := rate.ParseClock(spec.Start)
		if err != nil {
			return nil, fmt.Errorf("tier %q: %w", spec.Name, err)
		}
		endMinute, err := rate.ParseClock(spec.End)
		if err != nil {
			return nil, fmt.Errorf("tier %q: %w", spec.Name, err)
		}
		multiplier, err := decimal.NewFromString(spec.Multiplier)
		if err != nil {
			return nil, fmt.Errorf("tier %q: invalid multiplier %q", spec.Name, spec.Multiplier)
		}

		for _, dayName := range spec.Days {
			day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(dayName))]
			if !ok {
				return nil, fmt.Errorf("tier %q: unknown day %q", spec.Name, dayName)
			}
			tier := rate.Tier{
				Name:        spec.Name,
				Level:       spec.Level,
				DayOfWeek:   day,
				StartMinute: startMinute,
				EndMinute:   endMinute,
				Multiplier:  multiplier,
			}
			if err := rate.Validate(tier); err != nil {
				return nil, fmt.Errorf("tier %q: %w", spec.Name, err)
			}
			tiers = append(tiers, tier)
		}
	}
	return tiers, nil
}
