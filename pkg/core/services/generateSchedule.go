package services

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soundviewhealth/chc-scheduler/internal/config"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/analysis"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/holidays"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/model"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/schedule"
	"github.com/soundviewhealth/chc-scheduler/pkg/core/scheduler"
)

// ScheduleWriter defines the output operation needed from the xlsx client
type ScheduleWriter interface {
	WriteSchedule(path string, store *schedule.Store, providers []model.Provider) error
}

// GenerateOptions are the per-run inputs to schedule generation.
type GenerateOptions struct {
	// Month is the target month in YYYY-MM form.
	Month string
	// RosterPath is the provider workbook to load.
	RosterPath string
	// OutPath, when set, writes the generated schedule workbook there.
	OutPath string
	// Seed drives tie-breaking. Zero means seed from the clock.
	Seed int64
}

// GenerateResult contains the outcome of one generation run
type GenerateResult struct {
	RunID     string
	Year      int
	Month     time.Month
	Seed      int64
	Store     *schedule.Store
	Report    *analysis.Report
	Providers []model.Provider
}

// GenerateSchedule loads the roster, generates the month schedule, analyzes
// it and optionally writes the output workbook.
func GenerateSchedule(
	providerClient ProviderClient,
	writer ScheduleWriter,
	cfg *config.Config,
	logger *zap.Logger,
	opts GenerateOptions,
) (*GenerateResult, error) {
	runID := uuid.New().String()
	logger = logger.With(zap.String("run_id", runID))

	year, month, err := parseMonth(opts.Month)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug("Starting schedule generation",
		zap.Int("year", year),
		zap.String("month", month.String()),
		zap.Int64("seed", seed))

	providers, err := ListProviders(providerClient, cfg, logger, opts.RosterPath)
	if err != nil {
		return nil, err
	}

	cal, err := buildCalendar(cfg)
	if err != nil {
		return nil, err
	}

	engine := scheduler.New(cal,
		scheduler.Config{SaturdayWanterThreshold: cfg.SaturdayWanterThreshold},
		logger,
		rand.New(rand.NewSource(seed)))

	store, err := engine.Generate(scheduler.PartitionRoster(providers), year, month)
	if err != nil {
		return nil, fmt.Errorf("schedule generation failed: %w", err)
	}

	report := analysis.Analyze(store, providers)
	logger.Info("Schedule generated",
		zap.Int("issues", report.TotalIssues),
		zap.Int("understaffed_days", report.UnderstaffedDays),
		zap.Int("pto_conflicts", report.PTOConflicts))

	for _, issue := range report.Issues {
		if issue.Severity == analysis.SeverityError {
			logger.Warn("Schedule issue",
				zap.String("type", issue.Type),
				zap.String("message", issue.Message))
		}
	}

	if opts.OutPath != "" {
		if err := writer.WriteSchedule(opts.OutPath, store, providers); err != nil {
			return nil, fmt.Errorf("failed to write schedule workbook: %w", err)
		}
	}

	return &GenerateResult{
		RunID:     runID,
		Year:      year,
		Month:     month,
		Seed:      seed,
		Store:     store,
		Report:    report,
		Providers: providers,
	}, nil
}

func parseMonth(s string) (int, time.Month, error) {
	parsed, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", s, err)
	}
	return parsed.Year(), parsed.Month(), nil
}

// buildCalendar combines the built-in holiday rules with any extras from the
// configuration.
func buildCalendar(cfg *config.Config) (*holidays.Calendar, error) {
	if len(cfg.ExtraHolidays) == 0 {
		return holidays.NewCalendar(), nil
	}

	cal := holidays.NewCalendar()
	rules := cal.Rules()
	for i, extra := range cfg.ExtraHolidays {
		rule := holidays.Rule{
			Name:  extra.Name,
			Month: time.Month(extra.Month),
		}
		if extra.Day > 0 {
			rule.Day = extra.Day
			rule.Fixed = true
		} else {
			weekday, ok := model.ParseWeekday(extra.Weekday)
			if !ok {
				return nil, fmt.Errorf("extraHolidays[%d] (%s): unknown weekday %q", i, extra.Name, extra.Weekday)
			}
			rule.Weekday = weekday
			rule.Nth = extra.Nth
		}
		rules = append(rules, rule)
	}
	return holidays.NewCalendarWithRules(rules), nil
}
