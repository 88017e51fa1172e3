package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"dayahead/config"
	"dayahead/entsoe"
	"dayahead/export"
	"dayahead/journal"
	"dayahead/logging"
	"dayahead/normalize"
	"dayahead/plot"
	"dayahead/types"
)

var Version = "?.?.?"

func main() {
	configPath := flag.String("config", "config.json", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		logging.NewConsoleLogger(slog.LevelInfo).Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.NewConsoleLogger(cnfg.GetLogLevel())
	slog.SetDefault(logger)
	logger.Debug("dayahead is starting...", slog.String("version", Version))

	if err := run(context.Background(), cnfg, logger); err != nil {
		logger.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("run done")
}

func run(ctx context.Context, cnfg *config.AppConfig, logger *slog.Logger) error {
	runID := uuid.NewString()
	startedAt := time.Now().UTC()

	var jnl *journal.Journal
	if cnfg.JournalPath != "" {
		var err error
		jnl, err = journal.Open(ctx, cnfg.JournalPath)
		if err != nil {
			return err
		}
		jnl.SetLogger(logger.With(slog.String("module", "journal")))
		defer jnl.Close()
	}

	record := func(status, priceFile string, runErr error) {
		if jnl == nil {
			return
		}
		r := journal.Run{
			ID:         runID,
			StartedAt:  startedAt,
			FinishedAt: time.Now().UTC(),
			Zone:       cnfg.CountryCode,
			StartDate:  cnfg.StartDate,
			EndDate:    cnfg.EndDate,
			Status:     status,
			PriceFile:  priceFile,
		}
		if runErr != nil {
			r.Error = runErr.Error()
		}
		if err := jnl.Record(ctx, r); err != nil {
			logger.Warn("failed to record run in journal", slog.Any("error", err))
		}
	}

	fail := func(err error) error {
		record("failed", "", err)
		return err
	}

	loc, err := normalize.ResolveLocation(cnfg.Timezone)
	if err != nil {
		return fail(err)
	}

	client, err := entsoe.New(cnfg.ApiToken, cnfg.CountryCode)
	if err != nil {
		return fail(err)
	}

	// Fetch the UTC window covering every expected local hour of the range.
	expected := normalize.ExpectedHours(cnfg.Start(), cnfg.End(), loc)
	fetchStart := expected[0].UTC()
	fetchEnd := expected[len(expected)-1].Add(time.Hour).UTC()

	logger.Info("fetching day-ahead prices...",
		slog.String("zone", client.Zone()),
		slog.String("start", cnfg.StartDate),
		slog.String("end", cnfg.EndDate),
		slog.String("timezone", cnfg.Timezone))

	series, err := client.GetDayAheadPrices(ctx, fetchStart, fetchEnd)
	if err != nil {
		return fail(err)
	}
	logger.Debug("prices fetched", slog.Int("noOfHours", len(series.Hours)))

	err = normalize.Run(series, normalize.Options{
		Location: loc,
		Start:    cnfg.Start(),
		End:      cnfg.End(),
		ToKWh:    cnfg.NormalizeToKwh,
	})
	if err != nil {
		return fail(err)
	}

	for _, gap := range series.Gaps {
		logger.Warn("missing hour in fetched data",
			slog.String("hour", gap.Time.Format(time.RFC3339)),
			slog.String("outcome", string(gap.Outcome)))
	}

	meta := types.Metadata{
		RunID:       runID,
		Source:      export.Source,
		Zone:        client.Zone(),
		RetrievedAt: time.Now().UTC(),
		Start:       cnfg.StartDate,
		End:         cnfg.EndDate,
		Unit:        series.Unit,
		Timezone:    cnfg.Timezone,
		FillPolicy:  normalize.FillPolicy,
		GapCount:    len(series.Gaps),
	}

	exporter := export.New(cnfg.OutputDir, logger.With(slog.String("module", "export")))
	pricePath, err := exporter.WritePrices(series, meta, cnfg.ExportFormat)
	if err != nil {
		return fail(err)
	}
	if _, err := exporter.WriteMetadata(meta); err != nil {
		return fail(err)
	}

	if cnfg.MakePlots {
		plotDir := filepath.Join(cnfg.OutputDir, "plots")
		if err := plot.WriteAll(series, plotDir); err != nil {
			logger.Warn("plot rendering failed", slog.Any("error", err))
		} else {
			logger.Info("plots written", slog.String("dir", plotDir))
		}
	}

	record("succeeded", pricePath, nil)
	logger.Info("prices exported",
		slog.String("path", pricePath),
		slog.Int("noOfHours", len(series.Hours)),
		slog.String("unit", string(series.Unit)),
		slog.Int("noOfGaps", len(series.Gaps)))

	return nil
}
