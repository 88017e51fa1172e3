// zonecheck probes the ENTSO-E API with the configured token: it verifies the
// token works and reports, per supported bidding zone, the most recent day
// with published day-ahead prices.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"dayahead/config"
	"dayahead/entsoe"
	"dayahead/logging"
)

var dayOffsets = []int{1, 2, 3, 7, 14, 30}

func main() {
	configPath := flag.String("config", "config.json", "path to config file")
	flag.Parse()

	logger := logging.NewConsoleLogger(slog.LevelInfo)
	slog.SetDefault(logger)

	cnfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()
	now := time.Now().UTC()

	zones := make([]string, 0, len(entsoe.ZoneCodes))
	for zone := range entsoe.ZoneCodes {
		zones = append(zones, zone)
	}
	sort.Strings(zones)

	available := 0
	for _, zone := range zones {
		client, err := entsoe.New(cnfg.ApiToken, zone)
		if err != nil {
			logger.Error("failed to create client", slog.String("zone", zone), slog.Any("error", err))
			os.Exit(1)
		}

		day, err := probe(ctx, client, now)
		if errors.Is(err, entsoe.ErrUnauthorized) {
			logger.Error("token rejected by the provider", slog.Any("error", err))
			os.Exit(1)
		}
		if err != nil {
			logger.Warn("zone probe failed", slog.String("zone", zone), slog.Any("error", err))
			continue
		}
		if day == "" {
			fmt.Printf("%-3s no data in the last %d days\n", zone, dayOffsets[len(dayOffsets)-1])
			continue
		}
		available++
		fmt.Printf("%-3s data available for %s\n", zone, day)
	}

	fmt.Printf("%d/%d zones have recent data\n", available, len(zones))
}

// probe walks backwards through dayOffsets and returns the first date with
// published prices, or "" when none of the probed days has any. Rejections
// of single days (the provider acknowledges instead of answering) are
// expected and skipped; only token failures are returned.
func probe(ctx context.Context, client *entsoe.Client, now time.Time) (string, error) {
	for _, offset := range dayOffsets {
		day := now.AddDate(0, 0, -offset)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

		series, err := client.GetDayAheadPrices(ctx, start, start.AddDate(0, 0, 1))
		if errors.Is(err, entsoe.ErrUnauthorized) {
			return "", err
		}
		if err != nil {
			continue
		}
		if len(series.Hours) > 0 {
			return start.Format("2006-01-02"), nil
		}
	}
	return "", nil
}
