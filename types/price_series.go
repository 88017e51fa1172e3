package types

import (
	"context"
	"math"
	"time"
)

// Unit is the currency-per-energy unit of a price series.
type Unit string

const (
	UnitEURPerMWh Unit = "EUR/MWh"
	UnitEURPerKWh Unit = "EUR/kWh"
)

// HourPrice is one hour of a price series. Time is the start of the hour in
// the series' current location. Price is NaN for an hour that is missing and
// was left unfilled.
type HourPrice struct {
	Time   time.Time
	Price  float64
	Filled bool // price produced by the gap-fill policy, not the provider
}

func (h HourPrice) Missing() bool {
	return math.IsNaN(h.Price)
}

type GapOutcome string

const (
	GapInterpolated GapOutcome = "interpolated"
	GapLeftMissing  GapOutcome = "left_missing"
)

// Gap identifies an expected hour that was absent from the fetched data,
// together with what the fill policy did about it.
type Gap struct {
	Time    time.Time
	Outcome GapOutcome
}

// PriceSeries holds hourly day-ahead prices for one bidding zone, ordered by
// time with unique timestamps. A repeated local hour on a fall-back day is
// two entries with distinct UTC offsets.
type PriceSeries struct {
	Zone  string
	Unit  Unit
	Hours []HourPrice
	Gaps  []Gap
}

type PriceProvider interface {
	GetDayAheadPrices(ctx context.Context, start, end time.Time) (*PriceSeries, error)
}

// Metadata describes one run, written next to the price file.
type Metadata struct {
	RunID       string    `json:"run_id"`
	Source      string    `json:"source"`
	Zone        string    `json:"zone"`
	RetrievedAt time.Time `json:"retrieved_at"`
	Start       string    `json:"start"`
	End         string    `json:"end"`
	Unit        Unit      `json:"unit"`
	Timezone    string    `json:"timezone"`
	FillPolicy  string    `json:"fill_policy"`
	GapCount    int       `json:"gap_count"`
}
