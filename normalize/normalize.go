// Package normalize turns a raw fetched price series into the exported one:
// timestamps reprojected into the target timezone, missing hours detected and
// filled, prices optionally converted to EUR/kWh.
package normalize

import (
	"fmt"
	"math"
	"time"

	"dayahead/convert"
	"dayahead/types"
)

// FillPolicy is the gap-handling policy recorded in run metadata: interior
// gaps are linearly interpolated from the nearest present hours, gaps at the
// edges of the range are left missing.
const FillPolicy = "linear_interpolation"

type Options struct {
	Location *time.Location
	// First and last civil date of the range (inclusive); only the
	// year/month/day components are used, interpreted in Location.
	Start time.Time
	End   time.Time
	// Convert EUR/MWh to EUR/kWh as the final step
	ToKWh bool
}

// ResolveLocation loads an IANA timezone by name.
func ResolveLocation(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &types.NormalizationError{Reason: fmt.Sprintf("unresolvable timezone %q", name), Err: err}
	}
	return loc, nil
}

// ExpectedHours returns the start of every local hour of the civil days
// start..end (inclusive) in loc. Stepping absolute time by whole hours gives
// 23 hours on a spring-forward day and 25 on a fall-back day, with the
// repeated fall-back hour appearing twice under distinct UTC offsets.
func ExpectedHours(start, end time.Time, loc *time.Location) []time.Time {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	until := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	expected := make([]time.Time, 0, 24*(int(until.Sub(from).Hours()/24)+1))
	for t := from; t.Before(until); t = t.Add(time.Hour) {
		expected = append(expected, t)
	}
	return expected
}

// Run normalizes the series in place. It is idempotent: a second run over an
// already normalized series changes nothing.
func Run(series *types.PriceSeries, opts Options) error {
	if opts.Location == nil {
		return &types.NormalizationError{Reason: "no target timezone"}
	}
	for _, h := range series.Hours {
		if h.Time.IsZero() {
			return &types.NormalizationError{Reason: "series contains a zero timestamp"}
		}
	}

	expected := ExpectedHours(opts.Start, opts.End, opts.Location)

	// Index present hours by absolute instant; a repeated local hour on a
	// fall-back day maps to two distinct instants so nothing collapses here.
	present := make(map[int64]types.HourPrice, len(series.Hours))
	for _, h := range series.Hours {
		if _, ok := present[h.Time.Unix()]; ok {
			continue
		}
		present[h.Time.Unix()] = h
	}

	hours := make([]types.HourPrice, 0, len(expected))
	for _, t := range expected {
		if h, ok := present[t.Unix()]; ok {
			h.Time = t // same instant, reprojected into the target zone
			hours = append(hours, h)
		} else {
			hours = append(hours, types.HourPrice{Time: t, Price: math.NaN()})
		}
	}

	fillGaps(hours)

	// Gaps are recomputed from the flags so that re-running the policy on an
	// already filled series reports the same outcome.
	gaps := make([]types.Gap, 0)
	for _, h := range hours {
		switch {
		case h.Missing():
			gaps = append(gaps, types.Gap{Time: h.Time, Outcome: types.GapLeftMissing})
		case h.Filled:
			gaps = append(gaps, types.Gap{Time: h.Time, Outcome: types.GapInterpolated})
		}
	}

	series.Hours = hours
	series.Gaps = gaps

	if opts.ToKWh && series.Unit == types.UnitEURPerMWh {
		for i := range series.Hours {
			series.Hours[i].Price = convert.MWhToKWh(series.Hours[i].Price)
		}
		series.Unit = types.UnitEURPerKWh
	}

	return nil
}

// fillGaps linearly interpolates every maximal run of missing hours that has
// a present neighbor on both sides. Runs touching either edge of the series
// stay missing. Already filled neighbors count as present, which keeps the
// policy idempotent.
func fillGaps(hours []types.HourPrice) {
	i := 0
	for i < len(hours) {
		if !hours[i].Missing() {
			i++
			continue
		}
		j := i
		for j < len(hours) && hours[j].Missing() {
			j++
		}
		if i > 0 && j < len(hours) {
			prev, next := hours[i-1].Price, hours[j].Price
			span := float64(j - i + 1)
			for k := i; k < j; k++ {
				frac := float64(k-i+1) / span
				hours[k].Price = convert.RoundFloat64(prev+(next-prev)*frac, 4)
				hours[k].Filled = true
			}
		}
		i = j
	}
}
