package normalize

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayahead/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := ResolveLocation(name)
	require.NoError(t, err)
	return loc
}

// fullSeries builds provider-style input: UTC hour-start timestamps covering
// every expected hour of the range, all at the same price.
func fullSeries(start, end time.Time, loc *time.Location, price float64) *types.PriceSeries {
	series := &types.PriceSeries{Zone: "CY", Unit: types.UnitEURPerMWh}
	for _, t := range ExpectedHours(start, end, loc) {
		series.Hours = append(series.Hours, types.HourPrice{Time: t.UTC(), Price: price})
	}
	return series
}

func assertSeriesEqual(t *testing.T, want, got *types.PriceSeries) {
	t.Helper()
	assert.Equal(t, want.Unit, got.Unit)
	assert.Equal(t, want.Gaps, got.Gaps)
	require.Equal(t, len(want.Hours), len(got.Hours))
	for i := range want.Hours {
		assert.True(t, want.Hours[i].Time.Equal(got.Hours[i].Time), "hour %d time", i)
		assert.Equal(t, want.Hours[i].Filled, got.Hours[i].Filled, "hour %d filled", i)
		if want.Hours[i].Missing() {
			assert.True(t, got.Hours[i].Missing(), "hour %d should be missing", i)
		} else {
			assert.Equal(t, want.Hours[i].Price, got.Hours[i].Price, "hour %d price", i)
		}
	}
}

func TestExpectedHoursPlainDays(t *testing.T) {
	loc := mustLocation(t, "Europe/Nicosia")
	hours := ExpectedHours(date(2025, 9, 1), date(2025, 9, 2), loc)
	assert.Len(t, hours, 48)
	assert.Equal(t, "2025-09-01T00:00:00+03:00", hours[0].Format(time.RFC3339))
	assert.Equal(t, "2025-09-02T23:00:00+03:00", hours[47].Format(time.RFC3339))
}

func TestExpectedHoursSpringForward(t *testing.T) {
	// Europe/Berlin 2025-03-30: 02:00 CET does not exist
	loc := mustLocation(t, "Europe/Berlin")
	hours := ExpectedHours(date(2025, 3, 30), date(2025, 3, 30), loc)
	assert.Len(t, hours, 23)
	for _, h := range hours {
		assert.NotEqual(t, 2, h.Hour(), "the skipped local hour must never appear")
	}
}

func TestExpectedHoursFallBack(t *testing.T) {
	// Europe/Berlin 2025-10-26: 02:00 occurs twice, CEST then CET
	loc := mustLocation(t, "Europe/Berlin")
	hours := ExpectedHours(date(2025, 10, 26), date(2025, 10, 26), loc)
	assert.Len(t, hours, 25)

	var offsets []int
	for _, h := range hours {
		if h.Hour() == 2 {
			_, offset := h.Zone()
			offsets = append(offsets, offset)
		}
	}
	assert.Equal(t, []int{2 * 3600, 1 * 3600}, offsets)
}

func TestRunFullCoverage(t *testing.T) {
	loc := mustLocation(t, "Europe/Nicosia")
	series := fullSeries(date(2025, 9, 1), date(2025, 9, 2), loc, 100)

	err := Run(series, Options{Location: loc, Start: date(2025, 9, 1), End: date(2025, 9, 2)})
	require.NoError(t, err)

	require.Len(t, series.Hours, 48)
	assert.Empty(t, series.Gaps)
	assert.Equal(t, types.UnitEURPerMWh, series.Unit)
	for i := 1; i < len(series.Hours); i++ {
		assert.True(t, series.Hours[i-1].Time.Before(series.Hours[i].Time), "timestamps must be strictly increasing")
	}
	assert.Equal(t, "2025-09-01T00:00:00+03:00", series.Hours[0].Time.Format(time.RFC3339))
}

func TestRunFallBackDay(t *testing.T) {
	loc := mustLocation(t, "Europe/Berlin")
	series := fullSeries(date(2025, 10, 26), date(2025, 10, 26), loc, 80)

	err := Run(series, Options{Location: loc, Start: date(2025, 10, 26), End: date(2025, 10, 26)})
	require.NoError(t, err)

	assert.Len(t, series.Hours, 25)
	assert.Empty(t, series.Gaps)
}

func TestRunSpringForwardDay(t *testing.T) {
	loc := mustLocation(t, "Europe/Berlin")
	series := fullSeries(date(2025, 3, 30), date(2025, 3, 30), loc, 80)

	err := Run(series, Options{Location: loc, Start: date(2025, 3, 30), End: date(2025, 3, 30)})
	require.NoError(t, err)

	assert.Len(t, series.Hours, 23)
	assert.Empty(t, series.Gaps)
	for _, h := range series.Hours {
		assert.NotEqual(t, 2, h.Time.Hour())
	}
}

func TestRunInterpolatesInteriorGap(t *testing.T) {
	loc := time.UTC
	series := fullSeries(date(2025, 9, 1), date(2025, 9, 1), loc, 0)
	for i := range series.Hours {
		series.Hours[i].Price = float64(i * 10)
	}
	// drop hours 5 and 6
	series.Hours = append(series.Hours[:5], series.Hours[7:]...)

	err := Run(series, Options{Location: loc, Start: date(2025, 9, 1), End: date(2025, 9, 1)})
	require.NoError(t, err)

	require.Len(t, series.Hours, 24)
	require.Len(t, series.Gaps, 2)
	assert.Equal(t, types.GapInterpolated, series.Gaps[0].Outcome)
	assert.Equal(t, types.GapInterpolated, series.Gaps[1].Outcome)

	// neighbors 40 and 70, interpolated to 50 and 60
	assert.Equal(t, 50.0, series.Hours[5].Price)
	assert.True(t, series.Hours[5].Filled)
	assert.Equal(t, 60.0, series.Hours[6].Price)
	assert.True(t, series.Hours[6].Filled)
}

func TestRunLeavesEdgeGapMissing(t *testing.T) {
	loc := time.UTC
	series := fullSeries(date(2025, 9, 1), date(2025, 9, 1), loc, 42)
	series.Hours = series.Hours[1:] // drop the first hour

	err := Run(series, Options{Location: loc, Start: date(2025, 9, 1), End: date(2025, 9, 1)})
	require.NoError(t, err)

	require.Len(t, series.Hours, 24)
	require.Len(t, series.Gaps, 1)
	assert.Equal(t, types.GapLeftMissing, series.Gaps[0].Outcome)
	assert.True(t, series.Hours[0].Missing())
	assert.False(t, series.Hours[0].Filled)
}

func TestRunGapFillIdempotent(t *testing.T) {
	loc := mustLocation(t, "Europe/Nicosia")
	series := fullSeries(date(2025, 9, 1), date(2025, 9, 1), loc, 0)
	for i := range series.Hours {
		series.Hours[i].Price = float64(i)
	}
	series.Hours = append(series.Hours[:10], series.Hours[12:]...) // interior gap
	series.Hours = series.Hours[1:]                                // edge gap

	opts := Options{Location: loc, Start: date(2025, 9, 1), End: date(2025, 9, 1)}
	require.NoError(t, Run(series, opts))

	once := &types.PriceSeries{Zone: series.Zone, Unit: series.Unit}
	once.Hours = append(once.Hours, series.Hours...)
	once.Gaps = append(once.Gaps, series.Gaps...)

	require.NoError(t, Run(series, opts))
	assertSeriesEqual(t, once, series)
}

func TestRunUnitConversionAppliedOnce(t *testing.T) {
	loc := mustLocation(t, "Europe/Nicosia")
	series := fullSeries(date(2025, 9, 1), date(2025, 9, 2), loc, 100)

	opts := Options{Location: loc, Start: date(2025, 9, 1), End: date(2025, 9, 2), ToKWh: true}
	require.NoError(t, Run(series, opts))

	assert.Equal(t, types.UnitEURPerKWh, series.Unit)
	require.Len(t, series.Hours, 48)
	for _, h := range series.Hours {
		assert.Equal(t, 0.1, h.Price)
	}

	// a second run must not divide again
	require.NoError(t, Run(series, opts))
	for _, h := range series.Hours {
		assert.Equal(t, 0.1, h.Price)
	}
}

func TestRunRejectsZeroTimestamp(t *testing.T) {
	loc := time.UTC
	series := &types.PriceSeries{
		Unit:  types.UnitEURPerMWh,
		Hours: []types.HourPrice{{Price: 10}},
	}

	err := Run(series, Options{Location: loc, Start: date(2025, 9, 1), End: date(2025, 9, 1)})
	var normErr *types.NormalizationError
	require.ErrorAs(t, err, &normErr)
}

func TestResolveLocationUnknown(t *testing.T) {
	_, err := ResolveLocation("Mars/Olympus_Mons")
	var normErr *types.NormalizationError
	require.ErrorAs(t, err, &normErr)
}

func TestRunDropsHoursOutsideRange(t *testing.T) {
	loc := time.UTC
	series := fullSeries(date(2025, 9, 1), date(2025, 9, 2), loc, 10)

	err := Run(series, Options{Location: loc, Start: date(2025, 9, 1), End: date(2025, 9, 1)})
	require.NoError(t, err)

	assert.Len(t, series.Hours, 24)
	assert.Empty(t, series.Gaps)
}

func TestHourPriceMissing(t *testing.T) {
	assert.True(t, types.HourPrice{Price: math.NaN()}.Missing())
	assert.False(t, types.HourPrice{Price: 0}.Missing())
}
