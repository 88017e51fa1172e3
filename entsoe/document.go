package entsoe

import (
	"encoding/xml"
	"fmt"
	"slices"
	"strings"
	"time"

	"dayahead/types"
)

// The A44 response is a Publication_MarketDocument with one or more
// TimeSeries, each holding Periods of positioned price Points. Interval
// timestamps are UTC with minute precision ("2025-09-01T00:00Z").
const intervalLayout = "2006-01-02T15:04Z"

type publicationDocument struct {
	XMLName    xml.Name     `xml:"Publication_MarketDocument"`
	TimeSeries []timeSeries `xml:"TimeSeries"`
}

type timeSeries struct {
	Currency string   `xml:"currency_Unit.name"`
	Unit     string   `xml:"price_Measure_Unit.name"`
	Periods  []period `xml:"Period"`
}

type period struct {
	Interval   timeInterval `xml:"timeInterval"`
	Resolution string       `xml:"resolution"`
	Points     []point      `xml:"Point"`
}

type timeInterval struct {
	Start string `xml:"start"`
	End   string `xml:"end"`
}

type point struct {
	Position int     `xml:"position"`
	Price    float64 `xml:"price.amount"`
}

type acknowledgementDocument struct {
	XMLName xml.Name    `xml:"Acknowledgement_MarketDocument"`
	Reasons []ackReason `xml:"Reason"`
}

type ackReason struct {
	Code string `xml:"code"`
	Text string `xml:"text"`
}

func (a acknowledgementDocument) reason() string {
	texts := make([]string, 0, len(a.Reasons))
	for _, r := range a.Reasons {
		if r.Text != "" {
			texts = append(texts, r.Text)
		}
	}
	if len(texts) == 0 {
		return "no reason given"
	}
	return strings.Join(texts, "; ")
}

func parseResolution(res string) (time.Duration, error) {
	switch res {
	case "PT60M":
		return time.Hour, nil
	case "PT30M":
		return 30 * time.Minute, nil
	case "PT15M":
		return 15 * time.Minute, nil
	default:
		return 0, fmt.Errorf("unsupported period resolution %q", res)
	}
}

// parsePublication turns an A44 document into an hourly series in EUR/MWh
// with UTC hour-start timestamps. Sub-hourly periods are aggregated to
// hourly means. When a document carries overlapping time series for the same
// hour, the first occurrence wins.
func parsePublication(body []byte, zone string) (*types.PriceSeries, error) {
	var doc publicationDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, &types.FetchError{Reason: "failed to decode response", Err: err}
	}

	type bucket struct {
		sum   float64
		count int
	}
	hours := make(map[int64]float64)

	for _, ts := range doc.TimeSeries {
		if ts.Unit != "" && !strings.EqualFold(ts.Unit, "MWH") {
			return nil, &types.FetchError{Reason: fmt.Sprintf("unexpected price unit %q", ts.Unit)}
		}
		local := make(map[int64]*bucket)
		for _, p := range ts.Periods {
			step, err := parseResolution(p.Resolution)
			if err != nil {
				return nil, &types.FetchError{Reason: "failed to decode response", Err: err}
			}
			start, err := time.Parse(intervalLayout, p.Interval.Start)
			if err != nil {
				return nil, &types.FetchError{Reason: fmt.Sprintf("malformed interval start %q", p.Interval.Start), Err: err}
			}
			for _, pt := range p.Points {
				if pt.Position < 1 {
					continue
				}
				at := start.Add(time.Duration(pt.Position-1) * step)
				hour := at.Truncate(time.Hour).Unix()
				b, ok := local[hour]
				if !ok {
					b = &bucket{}
					local[hour] = b
				}
				b.sum += pt.Price
				b.count++
			}
		}
		for hour, b := range local {
			if _, ok := hours[hour]; !ok {
				hours[hour] = b.sum / float64(b.count)
			}
		}
	}

	keys := make([]int64, 0, len(hours))
	for k := range hours {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	series := &types.PriceSeries{Zone: zone, Unit: types.UnitEURPerMWh}
	series.Hours = make([]types.HourPrice, 0, len(keys))
	for _, k := range keys {
		series.Hours = append(series.Hours, types.HourPrice{
			Time:  time.Unix(k, 0).UTC(),
			Price: hours[k],
		})
	}

	return series, nil
}
