// Package plot renders best-effort PNG charts of a normalized price series.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"dayahead/types"
)

const (
	lineFileName    = "line.png"
	heatmapFileName = "heatmap.png"
)

// WriteAll renders the line chart and the day-by-hour heatmap into dir.
// Failures here must never abort the data export, so the caller is expected
// to log the returned error as a warning.
func WriteAll(series *types.PriceSeries, dir string) error {
	if len(series.Hours) == 0 {
		return errors.New("nothing to plot, series is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create plot directory: %w", err)
	}

	return errors.Join(
		writeLine(series, filepath.Join(dir, lineFileName)),
		writeHeatmap(series, filepath.Join(dir, heatmapFileName)),
	)
}

func writeLine(series *types.PriceSeries, path string) error {
	pts := make(plotter.XYs, 0, len(series.Hours))
	for _, h := range series.Hours {
		if h.Missing() {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(h.Time.Unix()), Y: h.Price})
	}
	if len(pts) == 0 {
		return errors.New("no prices to draw a line from")
	}

	loc := series.Hours[0].Time.Location()

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Day-ahead prices for %s", series.Zone)
	p.Y.Label.Text = string(series.Unit)
	p.X.Tick.Marker = plot.TimeTicks{
		Format: "01-02\n15:04",
		Time:   func(t float64) time.Time { return time.Unix(int64(t), 0).In(loc) },
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build line plot: %w", err)
	}
	p.Add(line, plotter.NewGrid())

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save line plot: %w", err)
	}
	return nil
}

// priceGrid is a day-by-hour grid of mean prices, NaN where an hour is
// missing. Rows are civil days in the series' timezone.
type priceGrid struct {
	days  []string
	cells [][24]float64
}

func (g priceGrid) Dims() (int, int)   { return 24, len(g.cells) }
func (g priceGrid) Z(c, r int) float64 { return g.cells[r][c] }
func (g priceGrid) X(c int) float64    { return float64(c) }
func (g priceGrid) Y(r int) float64    { return float64(r) }

func buildGrid(series *types.PriceSeries) priceGrid {
	var g priceGrid
	idx := make(map[string]int)
	sums := make([][24]float64, 0)
	counts := make([][24]int, 0)

	for _, h := range series.Hours {
		if h.Missing() {
			continue
		}
		day := h.Time.Format("2006-01-02")
		r, ok := idx[day]
		if !ok {
			r = len(g.days)
			idx[day] = r
			g.days = append(g.days, day)
			sums = append(sums, [24]float64{})
			counts = append(counts, [24]int{})
		}
		hour := h.Time.Hour()
		sums[r][hour] += h.Price
		counts[r][hour]++ // the repeated fall-back hour averages into one cell
	}

	g.cells = make([][24]float64, len(g.days))
	for r := range g.cells {
		for c := 0; c < 24; c++ {
			if counts[r][c] == 0 {
				g.cells[r][c] = math.NaN()
				continue
			}
			g.cells[r][c] = sums[r][c] / float64(counts[r][c])
		}
	}
	return g
}

func writeHeatmap(series *types.PriceSeries, path string) error {
	g := buildGrid(series)
	if len(g.days) == 0 {
		return errors.New("no prices to draw a heatmap from")
	}

	min, max := math.Inf(1), math.Inf(-1)
	for r := range g.cells {
		for c := 0; c < 24; c++ {
			v := g.cells[r][c]
			if math.IsNaN(v) {
				continue
			}
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
	}
	if min == max {
		max = min + 1
	}

	h := plotter.NewHeatMap(g, moreland.SmoothBlueRed().Palette(255))
	h.Min, h.Max = min, max
	h.NaN = color.Transparent

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Day-ahead prices for %s by hour of day", series.Zone)
	p.X.Label.Text = "hour of day"
	p.Add(h)
	p.NominalY(g.days...)

	if err := p.Save(12*vg.Inch, vg.Length(1+len(g.days))*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save heatmap: %w", err)
	}
	return nil
}
