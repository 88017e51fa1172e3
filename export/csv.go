package export

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"dayahead/types"
)

// CSVSaver writes rows of (timestamp, price, filled). Timestamps carry the
// UTC offset, which keeps the repeated fall-back hour distinguishable.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(series *types.PriceSeries, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)

	if err := w.Write([]string{"timestamp", "price", "filled"}); err != nil {
		return err
	}
	for _, h := range series.Hours {
		price := ""
		if !h.Missing() {
			price = strconv.FormatFloat(h.Price, 'f', -1, 64)
		}
		if err := w.Write([]string{
			h.Time.Format(time.RFC3339),
			price,
			strconv.FormatBool(h.Filled),
		}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
