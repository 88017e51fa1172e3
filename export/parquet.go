package export

import (
	"time"

	"github.com/parquet-go/parquet-go"

	"dayahead/types"
)

type priceRow struct {
	Timestamp string   `parquet:"timestamp"` // RFC3339, carries the UTC offset
	Unix      int64    `parquet:"unix"`
	Price     *float64 `parquet:"price,optional"` // nil for an unfilled hour
	Filled    bool     `parquet:"filled"`
}

// ParquetSaver writes the series as a Parquet file.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(series *types.PriceSeries, path string) error {
	rows := make([]priceRow, 0, len(series.Hours))
	for _, h := range series.Hours {
		row := priceRow{
			Timestamp: h.Time.Format(time.RFC3339),
			Unix:      h.Time.Unix(),
			Filled:    h.Filled,
		}
		if !h.Missing() {
			price := h.Price
			row.Price = &price
		}
		rows = append(rows, row)
	}
	return parquet.WriteFile(path, rows)
}
