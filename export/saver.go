package export

import (
	"strings"

	"dayahead/types"
)

// Saver writes a normalized price series to one file.
type Saver interface {
	Extension() string
	Save(series *types.PriceSeries, path string) error
}

// NewSaver returns the saver for a format, or nil when the format is
// unsupported.
func NewSaver(format string) Saver {
	switch strings.ToLower(format) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	default:
		return nil
	}
}
