package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dayahead/types"
)

// Source identifier recorded in metadata.
const Source = "ENTSO-E"

const metadataFileName = "metadata.json"

// PriceFileName builds the deterministic price file name for a run.
func PriceFileName(zone, start, end, ext string) string {
	return fmt.Sprintf("prices_%s_%s_%s.%s", zone, start, end, ext)
}

// Exporter writes the price file and metadata record into one directory.
type Exporter struct {
	dir    string
	logger *slog.Logger
}

func New(dir string, logger *slog.Logger) *Exporter {
	return &Exporter{dir: dir, logger: logger}
}

func (e *Exporter) Dir() string { return e.dir }

// WritePrices serializes the series in the requested format and returns the
// path written.
func (e *Exporter) WritePrices(series *types.PriceSeries, meta types.Metadata, format string) (string, error) {
	saver := NewSaver(format)
	if saver == nil {
		return "", &types.ExportError{Reason: fmt.Sprintf("unsupported export format %q", format)}
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", &types.ExportError{Reason: fmt.Sprintf("failed to create output directory %q", e.dir), Err: err}
	}

	path := filepath.Join(e.dir, PriceFileName(meta.Zone, meta.Start, meta.End, saver.Extension()))
	if err := saver.Save(series, path); err != nil {
		return "", &types.ExportError{Reason: fmt.Sprintf("failed to write price file %q", path), Err: err}
	}

	e.logger.Debug("price file written", slog.String("path", path), slog.Int("rows", len(series.Hours)))
	return path, nil
}

// WriteMetadata writes the run metadata record next to the price file.
func (e *Exporter) WriteMetadata(meta types.Metadata) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", &types.ExportError{Reason: fmt.Sprintf("failed to create output directory %q", e.dir), Err: err}
	}

	path := filepath.Join(e.dir, metadataFileName)
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", &types.ExportError{Reason: "failed to marshal metadata", Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &types.ExportError{Reason: fmt.Sprintf("failed to write metadata file %q", path), Err: err}
	}

	e.logger.Debug("metadata written", slog.String("path", path))
	return path, nil
}
