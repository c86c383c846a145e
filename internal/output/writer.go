// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/litharvest/pkg/types"
)

// Format selects the serialization of a provider's records.
type Format string

// Supported formats.
const (
	FormatCSV Format = "csv"
	FormatCSL Format = "csl"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatCSL:
		return FormatCSL, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want csv or csl)", s)
	}
}

// Writer writes one file per provider into Dir.
type Writer struct {
	Dir           string
	Format        Format
	MissingMarker string
	Logger        *zap.Logger
}

// Write serializes records for provider according to cfg and returns the
// path written. When records is empty and cfg.WriteEmpty is false no file
// is created and the returned path is empty. Files are written to a
// temporary name and renamed into place, so a failed write never leaves a
// partial file behind.
func (w *Writer) Write(provider string, cfg types.OutputConfig, records []types.CanonicalRecord) (string, error) {
	log := w.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("provider", provider))

	if cfg.File == "" {
		return "", fmt.Errorf("no output file configured for %s", provider)
	}
	if len(records) == 0 && !cfg.WriteEmpty {
		log.Info("no records collected, file not created")
		return "", nil
	}

	format := w.Format
	if format == "" {
		format = FormatCSV
	}
	path := filepath.Join(w.Dir, cfg.File)

	var encode func(io.Writer) error
	switch format {
	case FormatCSV:
		layout, err := LayoutFor(provider)
		if err != nil {
			return "", err
		}
		marker := w.MissingMarker
		if marker == "" {
			marker = DefaultMissingMarker
		}
		encode = func(out io.Writer) error { return WriteCSV(out, layout, records, marker) }
	case FormatCSL:
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".yaml"
		encode = func(out io.Writer) error { return WriteCSL(out, records) }
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}

	if err := writeAtomic(path, encode); err != nil {
		return "", err
	}
	log.Info("output written", zap.String("path", path), zap.Int("count", len(records)))
	return path, nil
}

// WriteCSV writes the layout header and one row per record.
func WriteCSV(out io.Writer, layout Layout, records []types.CanonicalRecord, marker string) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(layout.Header()); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i := range records {
		if err := cw.Write(layout.Row(&records[i], marker)); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

func writeAtomic(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
