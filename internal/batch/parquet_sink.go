package batch

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"msdrggrouper/internal/grouping"
)

// ResultRow is the Parquet projection of one grouped encounter.
type ResultRow struct {
	EncounterID string `parquet:"encounter_id"`
	PrincipalDx string `parquet:"principal_dx"`
	DRG         string `parquet:"drg"`
	MDC         string `parquet:"mdc,optional"`
	Description string `parquet:"description"`
	Type        string `parquet:"type"`
	MCCDx       string `parquet:"mcc_dx,optional"`
	CCDx        string `parquet:"cc_dx,optional"`
	Notes       string `parquet:"notes,optional"`
}

// ParquetSink accumulates grouped results and flushes them to a
// Parquet file on Close using parquet.NewGenericWriter[T].
type ParquetSink struct {
	path string
	rows []ResultRow
}

// NewParquetSink prepares a sink that writes to path on Close.
func NewParquetSink(path string) *ParquetSink {
	return &ParquetSink{path: path}
}

// Add appends one grouped result's Parquet projection.
func (s *ParquetSink) Add(encounterID, principalDx string, res grouping.DRGResult, verbose bool) {
	notes := ""
	if verbose {
		for i, n := range res.Notes {
			if i > 0 {
				notes += "; "
			}
			notes += n
		}
	}
	s.rows = append(s.rows, ResultRow{
		EncounterID: encounterID,
		PrincipalDx: principalDx,
		DRG:         res.DRG,
		MDC:         res.MDC,
		Description: res.Description,
		Type:        res.Type,
		MCCDx:       res.MCCDx,
		CCDx:        res.CCDx,
		Notes:       notes,
	})
}

// Close writes every accumulated row to the configured Parquet file.
func (s *ParquetSink) Close() error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.path, err)
	}
	defer f.Close()

	writer := parquet.NewGenericWriter[ResultRow](f)
	if _, err := writer.Write(s.rows); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
