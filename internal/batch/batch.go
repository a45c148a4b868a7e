// Package batch provides the CSV-driven batch front end's I/O and
// summary reporting: reading encounter rows, grouping each one, and
// writing result rows plus a progress/summary footer.
package batch

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"msdrggrouper/internal/grouping"
	"msdrggrouper/internal/refdata"
)

// EncounterRow is one parsed row of the input CSV, before grouping.
type EncounterRow struct {
	EncounterID string
	Encounter   grouping.Encounter
}

// EncounterReader streams encounter rows from a CSV file one record at
// a time. Multi-valued fields are ";"-delimited.
type EncounterReader struct {
	file   *os.File
	csv    *csv.Reader
	colIdx map[string]int
	rowNum int64
}

// NewEncounterReader opens path and reads its header row.
func NewEncounterReader(path string) (*EncounterReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r := csv.NewReader(bufio.NewReaderSize(f, 64*1024))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read header row: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"principal_dx"} {
		if _, ok := colIdx[required]; !ok {
			f.Close()
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	return &EncounterReader{file: f, csv: r, colIdx: colIdx, rowNum: 1}, nil
}

// Next reads and parses the next encounter row, returning io.EOF once
// the file is exhausted.
func (r *EncounterReader) Next() (EncounterRow, error) {
	record, err := r.csv.Read()
	if err != nil {
		return EncounterRow{}, err
	}
	r.rowNum++

	get := func(col string) string {
		idx, ok := r.colIdx[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	age, _ := strconv.Atoi(get("age"))

	var secondaryDx, procedures []string
	if v := get("secondary_dx"); v != "" {
		secondaryDx = splitMultiValue(v)
	}
	if v := get("procedures"); v != "" {
		procedures = splitMultiValue(v)
	}

	sex := grouping.Sex(strings.ToUpper(get("sex")))
	if sex == "" {
		sex = grouping.SexUnknown
	}

	status := parseDischargeStatus(get("discharge_status"))

	enc := grouping.NewEncounter(get("principal_dx"), secondaryDx, procedures, age, sex, status)

	return EncounterRow{
		EncounterID: get("encounter_id"),
		Encounter:   enc,
	}, nil
}

// Close releases the underlying file.
func (r *EncounterReader) Close() error {
	return r.file.Close()
}

func splitMultiValue(v string) []string {
	parts := strings.Split(v, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDischargeStatus(s string) grouping.DischargeStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expired":
		return grouping.Expired
	case "transferred":
		return grouping.Transferred
	default:
		return grouping.Alive
	}
}

// Summary accumulates per-run category counts for the progress and
// summary footer printed at the end of a batch run.
type Summary struct {
	Total       int
	Ungroupable int
	Surgical    int
	Medical     int
	WithMCC     int
	WithCC      int
}

// Observe folds one grouped result into the running summary.
func (s *Summary) Observe(res grouping.DRGResult) {
	s.Total++
	switch {
	case res.DRG == grouping.UngroupableDRG:
		s.Ungroupable++
	case res.Type == "Surgical":
		s.Surgical++
	default:
		s.Medical++
	}
	if res.MCCDx != "" {
		s.WithMCC++
	}
	if res.CCDx != "" {
		s.WithCC++
	}
}

// Print writes an end-of-run summary footer to w.
func (s *Summary) Print(w io.Writer, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Processed %d encounters in %s\n", s.Total, elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  Ungroupable: %d\n", s.Ungroupable)
	fmt.Fprintf(w, "  Surgical:    %d\n", s.Surgical)
	fmt.Fprintf(w, "  Medical:     %d\n", s.Medical)
	fmt.Fprintf(w, "  With MCC:    %d\n", s.WithMCC)
	fmt.Fprintf(w, "  With CC:     %d\n", s.WithCC)
}

// ResultWriter streams grouped results to a CSV file, in the column
// order the batch contract specifies.
type ResultWriter struct {
	file    *os.File
	csv     *csv.Writer
	verbose bool
}

// NewResultWriter creates path and writes the header row.
func NewResultWriter(path string, verbose bool) (*ResultWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"encounter_id", "principal_dx", "drg", "mdc", "description", "type", "mcc_dx", "cc_dx", "notes"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return &ResultWriter{file: f, csv: w, verbose: verbose}, nil
}

// Write appends one grouped encounter's result row.
func (w *ResultWriter) Write(encounterID, principalDx string, res grouping.DRGResult) error {
	notes := ""
	if w.verbose {
		notes = strings.Join(res.Notes, "; ")
	}
	record := []string{
		encounterID,
		principalDx,
		res.DRG,
		res.MDC,
		res.Description,
		res.Type,
		res.MCCDx,
		res.CCDx,
		notes,
	}
	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("write result row: %w", err)
	}
	return nil
}

// Close flushes buffered output and closes the underlying file.
func (w *ResultWriter) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("flush results: %w", err)
	}
	return w.file.Close()
}

// AuditRecorder is the collaborator interface an optional audit-trail
// sink implements (see internal/auditsink). Batch mode calls Record for
// every grouped encounter when one is configured.
type AuditRecorder interface {
	Record(encounterID string, res grouping.DRGResult) error
}

// Options configures a batch Run.
type Options struct {
	Verbose    bool
	ParquetOut string // empty disables the Parquet sink
	Audit      AuditRecorder
}

// Run drives a full batch: reads every encounter from inputPath, groups
// it against store, writes the result CSV to outputPath, optionally
// mirrors each result to a Parquet file and/or an audit sink, and
// returns the run summary. Progress is logged periodically.
func Run(store *refdata.Store, inputPath, outputPath string, opts Options) (Summary, error) {
	start := time.Now()

	reader, err := NewEncounterReader(inputPath)
	if err != nil {
		return Summary{}, err
	}
	defer reader.Close()

	writer, err := NewResultWriter(outputPath, opts.Verbose)
	if err != nil {
		return Summary{}, err
	}

	var parquetSink *ParquetSink
	if opts.ParquetOut != "" {
		parquetSink = NewParquetSink(opts.ParquetOut)
	}

	var summary Summary
	lastLog := time.Now()

	for {
		row, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			writer.Close()
			return summary, fmt.Errorf("read encounter row %d: %w", reader.rowNum, err)
		}

		res := grouping.Group(store, row.Encounter)
		summary.Observe(res)

		if err := writer.Write(row.EncounterID, row.Encounter.PrincipalDx, res); err != nil {
			writer.Close()
			return summary, err
		}
		if parquetSink != nil {
			parquetSink.Add(row.EncounterID, row.Encounter.PrincipalDx, res, opts.Verbose)
		}
		if opts.Audit != nil {
			if err := opts.Audit.Record(row.EncounterID, res); err != nil {
				writer.Close()
				return summary, fmt.Errorf("record audit row for %s: %w", row.EncounterID, err)
			}
		}

		if time.Since(lastLog) >= 5*time.Second {
			fmt.Printf("  progress: %d encounters processed\n", summary.Total)
			lastLog = time.Now()
		}
	}

	if err := writer.Close(); err != nil {
		return summary, err
	}
	if parquetSink != nil {
		if err := parquetSink.Close(); err != nil {
			return summary, err
		}
	}

	summary.Print(os.Stdout, time.Since(start))
	return summary, nil
}
