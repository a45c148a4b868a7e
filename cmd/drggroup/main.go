// Command drggroup assigns an MS-DRG to a patient encounter, either as
// a single command-line encounter or as a CSV batch.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"msdrggrouper/internal/auditsink"
	"msdrggrouper/internal/batch"
	"msdrggrouper/internal/grouping"
	"msdrggrouper/internal/refdata"
)

func main() {
	dataDir := flag.String("data-dir", "", "Path to the CMS Definitions Manual text directory")
	pdx := flag.String("pdx", "", "Principal diagnosis (ICD-10-CM code)")
	sdx := flag.String("sdx", "", "Secondary diagnoses (comma-separated ICD-10-CM codes)")
	proc := flag.String("proc", "", "Procedure codes (comma-separated ICD-10-PCS codes)")
	age := flag.Int("age", 0, "Patient age in years")
	sex := flag.String("sex", "U", "Patient sex: M, F, or U")
	discharge := flag.String("discharge", "alive", "Discharge status: alive, expired, or transferred")
	input := flag.String("input", "", "Input CSV file for batch processing")
	output := flag.String("output", "", "Output CSV file for batch results")
	parquetOut := flag.String("parquet-out", "", "Optional Parquet mirror of the batch results")
	pgConn := flag.String("pg", "", "Optional PostgreSQL connection string for an audit trail (batch mode only)")
	verbose := flag.Bool("verbose", false, "Show detailed grouping notes")
	flag.Parse()

	if *dataDir == "" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  Single encounter: drggroup -data-dir <dir> -pdx <code> [-sdx a,b] [-proc a,b] [-age N] [-sex M|F|U] [-discharge alive|expired|transferred] [-verbose]")
		fmt.Fprintln(os.Stderr, "  Batch:            drggroup -data-dir <dir> -input encounters.csv -output results.csv [-verbose] [-parquet-out results.parquet] [-pg <connstr>]")
		os.Exit(1)
	}

	store, err := refdata.Load(*dataDir)
	if err != nil {
		log.Fatalf("load reference data: %v", err)
	}

	switch {
	case *input != "":
		if *output == "" {
			log.Fatal("-output is required in batch mode")
		}
		if err := runBatch(store, *input, *output, *parquetOut, *pgConn, *verbose); err != nil {
			log.Fatal(err)
		}
	case *pdx != "":
		runSingle(store, *pdx, *sdx, *proc, *age, *sex, *discharge, *verbose)
	default:
		fmt.Fprintln(os.Stderr, "Error: either -pdx or -input is required")
		os.Exit(1)
	}
}

func runSingle(store *refdata.Store, pdx, sdx, proc string, age int, sex, discharge string, verbose bool) {
	enc := grouping.NewEncounter(
		pdx,
		splitNonEmpty(sdx, ","),
		splitNonEmpty(proc, ","),
		age,
		grouping.Sex(strings.ToUpper(sex)),
		dischargeFromFlag(discharge),
	)
	res := grouping.Group(store, enc)

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("MS-DRG GROUPING RESULT")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("DRG:         %s\n", res.DRG)
	fmt.Printf("Description: %s\n", res.Description)
	mdc := res.MDC
	if mdc == "" {
		mdc = "Pre-MDC"
	}
	fmt.Printf("MDC:         %s\n", mdc)
	fmt.Printf("Type:        %s\n", res.Type)

	switch {
	case res.MCCDx != "":
		fmt.Printf("MCC:         %s\n", res.MCCDx)
	case res.CCDx != "":
		fmt.Printf("CC:          %s\n", res.CCDx)
	default:
		fmt.Println("CC/MCC:      None")
	}

	if res.SurgicalProcedure != "" {
		fmt.Printf("Primary Procedure: %s\n", res.SurgicalProcedure)
	}

	if verbose && len(res.Notes) > 0 {
		fmt.Println("\nGrouping Notes:")
		for _, note := range res.Notes {
			fmt.Printf("  - %s\n", note)
		}
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()
}

func runBatch(store *refdata.Store, inputPath, outputPath, parquetOut, pgConn string, verbose bool) error {
	opts := batch.Options{Verbose: verbose, ParquetOut: parquetOut}

	if pgConn != "" {
		sink, err := auditsink.Open(context.Background(), pgConn)
		if err != nil {
			return fmt.Errorf("connect audit sink: %w", err)
		}
		defer sink.Close()
		opts.Audit = sink
		fmt.Printf("Audit run ID: %s\n", sink.RunID)
	}

	_, err := batch.Run(store, inputPath, outputPath, opts)
	return err
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func dischargeFromFlag(s string) grouping.DischargeStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expired":
		return grouping.Expired
	case "transferred":
		return grouping.Transferred
	default:
		return grouping.Alive
	}
}
