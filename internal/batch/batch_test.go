package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"msdrggrouper/internal/refdata"
)

func loadTestStore(t *testing.T) *refdata.Store {
	t.Helper()
	store, err := refdata.Load("../manual/testdata")
	if err != nil {
		t.Fatalf("refdata.Load: %v", err)
	}
	return store
}

func TestEncounterReaderParsesMultiValuedFields(t *testing.T) {
	content := "encounter_id,principal_dx,secondary_dx,procedures,age,sex,discharge_status\n" +
		"E1,J189,E119;E1100,,70,F,alive\n"
	path := filepath.Join(t.TempDir(), "encounters.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	reader, err := NewEncounterReader(path)
	if err != nil {
		t.Fatalf("NewEncounterReader: %v", err)
	}
	defer reader.Close()

	row, err := reader.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row.EncounterID != "E1" {
		t.Errorf("EncounterID = %q, want E1", row.EncounterID)
	}
	if row.Encounter.PrincipalDx != "J189" {
		t.Errorf("PrincipalDx = %q, want J189", row.Encounter.PrincipalDx)
	}
	if len(row.Encounter.SecondaryDx) != 2 || row.Encounter.SecondaryDx[0] != "E119" || row.Encounter.SecondaryDx[1] != "E1100" {
		t.Errorf("SecondaryDx = %v, want [E119 E1100]", row.Encounter.SecondaryDx)
	}
	if row.Encounter.DischargeStatus != "ALIVE" {
		t.Errorf("DischargeStatus = %q, want ALIVE", row.Encounter.DischargeStatus)
	}
}

func TestRunWritesResultsAndSummary(t *testing.T) {
	store := loadTestStore(t)

	content := "encounter_id,principal_dx,secondary_dx,procedures,age,sex,discharge_status\n" +
		"E1,J189,E1100,,70,F,alive\n" +
		"E2,INVALID,,,,U,alive\n"
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "encounters.csv")
	outputPath := filepath.Join(dir, "results.csv")
	if err := os.WriteFile(inputPath, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	summary, err := Run(store, inputPath, outputPath, Options{Verbose: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Total != 2 {
		t.Errorf("Total = %d, want 2", summary.Total)
	}
	if summary.Ungroupable != 1 {
		t.Errorf("Ungroupable = %d, want 1", summary.Ungroupable)
	}
	if summary.WithMCC != 1 {
		t.Errorf("WithMCC = %d, want 1", summary.WithMCC)
	}

	out, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "193") {
		t.Errorf("expected row for E1 to contain DRG 193: %q", lines[1])
	}
	if !strings.Contains(lines[2], "999") {
		t.Errorf("expected row for E2 to contain the sentinel DRG: %q", lines[2])
	}
}
