package manual

import "testing"

func TestParseAppendixB(t *testing.T) {
	diagnoses, err := ParseAppendixB("testdata/appendix_B.txt")
	if err != nil {
		t.Fatalf("ParseAppendixB: %v", err)
	}

	j189, ok := diagnoses["J189"]
	if !ok {
		t.Fatalf("J189 not found")
	}
	if len(j189.Mappings) != 1 {
		t.Fatalf("J189 mappings = %d, want 1", len(j189.Mappings))
	}
	if j189.Mappings[0].MDC != "04" {
		t.Errorf("J189 MDC = %q, want 04", j189.Mappings[0].MDC)
	}
	wantDRGs := []string{"193", "194", "195"}
	if len(j189.Mappings[0].DRGs) != len(wantDRGs) {
		t.Fatalf("J189 DRGs = %v, want %v", j189.Mappings[0].DRGs, wantDRGs)
	}
	for i, want := range wantDRGs {
		if j189.Mappings[0].DRGs[i] != want {
			t.Errorf("J189 DRGs[%d] = %q, want %q", i, j189.Mappings[0].DRGs[i], want)
		}
	}
}

func TestParseAppendixBContinuationLines(t *testing.T) {
	content := `I10 Dx  MDC DRG(s)      ICD-10-CM Description
A021    18  870-872     Salmonella sepsis
        25  974-976     continuation mapping
A022    06  371         Localized salmonella infection
`
	path := writeTemp(t, "appendix_B_continuation.txt", content)

	diagnoses, err := ParseAppendixB(path)
	if err != nil {
		t.Fatalf("ParseAppendixB: %v", err)
	}

	a021, ok := diagnoses["A021"]
	if !ok {
		t.Fatalf("A021 not found")
	}
	if len(a021.Mappings) != 2 {
		t.Fatalf("A021 mappings = %d, want 2 (primary + continuation)", len(a021.Mappings))
	}
	if a021.Mappings[0].MDC != "18" {
		t.Errorf("A021 primary MDC = %q, want 18 (order significant)", a021.Mappings[0].MDC)
	}
	if a021.Mappings[1].MDC != "25" {
		t.Errorf("A021 continuation MDC = %q, want 25", a021.Mappings[1].MDC)
	}

	if _, ok := diagnoses["A022"]; !ok {
		t.Fatalf("A022 not found — closing the prior diagnosis on a new code line failed")
	}
}
