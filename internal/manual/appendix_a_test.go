package manual

import "testing"

func TestParseAppendixA(t *testing.T) {
	defs, err := ParseAppendixA("testdata/appendix_A.txt")
	if err != nil {
		t.Fatalf("ParseAppendixA: %v", err)
	}

	d, ok := defs["303"]
	if !ok {
		t.Fatalf("DRG 303 not found")
	}
	if d.MDC != "05" {
		t.Errorf("DRG 303 MDC = %q, want 05", d.MDC)
	}
	if d.Type != Medical {
		t.Errorf("DRG 303 type = %v, want Medical", d.Type)
	}

	preMDC, ok := defs["001"]
	if !ok {
		t.Fatalf("DRG 001 not found")
	}
	if preMDC.MDC != "" {
		t.Errorf("DRG 001 MDC = %q, want empty (Pre-MDC)", preMDC.MDC)
	}
	if preMDC.Type != Surgical {
		t.Errorf("DRG 001 type = %v, want Surgical", preMDC.Type)
	}
}

func TestParseAppendixAMissingFile(t *testing.T) {
	if _, err := ParseAppendixA("testdata/does_not_exist.txt"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseAppendixASkipsDecorativeLines(t *testing.T) {
	defs, err := ParseAppendixA("testdata/appendix_A.txt")
	if err != nil {
		t.Fatalf("ParseAppendixA: %v", err)
	}
	if len(defs) == 0 {
		t.Fatal("expected at least one DRG definition")
	}
	// The fixture has 18 data rows below its banner and heading lines.
	if len(defs) != 18 {
		t.Errorf("got %d DRG definitions, want 18 (one per data row, none from decorative lines)", len(defs))
	}
}
