package manual

import "testing"

func TestParseAppendixC(t *testing.T) {
	ccMCC, dischargeAlive, exclusions, err := ParseAppendixC("testdata/appendix_C.txt")
	if err != nil {
		t.Fatalf("ParseAppendixC: %v", err)
	}

	mcc, ok := ccMCC["E1100"]
	if !ok {
		t.Fatalf("E1100 not found")
	}
	if mcc.Level != MCC {
		t.Errorf("E1100 level = %v, want MCC", mcc.Level)
	}

	cc, ok := ccMCC["E1152"]
	if !ok {
		t.Fatalf("E1152 not found")
	}
	if cc.Level != CC {
		t.Errorf("E1152 level = %v, want CC", cc.Level)
	}

	if _, ok := dischargeAlive["E1100"]; !ok {
		t.Errorf("E1100 expected in discharge-alive set")
	}

	drg193Excl, ok := exclusions["193"]
	if !ok {
		t.Fatalf("DRG 193 exclusions not found")
	}
	if _, ok := drg193Excl["E119"]; !ok {
		t.Errorf("E119 expected excluded from DRG 193")
	}
	if _, ok := exclusions["195"]["E119"]; !ok {
		t.Errorf("E119 expected excluded from DRG 195 (range 193-195)")
	}
}

func TestParseAppendixCExclusionGroupReference(t *testing.T) {
	content := `Part 1 - List of CC/MCC

 I10 Dx  Lev PDX Exclusions   ICD-10-CM Description
 A000   CC  0002:3 codes     Cholera due to Vibrio cholerae 01, biovar cholerae
`
	path := writeTemp(t, "appendix_C_exclgroup.txt", content)

	ccMCC, _, _, err := ParseAppendixC(path)
	if err != nil {
		t.Fatalf("ParseAppendixC: %v", err)
	}

	a000, ok := ccMCC["A000"]
	if !ok {
		t.Fatalf("A000 not found")
	}
	if a000.PDXExclusionGroup != "0002:3 codes" {
		t.Errorf("A000 exclusion group = %q, want %q", a000.PDXExclusionGroup, "0002:3 codes")
	}
	if a000.Description == "" || a000.Description[0] == '0' {
		t.Errorf("A000 description should not include the exclusion reference: %q", a000.Description)
	}
}

func TestParseAppendixCSkipsUnknownLevel(t *testing.T) {
	content := `Part 1 - List of CC/MCC

 I10 Dx  Lev PDX Exclusions   ICD-10-CM Description
 A000   XX  Not a real level
`
	path := writeTemp(t, "appendix_C_badlevel.txt", content)

	ccMCC, _, _, err := ParseAppendixC(path)
	if err != nil {
		t.Fatalf("ParseAppendixC: %v", err)
	}
	if _, ok := ccMCC["A000"]; ok {
		t.Errorf("expected A000 to be skipped for unrecognised level token")
	}
}
