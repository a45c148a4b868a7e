package normalize

import "testing"

func TestCode(t *testing.T) {
	cases := map[string]string{
		"i25.10":  "I2510",
		"I2510":   "I2510",
		"":        "",
		"5a1522f": "5A1522F",
		"A000":    "A000",
	}
	for in, want := range cases {
		if got := Code(in); got != want {
			t.Errorf("Code(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCodeIdempotent(t *testing.T) {
	for _, s := range []string{"i25.10", "I2510", "02YA0Z0", "e11.00"} {
		once := Code(s)
		twice := Code(once)
		if once != twice {
			t.Errorf("Code not idempotent for %q: once=%q twice=%q", s, once, twice)
		}
	}
}

func TestCodes(t *testing.T) {
	got := Codes([]string{"i10", "e11.9"})
	want := []string{"I10", "E119"}
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Codes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
