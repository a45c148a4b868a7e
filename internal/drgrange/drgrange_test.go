package drgrange

import (
	"reflect"
	"testing"
)

func TestExpand(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"371-373", []string{"371", "372", "373"}},
		{"371,373", []string{"371", "373"}},
		{"001", []string{"001"}},
		{"1-3", []string{"001", "002", "003"}},
		{"", nil},
		{"082-084", []string{"082", "083", "084"}},
		{"1,2,3", []string{"001", "002", "003"}},
		{"ABC", []string{"ABC"}},
	}
	for _, c := range cases {
		got := Expand(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Expand(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestExpandDuplicatesPreserved(t *testing.T) {
	got := Expand("001,001")
	want := []string{"001", "001"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand duplicates: got %v want %v", got, want)
	}
}

func TestExpandOrderPreserved(t *testing.T) {
	got := Expand("373,371-372")
	want := []string{"373", "371", "372"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand order: got %v want %v", got, want)
	}
}
