package doc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		spec string
		want []int
	}{
		{"1", []int{1}},
		{"1,3,5", []int{1, 3, 5}},
		{"2-5", []int{2, 3, 4, 5}},
		{"1,3-5,9", []int{1, 3, 4, 5, 9}},
		{"3,1,2", []int{1, 2, 3}},
		{"1,1,2-3,3", []int{1, 2, 3}},
		{"5-3", nil},     // inverted, contributes nothing
		{"0,2", []int{2}}, // pages are 1-based
		{"x,2", []int{2}}, // malformed tokens are skipped
		{" 1 , 2 - 3 ", []int{1, 2, 3}},
	}
	for _, tt := range tests {
		r, err := ParseRange(tt.spec)
		if err != nil {
			t.Errorf("%q: %v", tt.spec, err)
			continue
		}
		if diff := cmp.Diff(tt.want, r.Pages()); diff != "" {
			t.Errorf("%q pages mismatch (-want +got):\n%s", tt.spec, diff)
		}
	}
}

func TestParseRangeEmpty(t *testing.T) {
	r, err := ParseRange("")
	if err != nil {
		t.Fatal(err)
	}
	if r != nil {
		t.Fatal("empty spec should return a nil range")
	}

	// A nil range matches every valid page and has length zero.
	if !r.Contains(1) || !r.Contains(1000) {
		t.Error("nil range should contain every page")
	}
	if r.Contains(0) || r.Contains(-2) {
		t.Error("nil range should not contain invalid page numbers")
	}
	if r.Len() != 0 {
		t.Errorf("nil range length: got %d", r.Len())
	}
}

func TestParseRangeOpenEnded(t *testing.T) {
	for _, spec := range []string{"5-", "-5", "1,3-"} {
		if _, err := ParseRange(spec); err == nil {
			t.Errorf("%q should be a parse error", spec)
		}
	}
}

func TestRangeContains(t *testing.T) {
	r, err := ParseRange("2-4,8")
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{2, 3, 4, 8} {
		if !r.Contains(n) {
			t.Errorf("should contain %d", n)
		}
	}
	for _, n := range []int{1, 5, 7, 9} {
		if r.Contains(n) {
			t.Errorf("should not contain %d", n)
		}
	}
}

func TestRangeString(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"1,2,3,7", "1-3,7"},
		{"7,1,3,2", "1-3,7"},
		{"4", "4"},
		{"1,3,5", "1,3,5"},
	}
	for _, tt := range tests {
		r, err := ParseRange(tt.spec)
		if err != nil {
			t.Fatal(err)
		}
		if got := r.String(); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.spec, got, tt.want)
		}

		// The canonical form parses back to an equal set.
		again, err := ParseRange(r.String())
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(r.Pages(), again.Pages()); diff != "" {
			t.Errorf("%q did not round trip:\n%s", tt.spec, diff)
		}
	}
}
