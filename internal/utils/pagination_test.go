package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		// empty -> default
		{"", 20, 20},
		// valid ints
		{"7", 0, 7},
		{"-3", 1, -3},
		{"0042", 99, 42},
		// invalid -> default (no trim)
		{"abc", 5, 5},
		{" 7", 9, 9},
		// overflow -> default
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}
