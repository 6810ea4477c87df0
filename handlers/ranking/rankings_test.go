package ranking

import "testing"

func TestValidRank(t *testing.T) {
	cases := []struct {
		rank float64
		want bool
	}{
		{1, true},
		{2, true},
		{150, true},
		{0, false},
		{-1, false},
		{1.5, false},
		{2.0001, false},
	}

	for _, tc := range cases {
		if got := validRank(tc.rank); got != tc.want {
			t.Errorf("validRank(%v) = %v, want %v", tc.rank, got, tc.want)
		}
	}
}
