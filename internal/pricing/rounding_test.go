package pricing

import (
	"math"
	"testing"
)

func TestPrettyPrice_Examples(t *testing.T) {
	cases := []struct {
		name    string
		raw     float64
		endings []string
		want    float64
	}{
		{"nearest zero beats nine", 1243, []string{"9", "0"}, 1240},
		{"two digit ending rounds up", 189.2, []string{"95"}, 195},
		{"exact match stays", 140, []string{"9", "0"}, 140},
		{"exact multiple of step", 1000, []string{"00"}, 1000},
		{"nine ending above", 1247, []string{"9", "0"}, 1249},
		{"fractional value", 149.4, []string{"9", "0"}, 149},
		{"fractional value rounds up", 149.6, []string{"9", "0"}, 150},
		{"leading zero ending", 1212, []string{"05"}, 1205},
		{"tie within ending goes lower", 5, []string{"0"}, 0},
		{"tie across endings keeps first listed", 9.5, []string{"9", "0"}, 9},
		{"tie across endings keeps first listed reversed", 9.5, []string{"0", "9"}, 10},
		{"negative candidate skipped", 3, []string{"9"}, 9},
		{"ending longer than value", 12, []string{"995"}, 995},
		{"zero value", 0, []string{"9"}, 9},
		{"zero value with zero ending", 0, []string{"0"}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nearlyEqual(t, "PrettyPrice", PrettyPrice(tc.raw, tc.endings), tc.want)
		})
	}
}

func TestPrettyPrice_FallsBackToRawValue(t *testing.T) {
	nearlyEqual(t, "empty endings", PrettyPrice(199.75, []string{}), 199.75)
	nearlyEqual(t, "nil endings", PrettyPrice(199.75, nil), 199.75)
	nearlyEqual(t, "invalid endings", PrettyPrice(199.75, []string{"", "9a", "-5", "x"}), 199.75)
}

func TestPrettyPrice_SkipsInvalidEntries(t *testing.T) {
	nearlyEqual(t, "mixed endings", PrettyPrice(1243, []string{"abc", "", "0"}), 1240)
}

func TestPrettyPrice_NonFiniteAndNegativePassThrough(t *testing.T) {
	if got := PrettyPrice(-12, []string{"9"}); got != -12 {
		t.Fatalf("PrettyPrice(-12) = %v, want -12", got)
	}
	if got := PrettyPrice(math.Inf(1), []string{"9"}); !math.IsInf(got, 1) {
		t.Fatalf("PrettyPrice(+Inf) = %v", got)
	}
	if got := PrettyPrice(math.NaN(), []string{"9"}); !math.IsNaN(got) {
		t.Fatalf("PrettyPrice(NaN) = %v", got)
	}
}

func TestValidEnding(t *testing.T) {
	for _, ok := range []string{"0", "9", "95", "000"} {
		if !ValidEnding(ok) {
			t.Fatalf("ValidEnding(%q) = false", ok)
		}
	}
	for _, bad := range []string{"", " 9", "9.5", "١"} {
		if ValidEnding(bad) {
			t.Fatalf("ValidEnding(%q) = true", bad)
		}
	}
}
