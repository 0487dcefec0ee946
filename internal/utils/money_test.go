package utils

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
	}{
		{"50.00", 5000},
		{"50", 5000},
		{"50.5", 5050},
		{"0.07", 7},
		{"-12.30", -1230},
		{" 150.00 ", 15000},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if err != nil {
			t.Fatalf("ParseAmount(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseAmount(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseAmountRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "1.234", "12,50", "50.-5", "50.+5", "+50.00", "1-2.00"} {
		if _, err := ParseAmount(in); err == nil {
			t.Fatalf("ParseAmount(%q) should fail", in)
		}
	}
}

func TestAmountString(t *testing.T) {
	if got := Amount(15000).String(); got != "150.00" {
		t.Fatalf("got %q", got)
	}
	if got := Amount(7).String(); got != "0.07" {
		t.Fatalf("got %q", got)
	}
	if got := Amount(-1230).String(); got != "-12.30" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyRate(t *testing.T) {
	// 15% of 100.00 = 15.00
	if got := ApplyRate(10000, 1500); got != 1500 {
		t.Fatalf("got %d", got)
	}
	// half-up rounding: 7.5% of 0.10 = 0.0075 -> 0.01
	if got := ApplyRate(10, 750); got != 1 {
		t.Fatalf("got %d", got)
	}
}

func TestRateBPFromPercent(t *testing.T) {
	bp, err := RateBPFromPercent("15")
	if err != nil || bp != 1500 {
		t.Fatalf("got %d err %v", bp, err)
	}
	bp, err = RateBPFromPercent("7.5")
	if err != nil || bp != 750 {
		t.Fatalf("got %d err %v", bp, err)
	}
}
