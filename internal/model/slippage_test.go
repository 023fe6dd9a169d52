package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSlippageClampsToFloor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.01"},
		{"0.001", "0.01"},
		{"-5", "0.01"},
		{"0.01", "0.01"},
		{"0.5", "0.5"},
		{"2", "2"},
	}

	for _, tc := range cases {
		got := NewSlippage(decimal.RequireFromString(tc.in)).Value()
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("NewSlippage(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestSlippageZeroValueIsFloored(t *testing.T) {
	var s Slippage
	if !s.Value().Equal(decimal.RequireFromString("0.01")) {
		t.Fatalf("zero-value slippage = %s, want floor", s.Value())
	}
}
