package extract

import (
	"math"
	"testing"
)

func TestNumbers_CurrencyAndMagnitude(t *testing.T) {
	nums := Numbers("AUM grew 20% to $5B in the quarter")

	if len(nums) != 2 {
		t.Fatalf("Expected 2 numbers, got %d: %v", len(nums), nums)
	}

	if nums[0].Value != 20 || nums[0].Unit != "%" {
		t.Errorf("Expected 20%%, got %v %s", nums[0].Value, nums[0].Unit)
	}

	if nums[1].Value != 5e9 {
		t.Errorf("Expected $5B scaled to 5e9, got %v", nums[1].Value)
	}
	if nums[1].Unit != "$" {
		t.Errorf("Expected unit $, got %q", nums[1].Unit)
	}
	if nums[1].Raw != "$5B" {
		t.Errorf("Expected raw '$5B', got %q", nums[1].Raw)
	}
}

func TestNumbers_PercentSuffix(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"growth of 20% year over year", 20},
		{"expense ratio fell to 0.5%", 0.5},
		{"returned 8 percent annually", 8},
	}

	for _, tc := range cases {
		nums := Numbers(tc.text)
		if len(nums) != 1 {
			t.Errorf("%q: expected 1 number, got %v", tc.text, nums)
			continue
		}
		if nums[0].Value != tc.want || nums[0].Unit != "%" {
			t.Errorf("%q: expected %v%%, got %v %q", tc.text, tc.want, nums[0].Value, nums[0].Unit)
		}
	}
}

func TestNumbers_WordSuffixes(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"inflows of 2.3 trillion rupees", 2.3e12},
		{"revenue of $10 million this year", 1e7},
		{"around 450 thousand accounts", 4.5e5},
		{"a fund of €1.5bn", 1.5e9},
	}

	for _, tc := range cases {
		nums := Numbers(tc.text)
		if len(nums) == 0 {
			t.Errorf("%q: expected a number, got none", tc.text)
			continue
		}
		if nums[0].Value != tc.want {
			t.Errorf("%q: expected %v, got %v", tc.text, tc.want, nums[0].Value)
		}
	}
}

func TestNumbers_SkipsYears(t *testing.T) {
	nums := Numbers("In 2025 the fund reported growth")
	if len(nums) != 0 {
		t.Errorf("Expected year 2025 to be skipped, got %v", nums)
	}

	// Years with an explicit currency or suffix are real values
	nums = Numbers("a payout of $2024")
	if len(nums) != 1 || nums[0].Value != 2024 {
		t.Errorf("Expected $2024 to be extracted, got %v", nums)
	}

	// Comma-grouped four-digit values are quantities, not years
	nums = Numbers("subscriber count hit 2,024")
	if len(nums) != 1 || nums[0].Value != 2024 {
		t.Errorf("Expected 2,024 to be extracted, got %v", nums)
	}
}

func TestNumbers_CommaGrouping(t *testing.T) {
	nums := Numbers("net sales of 1,234,567 units")
	if len(nums) != 1 {
		t.Fatalf("Expected 1 number, got %d", len(nums))
	}
	if nums[0].Value != 1234567 {
		t.Errorf("Expected 1234567, got %v", nums[0].Value)
	}
}

func TestWithinTolerance(t *testing.T) {
	cases := []struct {
		a, b, tol float64
		want      bool
	}{
		{100, 100, 0.01, true},
		{100, 100.5, 0.01, true},  // 0.5% off
		{100, 102, 0.01, false},   // 2% off
		{5e9, 5.04e9, 0.01, true}, // 0.8% off
		{0, 0, 0.01, true},
		{0, 1, 0.01, false},
		{-100, -100.5, 0.01, true},
		{100, -100, 0.01, false},
	}

	for _, tc := range cases {
		got := WithinTolerance(tc.a, tc.b, tc.tol)
		if got != tc.want {
			t.Errorf("WithinTolerance(%v, %v, %v) = %v, want %v", tc.a, tc.b, tc.tol, got, tc.want)
		}
	}

	// Symmetry
	if WithinTolerance(100, 101, 0.01) != WithinTolerance(101, 100, 0.01) {
		t.Error("Expected tolerance check to be symmetric")
	}
}

func TestWithinTolerance_RelativeToLarger(t *testing.T) {
	// 1% of the larger magnitude, not the smaller
	if !WithinTolerance(99, 99.99, 0.01) {
		t.Error("Expected values within 1% of max to pass")
	}
	if math.Abs(99.99-99)/99.99 > 0.01 {
		t.Error("Test fixture is wrong: values should differ by under 1%")
	}
}
