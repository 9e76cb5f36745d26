package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateTaxAmount_Exclusive(t *testing.T) {
	got := CalculateTaxAmount(decimal.RequireFromString("200"), decimal.RequireFromString("5"), false)
	if !got.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("exclusive tax = %s, want 10", got)
	}
}

func TestCalculateTaxAmount_Inclusive(t *testing.T) {
	// 105 gross at 5% contains 5 of tax
	got := CalculateTaxAmount(decimal.RequireFromString("105"), decimal.RequireFromString("5"), true)
	if !got.Equal(decimal.RequireFromString("5")) {
		t.Fatalf("inclusive tax = %s, want 5", got)
	}
}

func TestCalculateDiscountAmount(t *testing.T) {
	subTotal := decimal.RequireFromString("80")

	percent := CalculateDiscountAmount(subTotal, decimal.RequireFromString("25"), "P")
	if !percent.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("percent discount = %s, want 20", percent)
	}

	amount := CalculateDiscountAmount(subTotal, decimal.RequireFromString("12.5"), "A")
	if !amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("amount discount = %s, want 12.5", amount)
	}
}

func TestValidationErrorFormat(t *testing.T) {
	err := NewValidationError("sku", "already exists")
	if err.Error() != "sku: already exists" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	bare := &ValidationError{Message: "bad input"}
	if bare.Error() != "bad input" {
		t.Fatalf("unexpected message: %q", bare.Error())
	}
}
