package utils

import (
	"github.com/shopspring/decimal"
)

// CalculateTaxAmount applies a flat percentage rate.
// Tax-inclusive: (totalAmount / (100 + taxRate)) * taxRate
// Tax-exclusive: (totalAmount / 100) * taxRate
func CalculateTaxAmount(totalAmount decimal.Decimal, taxRate decimal.Decimal, isTaxInclusive bool) decimal.Decimal {
	if taxRate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	var taxAmount decimal.Decimal
	if isTaxInclusive {
		taxAmount = totalAmount.DivRound(taxRate.Add(decimal.NewFromInt(100)), 4).Mul(taxRate)
	} else {
		taxAmount = totalAmount.DivRound(decimal.NewFromInt(100), 4).Mul(taxRate)
	}

	return taxAmount
}

func CalculateDiscountAmount(subTotal decimal.Decimal, discount decimal.Decimal, discountType string) decimal.Decimal {
	var discountAmount decimal.Decimal

	decimalOneHundred := decimal.NewFromInt(100)

	if discount.GreaterThan(decimal.Zero) {
		if discountType == "P" {
			discountAmount = subTotal.Mul(discount).DivRound(decimalOneHundred, 4)
		} else {
			discountAmount = discount
		}
	} else {
		discountAmount = decimal.Zero
	}

	return discountAmount
}
