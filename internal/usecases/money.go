package usecases

import (
	"github.com/shopspring/decimal"
)

// TDSRatePercent is the withholding rate applied to withdrawals.
const TDSRatePercent = 10

var oneHundred = decimal.NewFromInt(100)

// PaiseToRupees renders an integer paise amount as a rupee string with two
// decimal places. The only place paise become rupees is at the response
// boundary; nothing upstream holds rupee floats.
func PaiseToRupees(paise int64) string {
	return decimal.NewFromInt(paise).Div(oneHundred).StringFixed(2)
}

// RupeesToPaise converts whole rupees to paise exactly.
func RupeesToPaise(rupees int64) int64 {
	return rupees * 100
}

// PercentOf returns pct% of amount in paise, truncated toward zero.
func PercentOf(amountPaise int64, pct int64) int64 {
	return decimal.NewFromInt(amountPaise).
		Mul(decimal.NewFromInt(pct)).
		Div(oneHundred).
		IntPart()
}

// RatioPercent renders part/whole as a percentage string with two decimal
// places, computed at four decimal places internally. A zero whole yields
// "0.00" rather than a division error.
func RatioPercent(partPaise, wholePaise int64) string {
	if wholePaise == 0 {
		return decimal.Zero.StringFixed(2)
	}
	return decimal.NewFromInt(partPaise).
		Div(decimal.NewFromInt(wholePaise)).
		Mul(oneHundred).
		Round(4).
		StringFixed(2)
}
