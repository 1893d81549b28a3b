package domain

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// PriceCents convierte un precio fraccional al formato "cents" que espera
// el exchange: la fracción multiplicada por 100, redondeada a UN decimal.
// La granularidad del exchange es una centésima de unidad expresada en
// décimas de cent, así que el formato debe reproducirse exacto:
//
//	0.044 → "4.4"
//	0.5   → "50.0"
//	0.091 → "9.1"
func PriceCents(price float64) string {
	return decimal.NewFromFloat(price).Mul(oneHundred).Round(1).StringFixed(1)
}
