package domain

import "time"

// PriceLevel es un nivel de precio del orderbook.
type PriceLevel struct {
	Price float64
	Size  float64
}

// DepthSnapshot es una foto del orderbook de un outcome token.
// Se toma fresca en cada paso que necesita un precio — nunca se cachea.
type DepthSnapshot struct {
	Asks []PriceLevel // ordenados menor a mayor precio
	Bids []PriceLevel // ordenados mayor a menor precio
	AsOf time.Time
}

// BestAsk devuelve el mejor (menor) precio de venta.
func (d DepthSnapshot) BestAsk() PriceLevel {
	if len(d.Asks) == 0 {
		return PriceLevel{}
	}
	return d.Asks[0]
}

// BestBid devuelve el mejor (mayor) precio de compra.
func (d DepthSnapshot) BestBid() PriceLevel {
	if len(d.Bids) == 0 {
		return PriceLevel{}
	}
	return d.Bids[0]
}

// TwoSided indica si el book tiene liquidez en ambos lados.
// Un mercado sin asks o sin bids no se puede cotizar.
func (d DepthSnapshot) TwoSided() bool {
	return len(d.Asks) > 0 && len(d.Bids) > 0
}

// Spread devuelve ask - bid, o 0 si el book no es two-sided.
func (d DepthSnapshot) Spread() float64 {
	if !d.TwoSided() {
		return 0
	}
	return d.BestAsk().Price - d.BestBid().Price
}
