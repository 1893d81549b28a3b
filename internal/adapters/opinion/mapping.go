package opinion

import (
	"encoding/json"
	"time"

	"github.com/dominolu/dex-opinion/internal/domain"
)

// num convierte un json.Number a float64, 0 si está vacío o malformado.
// El proxy a veces omite campos numéricos en holdings viejos.
func num(n json.Number) float64 {
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return f
}

func mapHoldings(raw []portfolioHolding) []domain.Position {
	positions := make([]domain.Position, 0, len(raw))
	for _, h := range raw {
		side, ok := domain.ParseSide(h.Outcome)
		if !ok {
			// Outcomes no binarios no cuentan como posición
			continue
		}
		positions = append(positions, domain.Position{
			TopicTitle: h.TopicTitle,
			Outcome:    side,
			Value:      num(h.Value),
		})
	}
	return positions
}

func mapChildMarkets(raw []childRaw) []domain.ChildMarket {
	children := make([]domain.ChildMarket, len(raw))
	for i, c := range raw {
		children[i] = domain.ChildMarket{
			QuestionID: c.QuestionID,
			Title:      c.Title,
			TitleShort: c.TitleShort,
			YesTokenID: c.YesPos,
			NoTokenID:  c.NoPos,
			YesPrice:   num(c.YesMarketPrice),
			NoPrice:    num(c.NoMarketPrice),
		}
	}
	return children
}

func mapDepth(raw depthResult, asOf time.Time) domain.DepthSnapshot {
	return domain.DepthSnapshot{
		Asks: mapLevels(raw.Asks),
		Bids: mapLevels(raw.Bids),
		AsOf: asOf,
	}
}

func mapLevels(raw [][]json.Number) []domain.PriceLevel {
	levels := make([]domain.PriceLevel, 0, len(raw))
	for _, l := range raw {
		if len(l) < 2 {
			continue
		}
		levels = append(levels, domain.PriceLevel{Price: num(l[0]), Size: num(l[1])})
	}
	return levels
}

func mapOrders(raw []orderRaw) []domain.OpenOrder {
	orders := make([]domain.OpenOrder, len(raw))
	for i, o := range raw {
		orders[i] = domain.OpenOrder{
			OrderID:    o.OrderID.String(),
			TransNo:    o.TransNo,
			TopicTitle: o.TopicTitle,
			Side:       domain.OrderSide(o.Side),
			Price:      num(o.Price),
			Amount:     num(o.Amount),
			Filled:     num(o.Filled),
			Status:     domain.OrderStatus(o.Status),
			ChainID:    o.ChainID,
		}
	}
	return orders
}
