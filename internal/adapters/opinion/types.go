package opinion

import "encoding/json"

// DTOs raw del proxy de opinion.trade. Solo se usan dentro de este
// paquete; la conversión a domain entities se hace en mapping.go.
// El proxy devuelve muchos números como strings JSON, usamos json.Number.

// portfolioResult es el result de GET /v2/portfolio.
type portfolioResult struct {
	List []portfolioHolding `json:"list"`
}

// portfolioHolding es un holding del wallet bajo el parent topic.
type portfolioHolding struct {
	TopicTitle string      `json:"topicTitle"`
	Outcome    string      `json:"outcome"`
	Value      json.Number `json:"value"`
}

// topicResult es el result de GET /v2/topic/mutil/{id}.
type topicResult struct {
	Data topicData `json:"data"`
}

type topicData struct {
	ChildList []childRaw `json:"childList"`
}

// childRaw es un sub-mercado del topic multi-outcome.
type childRaw struct {
	QuestionID     string      `json:"questionId"`
	Title          string      `json:"title"`
	TitleShort     string      `json:"titleShort"`
	YesPos         string      `json:"yesPos"`
	NoPos          string      `json:"noPos"`
	YesMarketPrice json.Number `json:"yesMarketPrice"`
	NoMarketPrice  json.Number `json:"noMarketPrice"`
}

// depthResult es el result de GET /v2/order/market/depth.
// Cada nivel es un par [price, size], el mejor nivel primero.
type depthResult struct {
	Asks [][]json.Number `json:"asks"`
	Bids [][]json.Number `json:"bids"`
}

// ordersResult es el result de GET /v2/order.
type ordersResult struct {
	List []orderRaw `json:"list"`
}

// orderRaw es una orden reciente del wallet.
type orderRaw struct {
	OrderID    json.Number `json:"orderId"`
	TransNo    string      `json:"transNo"`
	TopicTitle string      `json:"topicTitle"`
	Side       int         `json:"side"`
	Price      json.Number `json:"price"`
	Amount     json.Number `json:"amount"`
	Filled     json.Number `json:"filled"`
	Status     int         `json:"status"`
	ChainID    int64       `json:"chainId"`
}

// cancelRequest es el body de POST /v1/order/cancel/order.
type cancelRequest struct {
	TransNo string `json:"trans_no"`
	ChainID int64  `json:"chainId"`
}
