package domain

// OrderStatus es el código de estado que reporta el exchange.
// Los valores numéricos son los del API: 1=pendiente, 2=completada, 3=cancelada.
type OrderStatus int

const (
	OrderPending   OrderStatus = 1
	OrderFilled    OrderStatus = 2
	OrderCancelled OrderStatus = 3
)

func (s OrderStatus) String() string {
	switch s {
	case OrderPending:
		return "pending"
	case OrderFilled:
		return "filled"
	case OrderCancelled:
		return "cancelled"
	}
	return "unknown"
}

// OrderSide es la dirección de una orden en el exchange (1=buy, 2=sell).
type OrderSide int

const (
	OrderBuy  OrderSide = 1
	OrderSell OrderSide = 2
)

// OpenOrder es una orden reciente del wallet tal como la reporta el exchange.
// El engine solo la lee y pide cancelaciones; el estado es autoritativo
// en el exchange, nunca se muta localmente.
type OpenOrder struct {
	OrderID    string
	TransNo    string
	TopicTitle string
	Side       OrderSide
	Price      float64
	Amount     float64
	Filled     float64
	Status     OrderStatus
	ChainID    int64
}

// IntentMode distingue órdenes inmediatas de órdenes limit en reposo.
type IntentMode string

const (
	ModeMarket IntentMode = "market"
	ModeLimit  IntentMode = "limit"
)

// OrderIntent describe una orden a transmitir por la execution surface.
// Existe solo transitoriamente mientras se somete.
type OrderIntent struct {
	Option string // label del child market
	Side   Side
	Mode   IntentMode
	Price  float64 // precio fraccional; solo en modo limit
	Amount float64
}
