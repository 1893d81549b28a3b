package domain

import "strings"

// Side es el lado del mercado binario sobre el que se opera.
type Side string

const (
	SideYes Side = "YES"
	SideNo  Side = "NO"
)

// ParseSide normaliza un string de configuración a Side.
func ParseSide(s string) (Side, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "YES":
		return SideYes, true
	case "NO":
		return SideNo, true
	}
	return "", false
}

// Opposite devuelve el lado contrario.
func (s Side) Opposite() Side {
	if s == SideYes {
		return SideNo
	}
	return SideYes
}

// ChildMarket es un sub-mercado dentro de un topic multi-outcome,
// tal como lo devuelve el endpoint de topics.
type ChildMarket struct {
	QuestionID string
	Title      string
	TitleShort string
	YesTokenID string
	NoTokenID  string
	YesPrice   float64
	NoPrice    float64
}

// MarketRef identifica de forma estable el mercado sobre el que opera un ciclo.
// Se resuelve una vez por ciclo a partir del label configurado.
type MarketRef struct {
	TopicID    string
	QuestionID string
	Title      string
	YesTokenID string
	NoTokenID  string
	YesPrice   float64
	NoPrice    float64
}

// TokenID devuelve el identificador del outcome token para el lado dado.
func (m MarketRef) TokenID(side Side) string {
	if side == SideYes {
		return m.YesTokenID
	}
	return m.NoTokenID
}

// Ref construye el MarketRef de un child market bajo el topic dado.
func (c ChildMarket) Ref(topicID string) MarketRef {
	return MarketRef{
		TopicID:    topicID,
		QuestionID: c.QuestionID,
		Title:      c.Title,
		YesTokenID: c.YesTokenID,
		NoTokenID:  c.NoTokenID,
		YesPrice:   c.YesPrice,
		NoPrice:    c.NoPrice,
	}
}
