package domain

// MinPositionValue es el piso por defecto, en USD, a partir del cual un
// holding cuenta como posición intencional y no como dust.
const MinPositionValue = 1.0

// Position es un holding del wallet en un mercado. Efímera: se deriva
// fresca en cada consulta y nunca se cachea más allá de un check.
type Position struct {
	TopicTitle string
	Outcome    Side
	Value      float64 // market value en USD
}

// Live indica si la posición supera el piso de valor dado.
func (p Position) Live(floor float64) bool {
	return p.Value > floor
}

// AnyLive aplica el mismo umbral a una lista de holdings. Las dos fuentes
// del oracle (API y surface) DEBEN pasar por aquí para que el umbral sea
// idéntico y la lógica de estrategia sea agnóstica a la fuente.
func AnyLive(positions []Position, floor float64) bool {
	for _, p := range positions {
		if p.Live(floor) {
			return true
		}
	}
	return false
}

// SellableRow es una fila vendible que reporta la execution surface.
type SellableRow struct {
	Index   int
	Outcome Side
	Shares  float64
}
