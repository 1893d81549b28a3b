package trader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dominolu/dex-opinion/internal/domain"
	"github.com/dominolu/dex-opinion/internal/ports"
)

// Resolver mapea el label configurado de una opción a su MarketRef.
type Resolver struct {
	markets ports.MarketProvider
}

// NewResolver crea un Resolver sobre el market provider dado.
func NewResolver(markets ports.MarketProvider) *Resolver {
	return &Resolver{markets: markets}
}

// ResolveMarket busca el child market cuyo título matchea el label:
// match exacto primero, substring después, en ese orden de prioridad.
// Entre varios substring matches gana el primero en orden de listado y
// se loguea un warning con los candidatos descartados — el tie-break no
// está definido por el exchange, así que la ambigüedad se hace visible
// en vez de resolverse en silencio.
//
// Sin reintentos en esta capa: quien llama decide si reintenta el ciclo.
func (r *Resolver) ResolveMarket(ctx context.Context, topicID, label string) (domain.MarketRef, error) {
	if topicID == "" {
		return domain.MarketRef{}, fmt.Errorf("trader.ResolveMarket: %w",
			&domain.ResolutionError{TopicID: topicID, Label: label})
	}

	children, err := r.markets.FetchChildMarkets(ctx, topicID)
	if err != nil {
		return domain.MarketRef{}, fmt.Errorf("trader.ResolveMarket: %w", err)
	}

	// Match exacto primero
	for _, c := range children {
		if c.Title == label || c.TitleShort == label {
			return c.Ref(topicID), nil
		}
	}

	// Substring: el primero en orden de listado gana
	var matches []domain.ChildMarket
	for _, c := range children {
		if strings.Contains(c.Title, label) || strings.Contains(c.TitleShort, label) {
			matches = append(matches, c)
		}
	}

	if len(matches) == 0 {
		titles := make([]string, len(children))
		for i, c := range children {
			titles[i] = c.Title
		}
		return domain.MarketRef{}, fmt.Errorf("trader.ResolveMarket: %w",
			&domain.ResolutionError{TopicID: topicID, Label: label, Available: titles})
	}

	if len(matches) > 1 {
		dropped := make([]string, 0, len(matches)-1)
		for _, m := range matches[1:] {
			dropped = append(dropped, m.Title)
		}
		slog.Warn("ambiguous option label, taking first listed match",
			"label", label,
			"matched", matches[0].Title,
			"also_matched", strings.Join(dropped, ", "),
		)
	}

	return matches[0].Ref(topicID), nil
}
