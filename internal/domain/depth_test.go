package domain_test

import (
	"testing"

	"github.com/dominolu/dex-opinion/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDepthSnapshot_TwoSided(t *testing.T) {
	d := domain.DepthSnapshot{
		Asks: []domain.PriceLevel{{Price: 0.52, Size: 100}},
		Bids: []domain.PriceLevel{{Price: 0.48, Size: 80}},
	}
	assert.True(t, d.TwoSided())
	assert.Equal(t, 0.52, d.BestAsk().Price)
	assert.Equal(t, 0.48, d.BestBid().Price)
	assert.InDelta(t, 0.04, d.Spread(), 1e-9)
}

func TestDepthSnapshot_OneSided(t *testing.T) {
	d := domain.DepthSnapshot{
		Asks: []domain.PriceLevel{{Price: 0.52, Size: 100}},
	}
	assert.False(t, d.TwoSided())
	assert.Equal(t, domain.PriceLevel{}, d.BestBid())
	assert.Equal(t, 0.0, d.Spread())
}

func TestMarketRef_TokenID(t *testing.T) {
	ref := domain.MarketRef{YesTokenID: "tok-yes", NoTokenID: "tok-no"}
	assert.Equal(t, "tok-yes", ref.TokenID(domain.SideYes))
	assert.Equal(t, "tok-no", ref.TokenID(domain.SideNo))
}
