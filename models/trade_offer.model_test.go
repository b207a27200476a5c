package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTradeOfferStatus(t *testing.T) {
	assert.Equal(t, TradeOfferAccepted, NormalizeTradeOfferStatus("accepted"))
	assert.Equal(t, TradeOfferRejected, NormalizeTradeOfferStatus(" Rejected "))
	assert.Equal(t, TradeOfferWithdrawn, NormalizeTradeOfferStatus("WITHDRAWN"))
	assert.Equal(t, TradeOfferPending, NormalizeTradeOfferStatus("pending"))
	assert.Equal(t, "", NormalizeTradeOfferStatus("countered"))
}

func TestTradeOfferTransitions(t *testing.T) {
	for _, to := range []string{TradeOfferAccepted, TradeOfferRejected, TradeOfferWithdrawn} {
		assert.True(t, CanTransitionTradeOffer(TradeOfferPending, to), "PENDING -> %s", to)
	}

	// Settled offers never move again.
	for _, from := range []string{TradeOfferAccepted, TradeOfferRejected, TradeOfferWithdrawn} {
		for _, to := range []string{TradeOfferPending, TradeOfferAccepted, TradeOfferRejected, TradeOfferWithdrawn} {
			assert.False(t, CanTransitionTradeOffer(from, to), "%s -> %s", from, to)
		}
	}
}

func TestIsTerminalTradeOfferStatus(t *testing.T) {
	assert.False(t, IsTerminalTradeOfferStatus(TradeOfferPending))
	assert.True(t, IsTerminalTradeOfferStatus(TradeOfferAccepted))
	assert.True(t, IsTerminalTradeOfferStatus(TradeOfferRejected))
	assert.True(t, IsTerminalTradeOfferStatus(TradeOfferWithdrawn))
}
