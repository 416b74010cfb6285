package kalshi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

func TestMapMarket(t *testing.T) {
	fetchedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	dto := marketDTO{
		Ticker:       "KXHIGHNY-26AUG30-B85",
		EventTicker:  "KXHIGHNY-26AUG30",
		Title:        "High temp in NYC above 85F?",
		Status:       "active",
		YesBid:       53,
		YesAsk:       55,
		NoBid:        45,
		NoAsk:        47,
		LastPrice:    54,
		Volume24h:    12000,
		Liquidity:    250_000,
		OpenInterest: 8000,
		CloseTime:    "2026-08-30T22:00:00Z",
	}

	m := mapMarket(dto, fetchedAt)
	assert.Equal(t, "KXHIGHNY-26AUG30-B85", m.Ticker)
	assert.Equal(t, 55, m.YesAsk)
	assert.Equal(t, 47, m.NoAsk)
	assert.Equal(t, int64(12000), m.Volume24h)
	assert.Equal(t, time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC), m.CloseTime)
	assert.Equal(t, fetchedAt, m.FetchedAt)
	assert.True(t, m.Tradable())
}

func TestMapMarket_ReciprocalAskFallback(t *testing.T) {
	// sin asks en la respuesta: se derivan del bid opuesto
	dto := marketDTO{
		Ticker: "KXTEST-26AUG30",
		Status: "active",
		YesBid: 53,
		NoBid:  45,
	}

	m := mapMarket(dto, time.Now())
	assert.Equal(t, 55, m.YesAsk) // 100 - 45
	assert.Equal(t, 47, m.NoAsk)  // 100 - 53
	assert.True(t, m.Tradable())

	// sin bid opuesto no hay de dónde derivar
	empty := mapMarket(marketDTO{Ticker: "KXEMPTY", Status: "active"}, time.Now())
	assert.Equal(t, 0, empty.YesAsk)
	assert.False(t, empty.Tradable())
}

func TestMapOrder_PartialFill(t *testing.T) {
	dto := orderDTO{
		OrderID:        "ord-1",
		ClientOrderID:  "client-1",
		Ticker:         "KXTEST",
		Side:           "yes",
		Action:         "buy",
		Status:         "resting",
		YesPrice:       55,
		InitialCount:   100,
		RemainingCount: 40,
		CreatedTime:    "2026-08-30T10:00:00Z",
	}

	o := mapOrder(dto)
	assert.Equal(t, domain.OrderPartial, o.Status)
	assert.Equal(t, 55, o.PriceCents)
	assert.Equal(t, 100, o.Count)
	assert.Equal(t, 40, o.RemainingCount)
	assert.True(t, o.IsOpen())
}

func TestMapOrder_RestingNoSide(t *testing.T) {
	dto := orderDTO{
		OrderID:        "ord-2",
		Side:           "no",
		Status:         "resting",
		NoPrice:        47,
		InitialCount:   50,
		RemainingCount: 50,
	}

	o := mapOrder(dto)
	assert.Equal(t, domain.OrderResting, o.Status)
	assert.Equal(t, domain.SideNo, o.Side)
	assert.Equal(t, 47, o.PriceCents)
}

func TestMapPosition_Sides(t *testing.T) {
	yes := mapPosition(positionDTO{Ticker: "A", Position: 100, TotalTraded: 5500})
	assert.Equal(t, domain.SideYes, yes.Side)
	assert.Equal(t, 100, yes.Quantity)
	assert.InDelta(t, 55.0, yes.AvgPriceCents, 0.001)

	no := mapPosition(positionDTO{Ticker: "B", Position: -40, TotalTraded: 1880})
	assert.Equal(t, domain.SideNo, no.Side)
	assert.Equal(t, 40, no.Quantity)
	assert.InDelta(t, 47.0, no.AvgPriceCents, 0.001)
}

func TestParseTime_Formats(t *testing.T) {
	assert.False(t, parseTime("2026-08-30T22:00:00Z").IsZero())
	assert.False(t, parseTime("2026-08-30T22:00:00.123Z").IsZero())
	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("not-a-time").IsZero())
}
