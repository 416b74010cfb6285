package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFindStaleOrders_StrictThreshold(t *testing.T) {
	now := time.Now()
	maxAge := 120 * time.Minute
	orders := []Order{
		{ID: "young", Status: OrderResting, CreatedAt: now.Add(-119 * time.Minute)},
		{ID: "exact", Status: OrderResting, CreatedAt: now.Add(-120 * time.Minute)},
		{ID: "old", Status: OrderResting, CreatedAt: now.Add(-121 * time.Minute)},
	}

	stale := FindStaleOrders(orders, now, maxAge)
	assert.Len(t, stale, 1)
	assert.Equal(t, "old", stale[0].ID)
}

func TestFindStaleOrders_OnlyOpenStatuses(t *testing.T) {
	now := time.Now()
	old := now.Add(-10 * time.Hour)
	orders := []Order{
		{ID: "a", Status: OrderResting, CreatedAt: old},
		{ID: "b", Status: OrderPartial, CreatedAt: old},
		{ID: "c", Status: OrderExecuted, CreatedAt: old},
		{ID: "d", Status: OrderCanceled, CreatedAt: old},
	}

	stale := FindStaleOrders(orders, now, time.Hour)
	assert.Len(t, stale, 2)
	assert.Equal(t, "a", stale[0].ID)
	assert.Equal(t, "b", stale[1].ID)
}

func TestFindStaleOrders_Empty(t *testing.T) {
	assert.Empty(t, FindStaleOrders(nil, time.Now(), time.Hour))
}

func TestMarket_Tradable(t *testing.T) {
	m := Market{Status: "active", YesAsk: 55, NoAsk: 47}
	assert.True(t, m.Tradable())

	closed := m
	closed.Status = "closed"
	assert.False(t, closed.Tradable())

	decided := m
	decided.YesAsk = 100
	assert.False(t, decided.Tradable())
}

func TestMarket_SpreadCents(t *testing.T) {
	m := Market{YesBid: 53, YesAsk: 55}
	assert.Equal(t, 2, m.SpreadCents())

	empty := Market{}
	assert.Equal(t, 99, empty.SpreadCents())
}

func TestMarket_HoursToClose(t *testing.T) {
	now := time.Now()
	m := Market{CloseTime: now.Add(6 * time.Hour)}
	assert.InDelta(t, 6.0, m.HoursToClose(now), 0.001)

	past := Market{CloseTime: now.Add(-time.Hour)}
	assert.Equal(t, 0.0, past.HoursToClose(now))
}

func TestAccountSnapshot_Stale(t *testing.T) {
	now := time.Now()
	snap := AccountSnapshot{FetchedAt: now.Add(-30 * time.Second)}
	assert.False(t, snap.Stale(now, time.Minute))
	assert.True(t, snap.Stale(now, 10*time.Second))
	assert.True(t, AccountSnapshot{}.Stale(now, time.Minute))
}

func TestAccountSnapshot_View(t *testing.T) {
	snap := AccountSnapshot{
		Cash:      500,
		Equity:    900,
		Positions: []Position{{Ticker: "A"}, {Ticker: "B"}},
	}
	v := snap.View()
	assert.Equal(t, 500.0, v.Cash)
	assert.Equal(t, 900.0, v.Equity)
	assert.Equal(t, 2, v.OpenPositions)
}
