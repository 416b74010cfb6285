package screener

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

var now = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func market(ticker string, vol24h, liq int64, bid, ask int, hoursToClose float64) domain.Market {
	return domain.Market{
		Ticker:    ticker,
		Status:    "active",
		YesBid:    bid,
		YesAsk:    ask,
		NoBid:     100 - ask - 2,
		NoAsk:     100 - bid,
		Volume24h: vol24h,
		Liquidity: liq,
		CloseTime: now.Add(time.Duration(hoursToClose * float64(time.Hour))),
		FetchedAt: now,
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MinVolume24h = 500
	cfg.MinLiquidityCents = 10_000
	cfg.MaxSpreadCents = 5
	cfg.MinHoursToClose = 1
	cfg.MaxHoursToClose = 24
	return cfg
}

func TestScreen_FiltersHardCriteria(t *testing.T) {
	markets := []domain.Market{
		market("GOOD", 5000, 50_000, 53, 55, 6),
		market("THIN-VOLUME", 100, 50_000, 53, 55, 6),
		market("THIN-BOOK", 5000, 1_000, 53, 55, 6),
		market("WIDE-SPREAD", 5000, 50_000, 40, 55, 6),
		market("CLOSES-SOON", 5000, 50_000, 53, 55, 0.5),
		market("CLOSES-LATE", 5000, 50_000, 53, 55, 48),
	}

	scored, stats := New(testConfig()).Screen(markets, now)
	assert.Len(t, scored, 1)
	assert.Equal(t, "GOOD", scored[0].Market.Ticker)
	assert.Equal(t, 6, stats.Fetched)
	assert.Equal(t, 1, stats.Survivors)
}

func TestScreen_SkipsStaleData(t *testing.T) {
	fresh := market("FRESH", 5000, 50_000, 53, 55, 6)
	stale := market("STALE", 9000, 90_000, 53, 55, 6)
	stale.FetchedAt = now.Add(-20 * time.Minute)

	scored, stats := New(testConfig()).Screen([]domain.Market{fresh, stale}, now)
	assert.Len(t, scored, 1)
	assert.Equal(t, "FRESH", scored[0].Market.Ticker)
	assert.Equal(t, 1, stats.SkippedStaleData)
}

func TestScreen_RanksByCompositeScore(t *testing.T) {
	markets := []domain.Market{
		market("MID", 3000, 30_000, 52, 55, 6),
		market("BEST", 9000, 90_000, 54, 55, 6), // volumen y liquidez top, spread mínimo
		market("WORST", 1000, 15_000, 50, 55, 6),
	}

	scored, _ := New(testConfig()).Screen(markets, now)
	assert.Len(t, scored, 3)
	assert.Equal(t, "BEST", scored[0].Market.Ticker)
	assert.Equal(t, "WORST", scored[2].Market.Ticker)
	assert.Greater(t, scored[0].Score, scored[1].Score)
}

func TestScreen_TieBreakSoonestCloseThenTicker(t *testing.T) {
	a := market("BBB", 5000, 50_000, 53, 55, 10)
	b := market("AAA", 5000, 50_000, 53, 55, 10)
	c := market("CCC", 5000, 50_000, 53, 55, 5)

	scored, _ := New(testConfig()).Screen([]domain.Market{a, b, c}, now)
	assert.Equal(t, "CCC", scored[0].Market.Ticker) // cierra antes
	assert.Equal(t, "AAA", scored[1].Market.Ticker) // ticker desempata
	assert.Equal(t, "BBB", scored[2].Market.Ticker)
}

func TestScreen_Deterministic(t *testing.T) {
	markets := []domain.Market{
		market("A", 3000, 30_000, 52, 55, 6),
		market("B", 9000, 90_000, 54, 55, 6),
		market("C", 1000, 15_000, 50, 55, 6),
	}
	s := New(testConfig())
	first, _ := s.Screen(markets, now)
	second, _ := s.Screen(markets, now)
	assert.Equal(t, first, second)
}

func TestScreen_MaxResults(t *testing.T) {
	cfg := testConfig()
	cfg.MaxResults = 2
	markets := []domain.Market{
		market("A", 3000, 30_000, 52, 55, 6),
		market("B", 9000, 90_000, 54, 55, 6),
		market("C", 1000, 15_000, 50, 55, 6),
	}
	scored, stats := New(cfg).Screen(markets, now)
	assert.Len(t, scored, 2)
	assert.Equal(t, 3, stats.Survivors)
}

func TestScreen_EmptyUniverse(t *testing.T) {
	scored, stats := New(testConfig()).Screen(nil, now)
	assert.Empty(t, scored)
	assert.Equal(t, 0, stats.Fetched)
}

func TestNormalize_DegenerateRange(t *testing.T) {
	assert.Equal(t, 0.5, normalize(10, 10, 10))
}
