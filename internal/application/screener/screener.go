package screener

import (
	"sort"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// Config contiene los criterios de filtrado y los pesos del score.
type Config struct {
	// MinVolume24h descarta mercados con menos contratos en 24h.
	MinVolume24h int64
	// MinLiquidityCents descarta mercados con libro demasiado fino.
	MinLiquidityCents int64
	// MaxSpreadCents descarta mercados con spread bid/ask mayor.
	MaxSpreadCents int
	// MinHoursToClose / MaxHoursToClose definen la ventana de cierre.
	MinHoursToClose float64
	MaxHoursToClose float64
	// MaxDataAge descarta mercados con datos más viejos que esto.
	MaxDataAge time.Duration
	// MaxResults limita el ranking final (0 = sin límite).
	MaxResults int

	// Pesos del score compuesto. No hace falta que sumen 1.
	WeightVolume    float64
	WeightSpread    float64
	WeightLiquidity float64
}

// DefaultConfig devuelve una configuración de filtrado conservadora.
func DefaultConfig() Config {
	return Config{
		MinVolume24h:      500,
		MinLiquidityCents: 10_000, // $100 en el libro
		MaxSpreadCents:    5,
		MinHoursToClose:   1,
		MaxHoursToClose:   24,
		MaxDataAge:        5 * time.Minute,
		MaxResults:        25,
		WeightVolume:      0.4,
		WeightSpread:      0.35,
		WeightLiquidity:   0.25,
	}
}

// Stats resume qué pasó con el universo de mercados en una pasada.
type Stats struct {
	Fetched          int
	SkippedStaleData int
	Survivors        int
}

// Screener filtra y rankea el universo de mercados.
type Screener struct {
	cfg Config
}

// New crea un Screener con la configuración dada.
func New(cfg Config) *Screener {
	return &Screener{cfg: cfg}
}

// Screen aplica los filtros duros y devuelve los sobrevivientes
// ordenados por score compuesto descendente. El score usa componentes
// normalizados min-max dentro del conjunto filtrado: volumen alto,
// spread bajo y liquidez alta puntúan alto. El orden es determinista:
// a igual score gana el cierre más próximo y después el ticker.
func (s *Screener) Screen(markets []domain.Market, now time.Time) ([]domain.ScoredMarket, Stats) {
	stats := Stats{Fetched: len(markets)}

	var pass []domain.Market
	for _, m := range markets {
		if s.cfg.MaxDataAge > 0 && m.DataAge(now) > s.cfg.MaxDataAge {
			stats.SkippedStaleData++
			continue
		}
		if s.passes(m, now) {
			pass = append(pass, m)
		}
	}
	stats.Survivors = len(pass)
	if len(pass) == 0 {
		return nil, stats
	}

	scored := s.score(pass, now)

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if !scored[i].Market.CloseTime.Equal(scored[j].Market.CloseTime) {
			return scored[i].Market.CloseTime.Before(scored[j].Market.CloseTime)
		}
		return scored[i].Market.Ticker < scored[j].Market.Ticker
	})

	if s.cfg.MaxResults > 0 && len(scored) > s.cfg.MaxResults {
		scored = scored[:s.cfg.MaxResults]
	}
	return scored, stats
}

// passes devuelve true si el mercado supera todos los filtros duros.
func (s *Screener) passes(m domain.Market, now time.Time) bool {
	if !m.Tradable() {
		return false
	}
	if s.cfg.MinVolume24h > 0 && m.Volume24h < s.cfg.MinVolume24h {
		return false
	}
	if s.cfg.MinLiquidityCents > 0 && m.Liquidity < s.cfg.MinLiquidityCents {
		return false
	}
	if s.cfg.MaxSpreadCents > 0 && m.SpreadCents() > s.cfg.MaxSpreadCents {
		return false
	}
	hours := m.HoursToClose(now)
	if hours < s.cfg.MinHoursToClose {
		return false
	}
	if s.cfg.MaxHoursToClose > 0 && hours > s.cfg.MaxHoursToClose {
		return false
	}
	return true
}

// score normaliza cada componente min-max dentro del conjunto filtrado
// y combina con los pesos configurados. Si todos los mercados comparten
// el mismo valor de un componente, ese componente vale 0.5 neutro.
func (s *Screener) score(markets []domain.Market, now time.Time) []domain.ScoredMarket {
	minVol, maxVol := markets[0].Volume24h, markets[0].Volume24h
	minLiq, maxLiq := markets[0].Liquidity, markets[0].Liquidity
	minSpr, maxSpr := markets[0].SpreadCents(), markets[0].SpreadCents()
	for _, m := range markets[1:] {
		minVol = min(minVol, m.Volume24h)
		maxVol = max(maxVol, m.Volume24h)
		minLiq = min(minLiq, m.Liquidity)
		maxLiq = max(maxLiq, m.Liquidity)
		minSpr = min(minSpr, m.SpreadCents())
		maxSpr = max(maxSpr, m.SpreadCents())
	}

	out := make([]domain.ScoredMarket, 0, len(markets))
	for _, m := range markets {
		sm := domain.ScoredMarket{
			Market:     m,
			VolumeNorm: normalize(float64(m.Volume24h), float64(minVol), float64(maxVol)),
			LiquidNorm: normalize(float64(m.Liquidity), float64(minLiq), float64(maxLiq)),
			// invertido: spread chico puntúa alto
			SpreadNorm: 1 - normalize(float64(m.SpreadCents()), float64(minSpr), float64(maxSpr)),
			HoursToGo:  m.HoursToClose(now),
		}
		sm.Score = s.cfg.WeightVolume*sm.VolumeNorm +
			s.cfg.WeightSpread*sm.SpreadNorm +
			s.cfg.WeightLiquidity*sm.LiquidNorm
		out = append(out, sm)
	}
	return out
}

// normalize lleva v al rango [0, 1] dentro de [lo, hi].
// Con rango degenerado devuelve 0.5 neutro.
func normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}
