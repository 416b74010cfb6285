package kalshi

import (
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// mapMarkets convierte los DTOs del API a domain.Market.
func mapMarkets(raw []marketDTO, fetchedAt time.Time) []domain.Market {
	markets := make([]domain.Market, 0, len(raw))
	for _, r := range raw {
		markets = append(markets, mapMarket(r, fetchedAt))
	}
	return markets
}

// mapMarket convierte un marketDTO a domain.Market. Si el API omite un
// ask, se deriva del bid opuesto por la reciprocidad del contrato
// binario: yes_ask = 100 - no_bid y no_ask = 100 - yes_bid.
func mapMarket(r marketDTO, fetchedAt time.Time) domain.Market {
	yesAsk := r.YesAsk
	if yesAsk == 0 && r.NoBid > 0 {
		yesAsk = 100 - r.NoBid
	}
	noAsk := r.NoAsk
	if noAsk == 0 && r.YesBid > 0 {
		noAsk = 100 - r.YesBid
	}

	return domain.Market{
		Ticker:       r.Ticker,
		EventTicker:  r.EventTicker,
		Title:        r.Title,
		Status:       r.Status,
		YesBid:       r.YesBid,
		YesAsk:       yesAsk,
		NoBid:        r.NoBid,
		NoAsk:        noAsk,
		LastPrice:    r.LastPrice,
		Volume:       r.Volume,
		Volume24h:    r.Volume24h,
		Liquidity:    r.Liquidity,
		OpenInterest: r.OpenInterest,
		CloseTime:    parseTime(r.CloseTime),
		FetchedAt:    fetchedAt,
	}
}

// mapOrder convierte un orderDTO a domain.Order. Una orden "resting"
// con fills parciales se reporta como partially_filled.
func mapOrder(r orderDTO) domain.Order {
	status := domain.OrderStatus(r.Status)
	if status == domain.OrderResting && r.RemainingCount < r.InitialCount {
		status = domain.OrderPartial
	}

	price := r.YesPrice
	if domain.Side(r.Side) == domain.SideNo {
		price = r.NoPrice
	}

	return domain.Order{
		ID:             r.OrderID,
		ClientID:       r.ClientOrderID,
		Ticker:         r.Ticker,
		Side:           domain.Side(r.Side),
		Action:         r.Action,
		Status:         status,
		PriceCents:     price,
		Count:          r.InitialCount,
		RemainingCount: r.RemainingCount,
		CreatedAt:      parseTime(r.CreatedTime),
	}
}

// mapPosition convierte un positionDTO a domain.Position. El signo de
// Position indica el lado; el precio medio sale del costo acumulado.
// El mark se enriquece después con el bid actual del mercado.
func mapPosition(r positionDTO) domain.Position {
	side := domain.SideYes
	qty := r.Position
	if qty < 0 {
		side = domain.SideNo
		qty = -qty
	}

	var avg float64
	if qty > 0 {
		avg = float64(r.TotalTraded) / float64(qty)
	}

	return domain.Position{
		Ticker:        r.Ticker,
		Side:          side,
		Quantity:      qty,
		AvgPriceCents: avg,
	}
}

// parseTime intenta los formatos de timestamp que devuelve el API.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05.000Z",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
