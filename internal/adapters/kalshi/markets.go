package kalshi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

const (
	marketsPageLimit = 1000
	tickersChunkSize = 50
	maxMarketsPages  = 50 // corte de seguridad contra cursores que no avanzan
)

// FetchOpenMarkets implementa ports.MarketProvider. Pagina con cursor
// hasta agotar los mercados abiertos a trading.
func (c *Client) FetchOpenMarkets(ctx context.Context) ([]domain.Market, error) {
	var all []domain.Market
	fetchedAt := time.Now().UTC()
	cursor := ""

	for page := 0; page < maxMarketsPages; page++ {
		q := url.Values{}
		q.Set("status", "open")
		q.Set("limit", fmt.Sprintf("%d", marketsPageLimit))
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var resp marketsResponse
		if err := c.get(ctx, "/markets?"+q.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("kalshi.FetchOpenMarkets: %w", err)
		}

		all = append(all, mapMarkets(resp.Markets, fetchedAt)...)

		if resp.Cursor == "" || len(resp.Markets) == 0 {
			return all, nil
		}
		cursor = resp.Cursor
	}
	return all, nil
}

// FetchMarkets implementa ports.MarketProvider. Pide mercados por
// ticker en chunks para no exceder el largo de URL.
func (c *Client) FetchMarkets(ctx context.Context, tickers []string) ([]domain.Market, error) {
	var all []domain.Market
	fetchedAt := time.Now().UTC()

	for start := 0; start < len(tickers); start += tickersChunkSize {
		end := min(start+tickersChunkSize, len(tickers))

		q := url.Values{}
		q.Set("tickers", strings.Join(tickers[start:end], ","))

		var resp marketsResponse
		if err := c.get(ctx, "/markets?"+q.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("kalshi.FetchMarkets: %w", err)
		}
		all = append(all, mapMarkets(resp.Markets, fetchedAt)...)
	}
	return all, nil
}
