package kalshi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

const pageLimit = 200

// FetchMarkets implementa ports.MarketProvider: devuelve los mercados
// abiertos (candidatos a señal) y los settled (candidatos a resolución).
// Pagina con cursor hasta agotar cada status.
func (c *Client) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	var all []domain.Market
	for _, status := range []string{"open", "settled"} {
		markets, err := c.fetchByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("kalshi.FetchMarkets: status %s: %w", status, err)
		}
		all = append(all, markets...)
	}
	return all, nil
}

// fetchByStatus pagina GET /markets para un status concreto.
func (c *Client) fetchByStatus(ctx context.Context, status string) ([]domain.Market, error) {
	var out []domain.Market
	cursor := ""

	for {
		query := url.Values{
			"limit":  {strconv.Itoa(pageLimit)},
			"status": {status},
		}
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var resp marketsResponse
		if err := c.get(ctx, "/markets", query, &resp); err != nil {
			return nil, err
		}

		out = append(out, mapMarkets(resp.Markets)...)

		if resp.Cursor == "" || len(resp.Markets) < pageLimit {
			return out, nil
		}
		cursor = resp.Cursor
	}
}
