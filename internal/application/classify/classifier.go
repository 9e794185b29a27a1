package classify

import (
	"context"
	"regexp"

	"github.com/alejandrodnm/kalshibot/internal/domain"
	"github.com/alejandrodnm/kalshibot/internal/ports"
)

// rule asocia un patrón de título a una categoría normalizada. Gana la
// primera que matchea, así que el orden importa: fed antes que econ para que
// los mercados del FOMC no caigan en la categoría genérica.
type rule struct {
	category string
	pattern  *regexp.Regexp
}

var rules = []rule{
	{"fed", regexp.MustCompile(`(?i)\b(fed|fomc|powell|funds rate|rate (cut|hike|decision))\b`)},
	{"econ", regexp.MustCompile(`(?i)\b(cpi|inflation|gdp|unemployment|payrolls|jobs report)\b`)},
	{"weather", regexp.MustCompile(`(?i)\b(high temp|temperature|the high in|rain|snow|hurricane)\b`)},
	{"crypto", regexp.MustCompile(`(?i)\b(bitcoin|btc|ethereum|eth|solana|crypto)\b`)},
	{"politics", regexp.MustCompile(`(?i)\b(election|president|senate|congress|governor|nominee)\b`)},
	{"sports", regexp.MustCompile(`(?i)\b(nfl|nba|mlb|nhl|super bowl|world series|champion)\b`)},
}

// Classify devuelve la categoría normalizada del título, u "other".
func Classify(title string) string {
	for _, r := range rules {
		if r.pattern.MatchString(title) {
			return r.category
		}
	}
	return "other"
}

// Provider decora un ports.MarketProvider reemplazando la categoría del
// exchange por la normalizada que usan los modelos.
type Provider struct {
	inner ports.MarketProvider
}

// NewProvider crea el decorador.
func NewProvider(inner ports.MarketProvider) *Provider {
	return &Provider{inner: inner}
}

// FetchMarkets delega en el provider interno y normaliza categorías.
func (p *Provider) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	markets, err := p.inner.FetchMarkets(ctx)
	if err != nil {
		return nil, err
	}
	for i := range markets {
		markets[i].Category = Classify(markets[i].Title)
	}
	return markets, nil
}
