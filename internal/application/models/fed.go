package models

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/alejandrodnm/kalshibot/internal/domain"
	"github.com/alejandrodnm/kalshibot/internal/ports"
)

// quarterPoint es el incremento estándar del FOMC.
const quarterPoint = 0.25

// FedModel estima mercados de decisiones de tipos del FOMC comparando el
// target actual con la expectativa implícita de futuros.
type FedModel struct {
	feed ports.DataFeed
}

// NewFedModel crea el modelo con el feed dado.
func NewFedModel(feed ports.DataFeed) *FedModel {
	return &FedModel{feed: feed}
}

func (f *FedModel) Name() string { return "fed-v1" }

func (f *FedModel) Categories() []string { return []string{"fed"} }

// Estimate aplica a títulos cut/hike/hold. La expectativa implícita menos el
// target da el cambio esperado; la logística lo traduce a probabilidad del
// movimiento preguntado.
func (f *FedModel) Estimate(ctx context.Context, m domain.Market) (domain.Estimate, bool) {
	move, ok := parseFedMove(m.Title)
	if !ok {
		return domain.Estimate{}, false
	}

	target, err := f.feed.Fetch(ctx, "fed_funds_target")
	if err != nil {
		slog.Warn("fed feed failed", "series", "fed_funds_target", "err", err)
		return domain.Estimate{}, false
	}
	implied, err := f.feed.Fetch(ctx, "fed_funds_implied")
	if err != nil {
		slog.Warn("fed feed failed", "series", "fed_funds_implied", "err", err)
		return domain.Estimate{}, false
	}

	expectedChange := implied - target

	var prob float64
	switch move {
	case "cut":
		prob = logistic(-expectedChange/quarterPoint*4 - 2)
	case "hike":
		prob = logistic(expectedChange/quarterPoint*4 - 2)
	default: // hold
		prob = 1 - logistic(math.Abs(expectedChange)/quarterPoint*4-2)
	}

	conf := 0.6 + math.Min(0.25, math.Abs(expectedChange))

	return domain.Estimate{Probability: prob, Confidence: conf}, true
}

// parseFedMove detecta qué movimiento pregunta el mercado.
func parseFedMove(title string) (string, bool) {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "cut") || strings.Contains(lower, "lower"):
		return "cut", true
	case strings.Contains(lower, "hike") || strings.Contains(lower, "raise") || strings.Contains(lower, "increase"):
		return "hike", true
	case strings.Contains(lower, "hold") || strings.Contains(lower, "unchanged") || strings.Contains(lower, "maintain"):
		return "hold", true
	default:
		return "", false
	}
}
