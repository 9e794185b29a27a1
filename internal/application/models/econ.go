package models

import (
	"context"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/alejandrodnm/kalshibot/internal/domain"
	"github.com/alejandrodnm/kalshibot/internal/ports"
)

// cpiScale: décimas de punto de inflación; la serie mensual rara vez se mueve
// más de 0.3pp contra el nowcast.
const cpiScale = 0.3

var pctThresholdRe = regexp.MustCompile(`(?i)\b(above|below)\s+(\d+(?:\.\d+)?)\s*%`)

// EconModel estima mercados de CPI interanual contra el nowcast del feed.
type EconModel struct {
	feed ports.DataFeed
}

// NewEconModel crea el modelo con el feed dado.
func NewEconModel(feed ports.DataFeed) *EconModel {
	return &EconModel{feed: feed}
}

func (e *EconModel) Name() string { return "econ-v1" }

func (e *EconModel) Categories() []string { return []string{"econ"} }

// Estimate aplica a títulos de CPI/inflación con umbral porcentual.
func (e *EconModel) Estimate(ctx context.Context, m domain.Market) (domain.Estimate, bool) {
	lower := strings.ToLower(m.Title)
	if !strings.Contains(lower, "cpi") && !strings.Contains(lower, "inflation") {
		return domain.Estimate{}, false
	}

	match := pctThresholdRe.FindStringSubmatch(m.Title)
	if match == nil {
		return domain.Estimate{}, false
	}
	threshold, err := strconv.ParseFloat(match[2], 64)
	if err != nil {
		return domain.Estimate{}, false
	}

	nowcast, err := e.feed.Fetch(ctx, "cpi_yoy_nowcast")
	if err != nil {
		slog.Warn("econ feed failed", "err", err)
		return domain.Estimate{}, false
	}

	diff := nowcast - threshold
	prob := logistic(diff / cpiScale)
	if strings.EqualFold(match[1], "below") {
		prob = 1 - prob
	}

	conf := 0.55 + math.Min(0.3, math.Abs(diff))

	return domain.Estimate{Probability: prob, Confidence: conf}, true
}
