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

// tempScale controla la pendiente de la logística: ~3°F de diferencia entre
// forecast y threshold mueve la probabilidad de forma apreciable.
const tempScale = 3.0

var (
	thresholdRe = regexp.MustCompile(`(?i)\b(above|below)\s+(-?\d+)`)
	cityRe      = regexp.MustCompile(`(?i)\b(?:in|at)\s+(NYC|New York|Chicago|Miami|Austin|Denver|Seattle|Philadelphia|Los Angeles|LA)\b`)
)

// citySeries normaliza los alias de ciudad a la serie del feed.
var citySeries = map[string]string{
	"nyc":          "nyc",
	"new york":     "nyc",
	"chicago":      "chicago",
	"miami":        "miami",
	"austin":       "austin",
	"denver":       "denver",
	"seattle":      "seattle",
	"philadelphia": "philadelphia",
	"los angeles":  "la",
	"la":           "la",
}

// WeatherModel estima mercados de temperatura máxima diaria comparando el
// threshold del título contra el forecast del feed.
type WeatherModel struct {
	feed ports.DataFeed
}

// NewWeatherModel crea el modelo con el feed dado.
func NewWeatherModel(feed ports.DataFeed) *WeatherModel {
	return &WeatherModel{feed: feed}
}

func (w *WeatherModel) Name() string { return "weather-v1" }

func (w *WeatherModel) Categories() []string { return []string{"weather"} }

// Estimate parsea "above/below N" y la ciudad del título, consulta el
// forecast y devuelve una logística sobre la diferencia.
func (w *WeatherModel) Estimate(ctx context.Context, m domain.Market) (domain.Estimate, bool) {
	threshold, aboveSide, ok := parseThreshold(m.Title)
	if !ok {
		return domain.Estimate{}, false
	}
	series, ok := parseCity(m.Title)
	if !ok {
		return domain.Estimate{}, false
	}

	forecast, err := w.feed.Fetch(ctx, "forecast_high:"+series)
	if err != nil {
		slog.Warn("weather feed failed", "series", series, "err", err)
		return domain.Estimate{}, false
	}

	diff := forecast - threshold
	prob := logistic(diff / tempScale)
	if !aboveSide {
		prob = 1 - prob
	}

	// Más diferencia entre forecast y threshold, más confianza.
	conf := 0.5 + math.Min(0.35, math.Abs(diff)/20)

	return domain.Estimate{Probability: prob, Confidence: conf}, true
}

// parseThreshold extrae el umbral de temperatura y si el mercado pregunta por
// "above" (true) o "below" (false).
func parseThreshold(title string) (float64, bool, bool) {
	match := thresholdRe.FindStringSubmatch(title)
	if match == nil {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(match[2], 64)
	if err != nil {
		return 0, false, false
	}
	return v, strings.EqualFold(match[1], "above"), true
}

// parseCity extrae la ciudad y devuelve su serie del feed.
func parseCity(title string) (string, bool) {
	match := cityRe.FindStringSubmatch(title)
	if match == nil {
		return "", false
	}
	series, ok := citySeries[strings.ToLower(match[1])]
	return series, ok
}

// logistic es la sigmoide estándar.
func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
