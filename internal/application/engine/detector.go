package engine

import (
	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// DetectorConfig son los umbrales del detector de señales.
type DetectorConfig struct {
	MinEdgePct    float64 // edge mínimo en escala porcentual (5 = 5%)
	MinConfidence float64
	BandLow       float64 // banda de incertidumbre, límites inclusivos
	BandHigh      float64
}

// DefaultDetectorConfig devuelve los umbrales por defecto.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		MinEdgePct:    5,
		MinConfidence: 0.55,
		BandLow:       0.30,
		BandHigh:      0.70,
	}
}

// Detector compara estimaciones de modelos con precios de mercado y emite
// señales rankeadas. Query pura sobre el estado actual, sin side effects.
type Detector struct {
	cfg DetectorConfig
}

// NewDetector crea un Detector con los umbrales dados.
func NewDetector(cfg DetectorConfig) *Detector {
	return &Detector{cfg: cfg}
}

// Detect emite una señal por cada par (mercado elegible, última estimación
// por source) que supere los umbrales de confianza y edge. El resultado viene
// ordenado por score descendente.
//
// La comparación de edge es en escala porcentual: un edge de 0.049 NO pasa
// un umbral del 5%.
func (d *Detector) Detect(markets []domain.Market, estimates []domain.Estimate) []domain.Signal {
	byTicker := make(map[string]domain.Market, len(markets))
	for _, m := range markets {
		if m.Tradable() && m.InBand(d.cfg.BandLow, d.cfg.BandHigh) {
			byTicker[m.Ticker] = m
		}
	}

	var signals []domain.Signal
	for _, e := range domain.LatestPerSource(estimates) {
		m, ok := byTicker[e.Ticker]
		if !ok {
			continue
		}
		if e.Confidence < d.cfg.MinConfidence {
			continue
		}

		sig := domain.NewSignal(m, e)
		if sig.AbsEdge*100 < d.cfg.MinEdgePct {
			continue
		}
		signals = append(signals, sig)
	}

	return domain.RankSignals(signals)
}
