package models

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// Model es un modelo de forecasting: produce una estimación de probabilidad
// con confianza para los mercados de sus categorías. "Sin estimación" es un
// ok=false, no un error: el modelo decide si el mercado le aplica.
type Model interface {
	Name() string
	Categories() []string
	Estimate(ctx context.Context, m domain.Market) (domain.Estimate, bool)
}

// Runner ejecuta los modelos registrados sobre un snapshot de mercados.
// Los modelos se registran explícitamente: nada de duck typing.
type Runner struct {
	models []Model
	now    func() time.Time
}

// NewRunner crea un Runner vacío.
func NewRunner() *Runner {
	return &Runner{now: time.Now}
}

// Register añade un modelo. El orden de registro determina el orden de las
// estimaciones producidas (los ciclos son deterministas).
func (r *Runner) Register(m Model) {
	r.models = append(r.models, m)
	slog.Info("model registered", "name", m.Name(), "categories", m.Categories())
}

// Run produce las estimaciones de todos los modelos aplicables sobre los
// mercados tradeables. Cada estimación lleva el timestamp del ciclo.
func (r *Runner) Run(ctx context.Context, markets []domain.Market) []domain.Estimate {
	now := r.now().UTC()

	var out []domain.Estimate
	for _, model := range r.models {
		for _, m := range markets {
			if !m.Tradable() {
				continue
			}
			if !slices.Contains(model.Categories(), m.Category) {
				continue
			}

			est, ok := model.Estimate(ctx, m)
			if !ok {
				continue
			}
			est.Ticker = m.Ticker
			est.Source = model.Name()
			est.CreatedAt = now
			out = append(out, est)
		}
	}
	return out
}
