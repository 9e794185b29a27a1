package ports

import "context"

// DataFeed expone series de datos externas a los modelos de forecasting
// (p.ej. "forecast_high:NYC", "cpi_yoy", "fed_funds_target").
type DataFeed interface {
	// Fetch devuelve el último valor de la serie.
	Fetch(ctx context.Context, series string) (float64, error)
}
