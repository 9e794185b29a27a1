package domain

import "time"

// ExecutionReport son los contadores agregados de un batch de señales.
// opened + skipped == señales recibidas, siempre.
type ExecutionReport struct {
	Opened  int
	Skipped int
}

// ResolutionReport es el resultado agregado de una pasada de resolución.
type ResolutionReport struct {
	Resolved int
	Wins     int
	Losses   int
	Profit   float64
}

// CycleReport es el resumen de un ciclo completo del engine, lo que consumen
// los notifiers y el cycle log.
type CycleReport struct {
	At             time.Time
	Duration       time.Duration
	MarketsScanned int
	EstimatesUsed  int
	Signals        []Signal
	Opened         []Trade
	OpenPositions  []Trade
	Execution      ExecutionReport
	Resolution     ResolutionReport
	Bankroll       Bankroll
}
