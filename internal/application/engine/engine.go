package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
	"github.com/alejandrodnm/kalshibot/internal/ports"
)

// Forecaster produce estimaciones para un snapshot de mercados.
// Lo implementa el runner de modelos registrados.
type Forecaster interface {
	Run(ctx context.Context, markets []domain.Market) []domain.Estimate
}

// Config contiene la configuración del engine.
type Config struct {
	Interval         time.Duration
	StartingBankroll float64
	Detector         DetectorConfig
	Sizing           SizingPolicy
	EstimateWindow   time.Duration // ventana de estimaciones que ve el detector
	DryRun           bool          // un solo ciclo, sin loop
}

// DefaultConfig devuelve una configuración sensata.
func DefaultConfig() Config {
	return Config{
		Interval:         time.Minute,
		StartingBankroll: 1000,
		Detector:         DefaultDetectorConfig(),
		Sizing:           DefaultSizingPolicy(),
		EstimateWindow:   24 * time.Hour,
	}
}

// Engine orquesta el ciclo completo: fetch mercados → forecast → detectar
// señales → ejecutar batch → resolver settled → snapshot de bankroll →
// notificar → log del ciclo.
type Engine struct {
	cfg        Config
	markets    ports.MarketProvider
	forecaster Forecaster
	estimates  ports.EstimateStore
	cycles     ports.CycleLog
	notifier   ports.Notifier
	prices     *PriceBook

	detector   *Detector
	lifecycle  *Lifecycle
	accountant *Accountant
	executor   *Executor
}

// New crea un Engine con todas las dependencias inyectadas.
// prices puede ser nil si no hay stream de precios en vivo.
func New(
	cfg Config,
	markets ports.MarketProvider,
	forecaster Forecaster,
	ledger ports.TradeLedger,
	estimates ports.EstimateStore,
	cycles ports.CycleLog,
	notifier ports.Notifier,
	prices *PriceBook,
) *Engine {
	lifecycle := NewLifecycle(ledger, cfg.Sizing)
	accountant := NewAccountant(ledger, cfg.StartingBankroll)

	return &Engine{
		cfg:        cfg,
		markets:    markets,
		forecaster: forecaster,
		estimates:  estimates,
		cycles:     cycles,
		notifier:   notifier,
		prices:     prices,
		detector:   NewDetector(cfg.Detector),
		lifecycle:  lifecycle,
		accountant: accountant,
		executor:   NewExecutor(lifecycle, accountant),
	}
}

// Lifecycle expone el lifecycle manager para operaciones manuales (close).
func (e *Engine) Lifecycle() *Lifecycle {
	return e.lifecycle
}

// Accountant expone el read model de bankroll.
func (e *Engine) Accountant() *Accountant {
	return e.accountant
}

// Run ejecuta el loop de ciclos hasta que el contexto se cancele.
// Un ciclo que falla (storage caído, API inaccesible) se loggea y se
// reintenta en el siguiente tick: no hay retries internos.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting",
		"interval", e.cfg.Interval,
		"starting_bankroll", e.cfg.StartingBankroll,
		"dry_run", e.cfg.DryRun,
	)

	if err := e.runCycle(ctx); err != nil {
		slog.Error("cycle failed", "err", err)
		if e.cfg.DryRun {
			return err
		}
	}

	if e.cfg.DryRun {
		return nil
	}

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("engine stopped")
			return nil
		case <-ticker.C:
			if err := e.runCycle(ctx); err != nil {
				slog.Error("cycle failed", "err", err)
			}
		}
	}
}

// RunOnce ejecuta exactamente un ciclo y devuelve el reporte.
func (e *Engine) RunOnce(ctx context.Context) (domain.CycleReport, error) {
	return e.cycle(ctx)
}

// ResolveOnce ejecuta solo una pasada de resolución (para el flag -resolve).
func (e *Engine) ResolveOnce(ctx context.Context) (domain.ResolutionReport, error) {
	markets, err := e.markets.FetchMarkets(ctx)
	if err != nil {
		return domain.ResolutionReport{}, fmt.Errorf("engine.ResolveOnce: fetch markets: %w", err)
	}
	return e.lifecycle.ResolveSettled(ctx, markets)
}

// runCycle ejecuta un ciclo completo y notifica/persiste el reporte.
func (e *Engine) runCycle(ctx context.Context) error {
	report, err := e.cycle(ctx)
	if err != nil {
		return err
	}

	if err := e.notifier.Notify(ctx, report); err != nil {
		slog.Warn("notifier error", "err", err)
	}
	if e.cycles != nil {
		if err := e.cycles.SaveCycle(ctx, report); err != nil {
			slog.Warn("cycle log error", "err", err)
		}
	}

	slog.Info("cycle complete",
		"markets", report.MarketsScanned,
		"signals", len(report.Signals),
		"opened", report.Execution.Opened,
		"skipped", report.Execution.Skipped,
		"resolved", report.Resolution.Resolved,
		"available", report.Bankroll.Available,
		"duration", report.Duration.Round(time.Millisecond),
	)
	return nil
}

// cycle es la secuencia completa de un ciclo. Escritor lógico único del
// ledger: cada operación corre de principio a fin antes de la siguiente.
func (e *Engine) cycle(ctx context.Context) (domain.CycleReport, error) {
	start := time.Now()
	report := domain.CycleReport{At: start.UTC()}

	markets, err := e.markets.FetchMarkets(ctx)
	if err != nil {
		return report, fmt.Errorf("engine.cycle: fetch markets: %w", err)
	}
	if e.prices != nil {
		markets = e.prices.Apply(markets)
	}
	report.MarketsScanned = len(markets)

	// Forecast: los modelos registrados producen estimaciones nuevas que se
	// persisten antes de detectar, así el detector siempre lee del store.
	fresh := e.forecaster.Run(ctx, markets)
	if err := e.estimates.SaveEstimates(ctx, fresh); err != nil {
		return report, fmt.Errorf("engine.cycle: save estimates: %w", err)
	}

	estimates, err := e.estimates.EstimatesSince(ctx, start.Add(-e.cfg.EstimateWindow))
	if err != nil {
		return report, fmt.Errorf("engine.cycle: load estimates: %w", err)
	}
	report.EstimatesUsed = len(estimates)

	report.Signals = e.detector.Detect(markets, estimates)

	execReport, opened, err := e.executor.Execute(ctx, report.Signals)
	if err != nil {
		return report, fmt.Errorf("engine.cycle: execute: %w", err)
	}
	report.Execution = execReport
	report.Opened = opened

	resolution, err := e.lifecycle.ResolveSettled(ctx, markets)
	if err != nil {
		return report, fmt.Errorf("engine.cycle: resolve: %w", err)
	}
	report.Resolution = resolution

	bankroll, err := e.accountant.Snapshot(ctx)
	if err != nil {
		return report, fmt.Errorf("engine.cycle: bankroll: %w", err)
	}
	report.Bankroll = bankroll

	openPositions, err := e.lifecycle.ledger.OpenTrades(ctx)
	if err != nil {
		return report, fmt.Errorf("engine.cycle: open positions: %w", err)
	}
	report.OpenPositions = openPositions

	report.Duration = time.Since(start)
	return report, nil
}
