package storage

// sqlite.go — persistencia del simulador en un solo archivo SQLite.
//
// Estrategia:
//   - `trades`: el ledger completo. Nunca se borra una fila; los trades pasan
//     de open a un estado terminal in-place. Un índice único parcial sobre
//     (ticker) WHERE state='open' refuerza el invariante de una sola posición
//     abierta por ticker a nivel de storage.
//   - `estimates`: append-only. El rowid preserva el orden de inserción, que
//     es el tie-break de timestamps (last write wins).
//   - `cycles`: resumen ligero por ciclo, una fila por ciclo.
//   - Prune automático al arrancar: estimates > 7d, cycles > 30d.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Ledger de trades simulados. Las filas nunca se borran.
CREATE TABLE IF NOT EXISTS trades (
    id            TEXT PRIMARY KEY,
    ticker        TEXT NOT NULL,
    title         TEXT,
    category      TEXT NOT NULL DEFAULT '',
    side          TEXT NOT NULL,
    entry_price   REAL NOT NULL,
    contracts     INTEGER NOT NULL,
    cost_basis    REAL NOT NULL,
    edge_at_entry REAL NOT NULL DEFAULT 0,
    state         TEXT NOT NULL DEFAULT 'open',
    opened_at     DATETIME NOT NULL,
    exit_price    REAL,
    revenue       REAL NOT NULL DEFAULT 0,
    profit        REAL NOT NULL DEFAULT 0,
    profit_pct    REAL NOT NULL DEFAULT 0,
    settled_at    DATETIME
);

-- Una sola posición abierta por ticker, reforzado por el storage.
CREATE UNIQUE INDEX IF NOT EXISTS idx_trades_open_ticker
    ON trades(ticker) WHERE state = 'open';
CREATE INDEX IF NOT EXISTS idx_trades_state ON trades(state);

-- Estimaciones de los modelos, append-only.
CREATE TABLE IF NOT EXISTS estimates (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    ticker      TEXT NOT NULL,
    source      TEXT NOT NULL,
    probability REAL NOT NULL,
    confidence  REAL NOT NULL,
    created_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_estimates_created ON estimates(created_at);

-- Resumen ligero por ciclo del engine.
CREATE TABLE IF NOT EXISTS cycles (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    ran_at       DATETIME NOT NULL,
    markets      INTEGER NOT NULL DEFAULT 0,
    signals      INTEGER NOT NULL DEFAULT 0,
    opened       INTEGER NOT NULL DEFAULT 0,
    skipped      INTEGER NOT NULL DEFAULT 0,
    resolved     INTEGER NOT NULL DEFAULT 0,
    available    REAL NOT NULL DEFAULT 0,
    invested     REAL NOT NULL DEFAULT 0,
    realized_pnl REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_cycles_at ON cycles(ran_at DESC);
`

const (
	retentionEstimates = 7 * 24 * time.Hour
	retentionCycles    = 30 * 24 * time.Hour
)

// SQLiteStorage implementa ports.TradeLedger, ports.EstimateStore y
// ports.CycleLog usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- TradeLedger ---

// SaveTrade inserta un trade nuevo. Si ya existe una posición abierta para el
// ticker, el índice único parcial hace fallar el INSERT.
func (s *SQLiteStorage) SaveTrade(ctx context.Context, t domain.Trade) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (id, ticker, title, category, side, entry_price,
		                    contracts, cost_basis, edge_at_entry, state, opened_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Ticker, t.Title, t.Category, string(t.Side), t.EntryPrice,
		t.Contracts, t.CostBasis, t.EdgeAtEntry, string(t.State),
		t.OpenedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveTrade: %w", err)
	}
	return nil
}

// OpenTradeByTicker devuelve la posición abierta para el ticker, o nil.
func (s *SQLiteStorage) OpenTradeByTicker(ctx context.Context, ticker string) (*domain.Trade, error) {
	trades, err := s.queryTrades(ctx, selectTrades+` WHERE ticker = ? AND state = 'open'`, ticker)
	if err != nil {
		return nil, fmt.Errorf("storage.OpenTradeByTicker: %w", err)
	}
	if len(trades) == 0 {
		return nil, nil
	}
	return &trades[0], nil
}

// TradeByID devuelve el trade con ese ID, o nil si no existe.
func (s *SQLiteStorage) TradeByID(ctx context.Context, id string) (*domain.Trade, error) {
	trades, err := s.queryTrades(ctx, selectTrades+` WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("storage.TradeByID: %w", err)
	}
	if len(trades) == 0 {
		return nil, nil
	}
	return &trades[0], nil
}

// OpenTrades devuelve todas las posiciones abiertas, más antiguas primero.
func (s *SQLiteStorage) OpenTrades(ctx context.Context) ([]domain.Trade, error) {
	trades, err := s.queryTrades(ctx, selectTrades+` WHERE state = 'open' ORDER BY opened_at, id`)
	if err != nil {
		return nil, fmt.Errorf("storage.OpenTrades: %w", err)
	}
	return trades, nil
}

// AllTrades devuelve el ledger completo, más antiguos primero.
func (s *SQLiteStorage) AllTrades(ctx context.Context) ([]domain.Trade, error) {
	trades, err := s.queryTrades(ctx, selectTrades+` ORDER BY opened_at, id`)
	if err != nil {
		return nil, fmt.Errorf("storage.AllTrades: %w", err)
	}
	return trades, nil
}

// SettleTrade persiste los campos de settlement. El guard state='open' hace
// que re-resolver un trade terminal sea un no-op.
func (s *SQLiteStorage) SettleTrade(ctx context.Context, t domain.Trade) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE trades
		SET state = ?, exit_price = ?, revenue = ?, profit = ?, profit_pct = ?, settled_at = ?
		WHERE id = ? AND state = 'open'`,
		string(t.State), t.ExitPrice, t.Revenue, t.Profit, t.ProfitPct,
		t.SettledAt.UTC().Format(time.RFC3339), t.ID,
	)
	if err != nil {
		return fmt.Errorf("storage.SettleTrade: %w", err)
	}
	return nil
}

// --- EstimateStore ---

// SaveEstimates inserta un batch de estimaciones en una transacción.
func (s *SQLiteStorage) SaveEstimates(ctx context.Context, estimates []domain.Estimate) error {
	if len(estimates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveEstimates: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO estimates (ticker, source, probability, confidence, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SaveEstimates: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range estimates {
		if _, err := stmt.ExecContext(ctx,
			e.Ticker, e.Source, e.Probability, e.Confidence,
			e.CreatedAt.UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("storage.SaveEstimates: insert %s/%s: %w", e.Ticker, e.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveEstimates: commit: %w", err)
	}
	return nil
}

// EstimatesSince devuelve estimaciones en orden de inserción (rowid).
func (s *SQLiteStorage) EstimatesSince(ctx context.Context, since time.Time) ([]domain.Estimate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ticker, source, probability, confidence, created_at
		FROM estimates WHERE created_at >= ?
		ORDER BY id`,
		since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("storage.EstimatesSince: %w", err)
	}
	defer rows.Close()

	var out []domain.Estimate
	for rows.Next() {
		var e domain.Estimate
		var createdAt string
		if err := rows.Scan(&e.Ticker, &e.Source, &e.Probability, &e.Confidence, &createdAt); err != nil {
			return nil, fmt.Errorf("storage.EstimatesSince: scan: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// --- CycleLog ---

// SaveCycle persiste el resumen del ciclo — siempre una fila, pesa ~60 bytes.
func (s *SQLiteStorage) SaveCycle(ctx context.Context, r domain.CycleReport) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cycles (ran_at, markets, signals, opened, skipped, resolved,
		                    available, invested, realized_pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.At.UTC().Format(time.RFC3339), r.MarketsScanned, len(r.Signals),
		r.Execution.Opened, r.Execution.Skipped, r.Resolution.Resolved,
		r.Bankroll.Available, r.Bankroll.Invested, r.Bankroll.RealizedPnL,
	)
	if err != nil {
		return fmt.Errorf("storage.SaveCycle: %w", err)
	}
	return nil
}

// --- helpers internos ---

const selectTrades = `
	SELECT id, ticker, title, category, side, entry_price, contracts,
	       cost_basis, edge_at_entry, state, opened_at, exit_price,
	       revenue, profit, profit_pct, settled_at
	FROM trades`

// queryTrades escanea filas de trades a domain.Trade.
func (s *SQLiteStorage) queryTrades(ctx context.Context, query string, args ...any) ([]domain.Trade, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Trade
	for rows.Next() {
		var t domain.Trade
		var side, state, openedAt string
		var title, settledAt sql.NullString
		var exitPrice sql.NullFloat64

		if err := rows.Scan(
			&t.ID, &t.Ticker, &title, &t.Category, &side, &t.EntryPrice,
			&t.Contracts, &t.CostBasis, &t.EdgeAtEntry, &state, &openedAt,
			&exitPrice, &t.Revenue, &t.Profit, &t.ProfitPct, &settledAt,
		); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}

		t.Side = domain.Side(side)
		t.State = domain.TradeState(state)
		t.OpenedAt, _ = time.Parse(time.RFC3339, openedAt)
		if title.Valid {
			t.Title = title.String
		}
		if exitPrice.Valid {
			t.ExitPrice = exitPrice.Float64
		}
		if settledAt.Valid {
			t.SettledAt, _ = time.Parse(time.RFC3339, settledAt.String)
		}

		out = append(out, t)
	}
	return out, rows.Err()
}

// pruneOld elimina datos antiguos para mantener la DB ligera.
// Los trades no se tocan: el ledger es la fuente de verdad del bankroll.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoffEstimates := time.Now().UTC().Add(-retentionEstimates)
	cutoffCycles := time.Now().UTC().Add(-retentionCycles)
	s.db.ExecContext(ctx, `DELETE FROM estimates WHERE created_at < ?`,
		cutoffEstimates.Format(time.RFC3339))
	s.db.ExecContext(ctx, `DELETE FROM cycles WHERE ran_at < ?`,
		cutoffCycles.Format(time.RFC3339))
}
