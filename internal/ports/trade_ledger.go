package ports

import (
	"context"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// TradeLedger persiste el ledger de trades simulados.
//
// El storage refuerza el invariante de un solo trade open por ticker con un
// índice único parcial, así el check-then-insert de OpenTrade es seguro
// incluso con callers concurrentes.
type TradeLedger interface {
	// SaveTrade inserta un trade nuevo en estado open.
	SaveTrade(ctx context.Context, trade domain.Trade) error

	// OpenTradeByTicker devuelve el trade open para el ticker, o nil si no hay.
	OpenTradeByTicker(ctx context.Context, ticker string) (*domain.Trade, error)

	// TradeByID devuelve el trade con ese ID, o nil si no existe.
	TradeByID(ctx context.Context, id string) (*domain.Trade, error)

	// OpenTrades devuelve todos los trades en estado open.
	OpenTrades(ctx context.Context) ([]domain.Trade, error)

	// AllTrades devuelve el ledger completo, más antiguos primero.
	AllTrades(ctx context.Context) ([]domain.Trade, error)

	// SettleTrade persiste los campos de settlement de un trade ya resuelto
	// en memoria. El UPDATE está guardado por state='open': un trade terminal
	// nunca se re-resuelve.
	SettleTrade(ctx context.Context, trade domain.Trade) error
}
