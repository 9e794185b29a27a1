package kalshi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	initialBackoff = 1 * time.Second
	maxBackoff     = 60 * time.Second
	backoffFactor  = 2.0
	jitterPercent  = 0.2

	writeTimeout = 10 * time.Second
	readTimeout  = 70 * time.Second
)

// PriceUpdate es una actualización de precio del canal ticker.
type PriceUpdate struct {
	Ticker string
	Price  float64 // YES en [0,1]
}

// Stream mantiene la conexión websocket al canal ticker de Kalshi y publica
// actualizaciones de precio. Reconecta con backoff exponencial con jitter.
type Stream struct {
	url      string
	updates  chan PriceUpdate
	conn     *websocket.Conn
	connMu   sync.Mutex
	backoff  time.Duration
	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewStream crea un Stream para el websocket URL dado.
func NewStream(url string) *Stream {
	return &Stream{
		url:     url,
		updates: make(chan PriceUpdate, 256),
		backoff: initialBackoff,
		stop:    make(chan struct{}),
	}
}

// Updates devuelve el canal de actualizaciones de precio.
func (s *Stream) Updates() <-chan PriceUpdate {
	return s.updates
}

// Start arranca el loop de conexión en su propia goroutine.
func (s *Stream) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.runLoop(ctx)
}

// Stop cierra la conexión y espera a que el loop termine.
func (s *Stream) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.closeConn()
	s.wg.Wait()
}

// runLoop conecta, lee y reconecta hasta que el contexto se cancele.
func (s *Stream) runLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		default:
		}

		if err := s.connect(ctx); err != nil {
			slog.Warn("ws connect failed", "err", err, "backoff", s.backoff)
			s.waitBackoff(ctx)
			continue
		}

		if err := s.readLoop(ctx); err != nil {
			slog.Warn("ws read error", "err", err)
		}
		s.closeConn()

		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		default:
			s.waitBackoff(ctx)
		}
	}
}

// connect establece la conexión y se suscribe al canal ticker.
func (s *Stream) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, resp, err := dialer.DialContext(ctx, s.url, http.Header{})
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial: status %d: %w", resp.StatusCode, err)
		}
		return fmt.Errorf("dial: %w", err)
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()
	s.backoff = initialBackoff

	sub := map[string]any{
		"id":  1,
		"cmd": "subscribe",
		"params": map[string]any{
			"channels": []string{"ticker"},
		},
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	slog.Info("ws connected", "endpoint", s.url)
	return nil
}

// readLoop lee mensajes y publica actualizaciones de precio.
func (s *Stream) readLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		default:
		}

		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()
		if conn == nil {
			return fmt.Errorf("connection is nil")
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		s.handleMessage(data)
	}
}

// handleMessage parsea un mensaje ticker y lo publica sin bloquear.
func (s *Stream) handleMessage(data []byte) {
	var msg tickerMessage
	if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "ticker" {
		return
	}
	if msg.Msg.MarketTicker == "" || msg.Msg.Price <= 0 {
		return
	}

	update := PriceUpdate{
		Ticker: msg.Msg.MarketTicker,
		Price:  float64(msg.Msg.Price) / 100,
	}

	select {
	case s.updates <- update:
	default:
		slog.Debug("price updates channel full", "ticker", update.Ticker)
	}
}

// closeConn cierra la conexión de forma segura.
func (s *Stream) closeConn() {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

// waitBackoff espera el backoff con jitter y lo incrementa para el próximo.
func (s *Stream) waitBackoff(ctx context.Context) {
	jitter := time.Duration(float64(s.backoff) * jitterPercent * (rand.Float64()*2 - 1))
	select {
	case <-ctx.Done():
	case <-s.stop:
	case <-time.After(s.backoff + jitter):
	}

	s.backoff = time.Duration(float64(s.backoff) * backoffFactor)
	if s.backoff > maxBackoff {
		s.backoff = maxBackoff
	}
}
