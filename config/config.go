package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del trader.
type Config struct {
	Trading  TradingConfig  `yaml:"trading"`
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Models   ModelsConfig   `yaml:"models"`
	Telegram TelegramConfig `yaml:"telegram"`
	Log      LogConfig      `yaml:"log"`
}

// TradingConfig controla la detección de señales y el sizing.
type TradingConfig struct {
	IntervalSeconds  int     `yaml:"interval_seconds"`
	StartingBankroll float64 `yaml:"starting_bankroll"`
	MinEdgePct       float64 `yaml:"min_edge_pct"` // edge mínimo en puntos porcentuales
	MinConfidence    float64 `yaml:"min_confidence"`
	BandLow          float64 `yaml:"band_low"` // banda de incertidumbre, inclusive
	BandHigh         float64 `yaml:"band_high"`
	KellyMultiplier  float64 `yaml:"kelly_multiplier"`
	MaxPositionPct   float64 `yaml:"max_position_pct"`
	EstimateWindowH  int     `yaml:"estimate_window_hours"`
	DryRun           bool    `yaml:"dry_run"` // sin red: feed estático, sin websocket
}

// APIConfig contiene los endpoints de Kalshi.
type APIConfig struct {
	RESTBase string `yaml:"rest_base"`
	WSURL    string `yaml:"ws_url"`
	Stream   bool   `yaml:"stream"` // websocket de precios en vivo
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// ModelsConfig controla los modelos de forecasting.
type ModelsConfig struct {
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
	FeedBase        string `yaml:"feed_base"` // base URL del feed de series; vacío = feed estático
}

// TelegramConfig habilita alertas por Telegram. Token y chat ID solo por env
// (TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID), nunca en el YAML.
type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"-"`
	ChatID   string `yaml:"-"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// CycleInterval devuelve el intervalo entre ciclos como time.Duration.
func (c *Config) CycleInterval() time.Duration {
	return time.Duration(c.Trading.IntervalSeconds) * time.Second
}

// EstimateWindow devuelve la ventana de frescura de estimaciones.
func (c *Config) EstimateWindow() time.Duration {
	return time.Duration(c.Trading.EstimateWindowH) * time.Hour
}

// CacheTTL devuelve el TTL de la cache de series.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Models.CacheTTLMinutes) * time.Minute
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("KALSHIBOT_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Trading.IntervalSeconds <= 0 {
		cfg.Trading.IntervalSeconds = 300
	}
	if cfg.Trading.StartingBankroll <= 0 {
		cfg.Trading.StartingBankroll = 1000
	}
	if cfg.Trading.MinEdgePct <= 0 {
		cfg.Trading.MinEdgePct = 5
	}
	if cfg.Trading.MinConfidence <= 0 {
		cfg.Trading.MinConfidence = 0.55
	}
	if cfg.Trading.BandLow <= 0 {
		cfg.Trading.BandLow = 0.30
	}
	if cfg.Trading.BandHigh <= 0 {
		cfg.Trading.BandHigh = 0.70
	}
	if cfg.Trading.KellyMultiplier <= 0 {
		cfg.Trading.KellyMultiplier = 0.25
	}
	if cfg.Trading.MaxPositionPct <= 0 {
		cfg.Trading.MaxPositionPct = 5
	}
	if cfg.Trading.EstimateWindowH <= 0 {
		cfg.Trading.EstimateWindowH = 6
	}
	if cfg.API.RESTBase == "" {
		cfg.API.RESTBase = "https://api.elections.kalshi.com/trade-api/v2"
	}
	if cfg.API.WSURL == "" {
		cfg.API.WSURL = "wss://api.elections.kalshi.com/trade-api/ws/v2"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "kalshibot.db"
	}
	if cfg.Models.CacheTTLMinutes <= 0 {
		cfg.Models.CacheTTLMinutes = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// validate rechaza combinaciones sin sentido antes de arrancar.
func validate(cfg *Config) error {
	if cfg.Trading.BandLow >= cfg.Trading.BandHigh {
		return fmt.Errorf("config.Load: band_low %.2f >= band_high %.2f",
			cfg.Trading.BandLow, cfg.Trading.BandHigh)
	}
	if cfg.Trading.KellyMultiplier > 1 {
		return fmt.Errorf("config.Load: kelly_multiplier %.2f > 1",
			cfg.Trading.KellyMultiplier)
	}
	if cfg.Telegram.Enabled && (cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "") {
		return fmt.Errorf("config.Load: telegram enabled but TELEGRAM_BOT_TOKEN/TELEGRAM_CHAT_ID not set")
	}
	return nil
}
