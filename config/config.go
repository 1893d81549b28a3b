package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dominolu/dex-opinion/internal/domain"
	"github.com/dominolu/dex-opinion/internal/trader"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del trader.
type Config struct {
	Market  MarketConfig  `yaml:"market"`
	Trade   TradeConfig   `yaml:"trade"`
	Maker   MakerConfig   `yaml:"maker"`
	API     APIConfig     `yaml:"api"`
	Bridge  BridgeConfig  `yaml:"bridge"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// MarketConfig identifica el mercado objetivo.
type MarketConfig struct {
	URL         string `yaml:"url"`          // página del mercado, guard de navegación
	TopicID     string `yaml:"topic_id"`     // parent topic id
	OptionLabel string `yaml:"option_label"` // título (o substring) del child market
	Side        string `yaml:"side"`         // yes | no
}

// TradeConfig controla el ciclo buy/hold/sell.
type TradeConfig struct {
	Amount           float64 `yaml:"amount"`             // USD por trade
	Mode             string  `yaml:"mode"`               // taker | maker
	HoldSeconds      int     `yaml:"hold_seconds"`       // hold en modo taker
	WaitBeforeTrade  int     `yaml:"wait_before_trade"`  // segundos antes del primer ciclo
	SellWaitSeconds  int     `yaml:"sell_wait_seconds"`  // segundos antes de liquidar
	MinPositionValue float64 `yaml:"min_position_value"` // piso de valor de posición
	UseAPIFirst      *bool   `yaml:"use_api_first"`      // portfolio API como fuente primaria
}

// MakerConfig controla la ventana de fill en modo maker.
type MakerConfig struct {
	TimeoutSeconds  int  `yaml:"timeout_seconds"`   // ventana de espera del fill
	IntervalSeconds int  `yaml:"interval_seconds"`  // consulta directa de órdenes
	CancelOnTimeout bool `yaml:"cancel_on_timeout"` // cancelar resting orders al expirar
	RetryTimes      int  `yaml:"retry_times"`       // ciclos fatales consecutivos tolerados
}

// APIConfig contiene el endpoint del proxy y la identidad on-chain.
type APIConfig struct {
	Base    string `yaml:"base"`
	ChainID int64  `yaml:"chain_id"`
	Wallet  string `yaml:"wallet"` // vacío → descubrir vía surface
}

// BridgeConfig controla el servidor WebSocket de la execution surface.
type BridgeConfig struct {
	Listen string `yaml:"listen"`
}

// StorageConfig controla dónde se persiste el journal de ciclos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate comprueba los campos sin default razonable.
func (c *Config) Validate() error {
	if c.Market.TopicID == "" {
		return fmt.Errorf("config.Validate: market.topic_id is required")
	}
	if c.Market.OptionLabel == "" {
		return fmt.Errorf("config.Validate: market.option_label is required")
	}
	if _, ok := domain.ParseSide(c.Market.Side); !ok {
		return fmt.Errorf("config.Validate: market.side %q: want yes or no", c.Market.Side)
	}
	if _, ok := domain.ParseStrategyKind(c.Trade.Mode); !ok {
		return fmt.Errorf("config.Validate: trade.mode %q: want taker or maker", c.Trade.Mode)
	}
	return nil
}

// TraderConfig traduce la configuración al parámetro de sesión.
func (c *Config) TraderConfig() trader.Config {
	tc := trader.DefaultConfig()

	tc.MarketURL = c.Market.URL
	tc.TopicID = c.Market.TopicID
	tc.OptionLabel = c.Market.OptionLabel
	side, _ := domain.ParseSide(c.Market.Side)
	strategy, _ := domain.ParseStrategyKind(c.Trade.Mode)
	tc.Side = side
	tc.Strategy = strategy

	tc.Amount = c.Trade.Amount
	tc.Hold = time.Duration(c.Trade.HoldSeconds) * time.Second
	tc.PreTrade = time.Duration(c.Trade.WaitBeforeTrade) * time.Second
	tc.SellWait = time.Duration(c.Trade.SellWaitSeconds) * time.Second

	tc.MakerTimeout = time.Duration(c.Maker.TimeoutSeconds) * time.Second
	tc.MakerOrderCheckEvery = time.Duration(c.Maker.IntervalSeconds) * time.Second
	tc.MakerCancelOnTimeout = c.Maker.CancelOnTimeout
	tc.MakerRetries = c.Maker.RetryTimes

	return tc
}

// UseAPIFirst devuelve el flag con su default (true).
func (c *Config) UseAPIFirst() bool {
	if c.Trade.UseAPIFirst == nil {
		return true
	}
	return *c.Trade.UseAPIFirst
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPINION_API_BASE"); v != "" {
		cfg.API.Base = v
	}
	if v := os.Getenv("OPINION_WALLET"); v != "" {
		cfg.API.Wallet = v
	}
	if v := os.Getenv("OPINION_CHAIN_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.API.ChainID = id
		}
	}
	if v := os.Getenv("BRIDGE_LISTEN"); v != "" {
		cfg.Bridge.Listen = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Market.Side == "" {
		cfg.Market.Side = "yes"
	}
	if cfg.Trade.Mode == "" {
		cfg.Trade.Mode = "taker"
	}
	if cfg.Trade.Amount <= 0 {
		cfg.Trade.Amount = 10
	}
	if cfg.Trade.HoldSeconds <= 0 {
		cfg.Trade.HoldSeconds = 60
	}
	if cfg.Trade.WaitBeforeTrade <= 0 {
		cfg.Trade.WaitBeforeTrade = 2
	}
	if cfg.Trade.SellWaitSeconds <= 0 {
		cfg.Trade.SellWaitSeconds = 5
	}
	if cfg.Trade.MinPositionValue <= 0 {
		cfg.Trade.MinPositionValue = domain.MinPositionValue
	}
	if cfg.Maker.TimeoutSeconds <= 0 {
		cfg.Maker.TimeoutSeconds = 60
	}
	if cfg.Maker.IntervalSeconds <= 0 {
		cfg.Maker.IntervalSeconds = 5
	}
	if cfg.Maker.RetryTimes <= 0 {
		cfg.Maker.RetryTimes = 3
	}
	if cfg.Bridge.Listen == "" {
		cfg.Bridge.Listen = "127.0.0.1:8090"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "opinion-trader.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
