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
	Risk     RiskConfig     `yaml:"risk"`
	Screener ScreenerConfig `yaml:"screener"`
	API      APIConfig      `yaml:"api"`
	Research ResearchConfig `yaml:"research"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// TradingConfig controla el ciclo de decisión y el tamaño de posiciones.
type TradingConfig struct {
	Strategy         string  `yaml:"strategy"`          // same_day | weekly
	IntervalSeconds  int     `yaml:"interval_seconds"`
	MinEdge          float64 `yaml:"min_edge"`          // 0 = usar el del perfil
	MinSources       int     `yaml:"min_sources"`
	KellyFraction    float64 `yaml:"kelly_fraction"`
	MaxPositionPct   float64 `yaml:"max_position_pct"`
	MinCashReserve   float64 `yaml:"min_cash_reserve"`
	MinCashPct       float64 `yaml:"min_cash_pct"` // piso de cash como fracción del equity
	MaxOpenPositions int     `yaml:"max_open_positions"`
	MinBetUSD        float64 `yaml:"min_bet_usd"`
}

// RiskConfig controla los umbrales del gobernador de riesgo.
type RiskConfig struct {
	DrawdownPct     float64 `yaml:"drawdown_pct"`
	PositionLossPct float64 `yaml:"position_loss_pct"`
	ShrinkFactor    float64 `yaml:"shrink_factor"`
	MaxLossStreak   int     `yaml:"max_loss_streak"`
	BalanceFloorUSD float64 `yaml:"balance_floor_usd"`
}

// ScreenerConfig controla el filtrado y ranking de mercados.
type ScreenerConfig struct {
	MinVolume24h      int64   `yaml:"min_volume_24h"`
	MinLiquidityCents int64   `yaml:"min_liquidity_cents"`
	MaxSpreadCents    int     `yaml:"max_spread_cents"`
	MaxResults        int     `yaml:"max_results"`
	WeightVolume      float64 `yaml:"weight_volume"`
	WeightSpread      float64 `yaml:"weight_spread"`
	WeightLiquidity   float64 `yaml:"weight_liquidity"`
}

// APIConfig contiene el base URL y las credenciales del exchange.
// La private key y el key ID se leen SIEMPRE de env (.env soportado),
// nunca del YAML.
type APIConfig struct {
	Base string `yaml:"base"` // vacío = producción; "demo" = demo
}

// ResearchConfig apunta al archivo de estimaciones externas.
type ResearchConfig struct {
	EstimatesPath string `yaml:"estimates_path"`
}

// StorageConfig controla dónde se persiste el espejo local.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env
// si existe. Los valores del .env sobreescriben los del YAML para las
// keys que correspondan.
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
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// CycleInterval devuelve el intervalo entre ciclos como time.Duration.
func (c *Config) CycleInterval() time.Duration {
	return time.Duration(c.Trading.IntervalSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KALSHI_API_BASE"); v != "" {
		cfg.API.Base = v
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
	if cfg.Trading.Strategy == "" {
		cfg.Trading.Strategy = "same_day"
	}
	if cfg.Trading.IntervalSeconds <= 0 {
		cfg.Trading.IntervalSeconds = 300
	}
	if cfg.Trading.MinSources <= 0 {
		cfg.Trading.MinSources = 2
	}
	if cfg.Trading.KellyFraction <= 0 {
		cfg.Trading.KellyFraction = 0.3
	}
	if cfg.Trading.MaxPositionPct <= 0 {
		cfg.Trading.MaxPositionPct = 0.10
	}
	if cfg.Trading.MaxOpenPositions <= 0 {
		cfg.Trading.MaxOpenPositions = 10
	}
	if cfg.Trading.MinBetUSD <= 0 {
		cfg.Trading.MinBetUSD = 5
	}
	if cfg.Risk.DrawdownPct <= 0 {
		cfg.Risk.DrawdownPct = 0.15
	}
	if cfg.Risk.PositionLossPct <= 0 {
		cfg.Risk.PositionLossPct = 0.30
	}
	if cfg.Risk.ShrinkFactor <= 0 {
		cfg.Risk.ShrinkFactor = 0.5
	}
	if cfg.Risk.MaxLossStreak <= 0 {
		cfg.Risk.MaxLossStreak = 4
	}
	if cfg.Screener.MinVolume24h <= 0 {
		cfg.Screener.MinVolume24h = 500
	}
	if cfg.Screener.MinLiquidityCents <= 0 {
		cfg.Screener.MinLiquidityCents = 10_000
	}
	if cfg.Screener.MaxSpreadCents <= 0 {
		cfg.Screener.MaxSpreadCents = 5
	}
	if cfg.Screener.MaxResults <= 0 {
		cfg.Screener.MaxResults = 25
	}
	if cfg.Screener.WeightVolume <= 0 && cfg.Screener.WeightSpread <= 0 && cfg.Screener.WeightLiquidity <= 0 {
		cfg.Screener.WeightVolume = 0.4
		cfg.Screener.WeightSpread = 0.35
		cfg.Screener.WeightLiquidity = 0.25
	}
	if cfg.Research.EstimatesPath == "" {
		cfg.Research.EstimatesPath = "estimates.json"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "kalshibot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// validate rechaza configuraciones que dimensionarían mal una cuenta real.
func validate(cfg *Config) error {
	if cfg.Trading.KellyFraction > 1 {
		return fmt.Errorf("kelly_fraction %.2f > 1: Kelly fraccional debe ser ≤ 1", cfg.Trading.KellyFraction)
	}
	if cfg.Trading.MaxPositionPct > 1 {
		return fmt.Errorf("max_position_pct %.2f > 1", cfg.Trading.MaxPositionPct)
	}
	if cfg.Trading.MinCashPct > 1 {
		return fmt.Errorf("min_cash_pct %.2f > 1", cfg.Trading.MinCashPct)
	}
	if cfg.Risk.ShrinkFactor > 1 {
		return fmt.Errorf("shrink_factor %.2f > 1: Caution debe reducir, no ampliar", cfg.Risk.ShrinkFactor)
	}
	return nil
}
