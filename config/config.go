// Package config exposes the strongly typed bot configuration loaded from YAML.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses YAML values like "30s" or "1m" via time.ParseDuration.
type Duration time.Duration

// Duration returns the wrapped standard-library value.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	dur, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(dur)
	return nil
}

// Weights is the fixed weight table applied to the six strategy signals.
// The weights must sum to 1.0.
type Weights struct {
	ADX       float64 `yaml:"adx"`
	EMA       float64 `yaml:"ema"`
	Bollinger float64 `yaml:"bollinger"`
	ATR       float64 `yaml:"atr"`
	MACD      float64 `yaml:"macd"`
	RSI       float64 `yaml:"rsi"`
}

// Sum returns the total weight mass.
func (w Weights) Sum() float64 {
	return w.ADX + w.EMA + w.Bollinger + w.ATR + w.MACD + w.RSI
}

// Config holds every tunable parameter for the bot.
type Config struct {
	// Instrument
	Symbol   string  `yaml:"symbol"`
	Interval string  `yaml:"interval"`
	Quantity float64 `yaml:"quantity"`

	// Exchange connectivity
	APIKey     string   `yaml:"api_key"`
	APISecret  string   `yaml:"api_secret"`
	Testnet    bool     `yaml:"testnet"`
	RecvWindow Duration `yaml:"recv_window"`

	// Signal weighting
	Weights         Weights `yaml:"weights"`
	SignalThreshold float64 `yaml:"signal_threshold"`

	// RSI oscillator bounds
	RSIOverbought float64 `yaml:"rsi_overbought"`
	RSIOversold   float64 `yaml:"rsi_oversold"`

	// Scheduling
	CycleInterval      Duration `yaml:"cycle_interval"`
	SubmitRetryDelay   Duration `yaml:"submit_retry_delay"`
	StatusPollInterval Duration `yaml:"status_poll_interval"`

	// Optional risk-based sizing; zero values fall back to the fixed Quantity.
	MaxRiskPerTrade float64 `yaml:"max_risk_per_trade"`
	StopLossPct     float64 `yaml:"stop_loss_pct"`

	// Observability
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns the configuration the original bot shipped with.
func Default() Config {
	return Config{
		Symbol:   "BTCUSDT",
		Interval: "1m",
		Quantity: 0.06,
		Weights: Weights{
			ADX:       0.20,
			EMA:       0.25,
			Bollinger: 0.10,
			ATR:       0.20,
			MACD:      0.15,
			RSI:       0.10,
		},
		SignalThreshold:    0.30,
		RSIOverbought:      70,
		RSIOversold:        30,
		RecvWindow:         Duration(5 * time.Second),
		CycleInterval:      Duration(time.Minute),
		SubmitRetryDelay:   Duration(5 * time.Second),
		StatusPollInterval: Duration(time.Minute),
		MetricsAddr:        ":9105",
	}
}

// Load reads a YAML file from disk and hydrates a Config, starting from the
// defaults so a partial file is fine.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	cfg := Default()
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overrides credentials from the environment, so secrets never have
// to live in the YAML file.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		c.APISecret = v
	}
}

// Validate checks that all fields are within sensible bounds. It returns the
// first encountered error, allowing the caller to surface a clear
// configuration problem before any trading starts.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return errors.New("Symbol must not be empty")
	}
	if c.Interval == "" {
		return errors.New("Interval must not be empty")
	}
	if c.Quantity <= 0 {
		return fmt.Errorf("Quantity (%f) must be positive", c.Quantity)
	}
	if sum := c.Weights.Sum(); math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("signal weights must sum to 1.0, got %f", sum)
	}
	// The threshold must sit strictly inside (0, 1) so that partial agreement
	// among the signals yields NO_SIGNAL while near-unanimity can still
	// cross it.
	if c.SignalThreshold <= 0 || c.SignalThreshold >= c.Weights.Sum() {
		return fmt.Errorf("SignalThreshold (%f) must be strictly inside (0, %f)", c.SignalThreshold, c.Weights.Sum())
	}
	if c.RSIOverbought <= c.RSIOversold {
		return errors.New("RSIOverbought must be greater than RSIOversold")
	}
	if c.RecvWindow <= 0 {
		return errors.New("RecvWindow must be positive")
	}
	if c.CycleInterval <= 0 {
		return errors.New("CycleInterval must be positive")
	}
	if c.SubmitRetryDelay <= 0 {
		return errors.New("SubmitRetryDelay must be positive")
	}
	if c.StatusPollInterval <= 0 {
		return errors.New("StatusPollInterval must be positive")
	}
	if c.MaxRiskPerTrade < 0 || c.MaxRiskPerTrade > 0.5 {
		return fmt.Errorf("MaxRiskPerTrade (%f) must be >=0 and <=0.5", c.MaxRiskPerTrade)
	}
	if c.StopLossPct < 0 || c.StopLossPct > 0.2 {
		return fmt.Errorf("StopLossPct (%f) must be >=0 and <=0.2", c.StopLossPct)
	}
	if c.MaxRiskPerTrade > 0 && c.StopLossPct == 0 {
		return errors.New("StopLossPct is required when MaxRiskPerTrade is set")
	}
	return nil
}
