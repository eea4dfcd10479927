// Binary gotrend runs the weighted multi-signal trading agent against
// Binance USD-M futures.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/evdnx/gotrend/binance"
	"github.com/evdnx/gotrend/bot"
	"github.com/evdnx/gotrend/config"
	"github.com/evdnx/gotrend/executor"
	"github.com/evdnx/gotrend/logger"
	"github.com/evdnx/gotrend/metrics"
	sig "github.com/evdnx/gotrend/signal"
	"github.com/evdnx/gotrend/tracker"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults built in when empty)")
	flag.Parse()

	// Local development keeps credentials in a .env file; absence is fine.
	_ = godotenv.Load()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("config error: %v", err)
		}
		cfg = *loaded
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	zlog, err := logger.NewZapLogger()
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}

	if cfg.MetricsAddr != "" {
		metrics.Serve(cfg.MetricsAddr)
	}

	opts := []binance.Option{binance.WithRecvWindow(cfg.RecvWindow.Duration())}
	if cfg.Testnet {
		opts = append(opts, binance.WithTestnet())
	}
	client := binance.New(cfg.APIKey, cfg.APISecret, zlog, opts...)

	providers := sig.Providers{
		ADX:       &sig.ADX{Source: client},
		EMA:       &sig.EMA{Source: client},
		Bollinger: &sig.Bollinger{Source: client},
		ATR:       &sig.ATR{Source: client},
		MACD:      &sig.MACD{Source: client},
		RSI:       &sig.RSI{Source: client, Overbought: cfg.RSIOverbought, Oversold: cfg.RSIOversold},
	}

	engine := executor.New(client, zlog, cfg.SubmitRetryDelay.Duration(), cfg.StatusPollInterval.Duration())
	positions := tracker.New(cfg, engine, client, zlog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bot.New(cfg, client, providers, positions, zlog).Run(ctx); err != nil && err != context.Canceled {
		zlog.Error("bot_stopped", logger.Err(err))
		os.Exit(1)
	}
	zlog.Info("bot_shutdown_complete")
}
