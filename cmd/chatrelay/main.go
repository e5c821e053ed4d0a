package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/teilomillet/chatrelay/config"
	"github.com/teilomillet/chatrelay/server"
	"github.com/teilomillet/chatrelay/server/handlers"
	"github.com/teilomillet/chatrelay/server/metrics"
	"github.com/teilomillet/chatrelay/server/processing"
	"github.com/teilomillet/chatrelay/server/provider"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configFile = flag.String("config", "chatrelay.yaml", "Path to configuration file")
	envFile    = flag.String("env-file", ".env", "Path to an optional .env file")
	validate   = flag.Bool("validate", false, "Validate configuration and exit")
	version    = flag.Bool("version", false, "Print version and exit")
)

const Version = "v0.1.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("chatrelay %s\n", Version)
		os.Exit(0)
	}

	if err := config.LoadDotEnv(*envFile); err != nil {
		log.Fatalf("Failed to load env file: %v", err)
	}

	// A missing config file is fine: defaults plus PORT and GEMINI_API_KEY
	cfg, err := config.LoadOptional(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *validate {
		fmt.Println("Configuration is valid")
		os.Exit(0)
	}

	logger, level, err := cfg.Logging.NewLogger()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, level, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

// run builds the upstream client once, injects it down the handler chain and
// serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, level zap.AtomicLevel, logger *zap.Logger) error {
	m := metrics.NewMetrics()

	gen, err := provider.New(ctx, cfg.LLM, logger, m)
	if err != nil {
		return fmt.Errorf("create upstream client: %w", err)
	}

	proc, err := processing.NewProcessor(gen, logger)
	if err != nil {
		return fmt.Errorf("create processor: %w", err)
	}

	router := server.NewRouter(handlers.NewChatbotHandler(proc, logger), m, cfg.Server.StaticDir, logger)
	srv := server.NewServer(cfg.Server, router, logger)

	if _, err := os.Stat(*configFile); err == nil {
		watcher, err := config.NewConfigWatcher(*configFile, logger)
		if err != nil {
			logger.Warn("Config hot reload disabled", zap.Error(err))
		} else {
			defer watcher.Close()
			go watchLogLevel(watcher.Subscribe(), level, logger)
		}
	}

	logger.Info("Starting chatrelay",
		zap.String("version", Version),
		zap.Int("port", cfg.Server.Port),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
	)
	return srv.Start(ctx)
}

// watchLogLevel applies the logging level of each reloaded config until the
// updates channel is closed. Other settings are only read at startup.
func watchLogLevel(updates <-chan *config.Config, level zap.AtomicLevel, logger *zap.Logger) {
	for cfg := range updates {
		var next zapcore.Level
		if err := next.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
			logger.Warn("Ignoring invalid log level", zap.String("level", cfg.Logging.Level))
			continue
		}
		if next != level.Level() {
			logger.Info("Log level changed",
				zap.Stringer("from", level.Level()),
				zap.Stringer("to", next),
			)
			level.SetLevel(next)
		}
	}
}
