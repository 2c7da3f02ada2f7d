package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aura-nw/msafe-core/config"
	"github.com/aura-nw/msafe-core/gateway"
	"github.com/aura-nw/msafe-core/http_server"
	"github.com/aura-nw/msafe-core/models"
	"github.com/aura-nw/msafe-core/service"
	"github.com/aura-nw/msafe-core/transaction/composer"
	"github.com/aura-nw/msafe-core/transaction/reconcile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := openDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	if err := db.AutoMigrate(&models.Safe{}, &models.AddressBookEntry{}, &models.TokenConfig{}, &models.Preference{}); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	gasPrice, err := decimal.NewFromString(cfg.GasPrice)
	if err != nil {
		logger.Fatal("invalid gas price", zap.String("gasPrice", cfg.GasPrice), zap.Error(err))
	}
	chain := composer.ChainConfig{
		ChainID:         cfg.ChainID,
		InternalChainID: cfg.InternalChainID,
		Prefix:          cfg.AddressPrefix,
		Denom:           cfg.Denom,
		Symbol:          cfg.Symbol,
		Decimals:        cfg.Decimals,
		GasPrice:        gasPrice,
	}

	rest := resty.New().SetTimeout(30 * time.Second)
	client := gateway.NewClient(cfg.GatewayURL, rest, logger)
	comp := composer.New(client, chain, logger)
	rec := reconcile.New()

	s := service.New(db, client, comp, rec, chain, cfg.PollRate, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for _, row := range s.StoredSafes() {
		go s.WatchSafe(ctx, row.SafeID, cfg.PollInterval)
	}

	if err := http_server.HandleRequests(s, cfg.ListenPort, logger); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}

// openDB picks postgres when DATABASE_URL is set, sqlite otherwise. The
// sqlite path keeps local development free of external services.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(cfg.SqlitePath), &gorm.Config{})
}
