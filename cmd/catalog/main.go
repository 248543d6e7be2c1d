package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mercata/catalog-engine/config"
	compRepoPkg "github.com/mercata/catalog-engine/internal/composition/repository"
	"github.com/mercata/catalog-engine/internal/migration"
	"github.com/mercata/catalog-engine/internal/model"
	proddto "github.com/mercata/catalog-engine/internal/product/dto"
	prodRepoPkg "github.com/mercata/catalog-engine/internal/product/repository"
	prodUCPkg "github.com/mercata/catalog-engine/internal/product/usecase"
	pvRepoPkg "github.com/mercata/catalog-engine/internal/productvariation/repository"
	"github.com/mercata/catalog-engine/internal/storage"
	"github.com/mercata/catalog-engine/internal/storage/memory"
	redisstore "github.com/mercata/catalog-engine/internal/storage/redis"
	"github.com/mercata/catalog-engine/internal/storage/sqlkv"
	transUCPkg "github.com/mercata/catalog-engine/internal/transition/usecase"
	varRepoPkg "github.com/mercata/catalog-engine/internal/variation/repository"
	vtRepoPkg "github.com/mercata/catalog-engine/internal/variationtype/repository"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logger := newLogger(cfg)
	defer logger.Sync()

	ctx := context.Background()

	// 3. Pick the storage backend
	store, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("could not initialize %s storage: %v", cfg.Storage.Backend, err)
	}
	defer cleanup()
	logger.Info("storage ready", zap.String("backend", cfg.Storage.Backend))

	// 4. Initialize Repositories
	prodRepo := prodRepoPkg.NewStoreRepository(store)
	compRepo := compRepoPkg.NewStoreRepository(store)
	vtRepo := vtRepoPkg.NewStoreRepository(store)
	varRepo := varRepoPkg.NewStoreRepository(store)
	pvRepo := pvRepoPkg.NewStoreRepository(store)

	// 5. Initialize UseCases and the migration engine
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, compRepo, pvRepo, logger)
	migrator := migration.NewService(prodRepo, vtRepo, varRepo, pvRepo, compRepo, logger)
	transUC := transUCPkg.NewTransitionUseCase(prodRepo, compRepo, migrator, logger)

	// 6. Seed a small demo catalog and walk one full transition
	if err := store.Clear(ctx); err != nil {
		logger.Fatal("could not reset storage", zap.Error(err))
	}

	for _, input := range []proddto.CreateProductInput{
		{SKU: "CHILD-001", Name: "Hex bolt M6", Weight: 12.5},
		{SKU: "CHILD-002", Name: "Steel bracket", Weight: 80, Height: 4, Width: 6, Depth: 1},
		{SKU: "PARENT-001", Name: "Mounting kit", IsComposite: true},
	} {
		if _, err := prodUC.CreateProduct(ctx, &input); err != nil {
			logger.Fatal("seed product failed", zap.String("sku", input.SKU), zap.Error(err))
		}
	}
	for _, input := range []proddto.AddComponentInput{
		{ParentKey: "PARENT-001", ChildSKU: "CHILD-001", Quantity: 2},
		{ParentKey: "PARENT-001", ChildSKU: "CHILD-002", Quantity: 3},
	} {
		if _, err := prodUC.AddComponent(ctx, &input); err != nil {
			logger.Fatal("seed component failed", zap.String("child", input.ChildSKU), zap.Error(err))
		}
	}

	target := model.StructureFlags{IsComposite: true, HasVariation: true}
	required, err := transUC.CheckTransitionRequired(ctx, "PARENT-001", target)
	if err != nil {
		logger.Fatal("transition check failed", zap.Error(err))
	}
	if required {
		if pending, ok := transUC.Pending(); ok {
			logger.Info("transition pending",
				zap.String("type", string(pending.Type)),
				zap.Int("existing_data_count", pending.ExistingDataCount))
		}
		outcome := transUC.ExecuteTransition(ctx)
		if !outcome.Success {
			logger.Fatal("transition failed", zap.String("message", outcome.Message), zap.Error(outcome.Err))
		}
		logger.Info("transition done", zap.String("message", outcome.Message))
	}

	variants, err := prodUC.ListVariants(ctx, "PARENT-001")
	if err != nil {
		logger.Fatal("list variants failed", zap.Error(err))
	}
	for _, v := range variants {
		items, err := compRepo.FindByParent(ctx, model.VariationParentKey(v.ProductSKU, v.SelectedVariationIDs()[0]))
		if err != nil {
			logger.Fatal("list components failed", zap.Error(err))
		}
		logger.Info("variant", zap.String("id", v.ID), zap.Int("components", len(items)))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	if cfg.App.Env == "dev" || cfg.App.Env == "development" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.Logger.Level); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	zapCfg.Encoding = cfg.Logger.Encoding
	zapCfg.DisableCaller = cfg.Logger.DisableCaller
	zapCfg.DisableStacktrace = cfg.Logger.DisableStacktrace
	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	return logger
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.Storage.Backend {
	case "redis":
		s, err := redisstore.NewStore(ctx, &redisstore.Config{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			Namespace: cfg.Storage.Namespace,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "postgres":
		s, err := sqlkv.NewStore(ctx, &sqlkv.Config{
			Driver: cfg.SQL.Driver,
			DSN:    cfg.SQL.DSN,
			Table:  cfg.SQL.Table,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return memory.NewStore(), func() {}, nil
	}
}
