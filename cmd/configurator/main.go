package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/shaed-rp/Endera/internal/config"
	"github.com/shaed-rp/Endera/internal/database"
	"github.com/shaed-rp/Endera/internal/domain"
	httpapi "github.com/shaed-rp/Endera/internal/http"
	"github.com/shaed-rp/Endera/internal/logger"
	"github.com/shaed-rp/Endera/internal/repository"
	"github.com/shaed-rp/Endera/internal/service"
	"github.com/shaed-rp/Endera/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "configurator")
	if err != nil {
		log, _ = zap.NewProduction()
	}
	defer log.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var cache store.KV
	if err := redisClient.Ping(context.Background()).Err(); err == nil {
		cache = store.NewRedisKV(redisClient)
	} else {
		log.Warn("redis unavailable, share cache disabled", zap.Error(err))
	}

	var db *sql.DB
	var (
		catalogRepo    repository.CatalogRepository
		sessionsRepo   repository.SessionsRepository
		selectionsRepo repository.SelectionsRepository
		validationRepo repository.ValidationsRepository
		savedRepo      repository.SavedConfigurationsRepository
	)
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for configurator")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory repositories", zap.Error(err))
		}
	}
	if db != nil {
		catalogRepo = repository.NewPostgresCatalogRepository(db)
		sessionsRepo = repository.NewPostgresSessionsRepository(db)
		selectionsRepo = repository.NewPostgresSelectionsRepository(db)
		validationRepo = repository.NewPostgresValidationsRepository(db)
		savedRepo = repository.NewPostgresSavedConfigurationsRepository(db)
	} else {
		// DB 未就绪：内存 repo 支持联测，目录数据来自 dev seed
		memCatalog := repository.NewMemoryCatalogRepo()
		if os.Getenv("SEED_CATALOG") != "false" {
			seedDevCatalog(memCatalog)
		}
		catalogRepo = memCatalog
		sessionsRepo = repository.NewMemorySessionsRepo()
		selectionsRepo = repository.NewMemorySelectionsRepo()
		validationRepo = repository.NewMemoryValidationsRepo()
		savedRepo = repository.NewMemorySavedConfigurationsRepo()
	}

	locks := service.NewSessionLocks()
	sessionSvc := service.NewSessionService(sessionsRepo, selectionsRepo, cfg.StoreTimeout, log)
	selectionSvc := service.NewSelectionService(sessionsRepo, selectionsRepo, locks, cfg.StoreTimeout, log)
	validationSvc := service.NewValidationService(sessionsRepo, validationRepo, catalogRepo, cfg.StoreTimeout, log)
	pricingSvc := service.NewPricingService(sessionsRepo, selectionsRepo, catalogRepo,
		service.StandardBodyPricing{}, locks, cfg.StoreTimeout, log)
	shareSvc := service.NewShareService(sessionsRepo, selectionsRepo, savedRepo,
		cache, cfg.ShareCacheTTL, cfg.StoreTimeout, log)

	var quoteClient *service.QuoteClient
	if cfg.Quote.BaseURL != "" {
		quoteClient = service.NewQuoteClient(cfg.Quote.BaseURL, cfg.Quote.Timeout, log)
	}

	router := httpapi.NewRouter(log)
	router.RegisterConfiguratorRoutes(
		httpapi.NewSessionHandler(sessionSvc, selectionSvc, validationSvc, log),
		httpapi.NewPricingHandler(pricingSvc, quoteClient, log),
		httpapi.NewConfigurationHandler(shareSvc, log),
	)
	router.RegisterCatalogRoutes(httpapi.NewCatalogHandler(catalogRepo, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case <-errCh:
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
	if db != nil {
		_ = db.Close()
	}
}

// seedDevCatalog 给内存目录装载一组联测数据：
// 电动底盘 + 穿梭巴士车身 + 两个选装件（其中一个为抵扣项）
func seedDevCatalog(c *repository.MemoryCatalogRepo) {
	c.PutChassis(domain.Chassis{
		ID:               "11111111-1111-1111-1111-111111111111",
		VehicleID:        "E450-DRW",
		SeriesCode:       "E450",
		WheelbaseInches:  158,
		DrivetrainType:   "Electric",
		DriveType:        "RWD",
		ModelDescription: "E-450 DRW 158in WB",
		GVWRPounds:       14500,
		PayloadPounds:    7200,
		CurbWeightPounds: 7300,
		IsActive:         true,
	}, domain.ChassisPricing{
		ChassisID:                 "11111111-1111-1111-1111-111111111111",
		DealerInvoicePrice:        98000,
		SuggestedRetailPrice:      110000,
		DestinationDeliveryCharge: 1800,
		IsCurrent:                 true,
	})

	c.PutBody(domain.BodyConfiguration{
		ID:                  "22222222-2222-2222-2222-222222222222",
		ConfigCode:          "SHTL-14",
		ConfigName:          "14-Passenger Shuttle",
		PassengerCapacity:   14,
		WheelchairPositions: 2,
		FuelType:            "Electric",
		ElectricRangeMiles:  150,
		BatteryCapacityKWh:  118,
		OverallLengthFt:     25,
	})
	c.PutBodyCompatibility(domain.ChassisBodyCompatibility{
		ChassisID:    "11111111-1111-1111-1111-111111111111",
		BodyID:       "22222222-2222-2222-2222-222222222222",
		IsCompatible: true,
	})
	c.PutFuelCompatibility(domain.ChassisFuelCompatibility{
		ChassisID:           "11111111-1111-1111-1111-111111111111",
		FuelCode:            "EV",
		FuelName:            "Electric",
		AvailabilityStatus:  domain.FuelAvailable,
		BasePriceAdjustment: 0,
		RequiresConversion:  false,
	})

	c.PutOption(domain.VehicleOption{
		ID:         "33333333-3333-3333-3333-333333333333",
		OptionCode: "LIFT-ADA",
		OptionName: "ADA Wheelchair Lift",
	}, domain.OptionPricing{
		OptionID:             "33333333-3333-3333-3333-333333333333",
		DealerInvoicePrice:   5200,
		SuggestedRetailPrice: 6000,
		IsCurrent:            true,
	})
	c.PutOption(domain.VehicleOption{
		ID:         "44444444-4444-4444-4444-444444444444",
		OptionCode: "CRD-FLEET",
		OptionName: "Fleet Program Credit",
	}, domain.OptionPricing{
		OptionID:             "44444444-4444-4444-4444-444444444444",
		DealerInvoicePrice:   1000,
		SuggestedRetailPrice: 1000,
		IsCredit:             true,
		IsCurrent:            true,
	})
}
