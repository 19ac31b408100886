package router

import (
	"net/http"

	authsvc "wealthcircle-backend/internal/application/auth"
	distsvc "wealthcircle-backend/internal/application/distributions"
	portfoliosvc "wealthcircle-backend/internal/application/portfolios"
	profitsvc "wealthcircle-backend/internal/application/profits"
	settingsvc "wealthcircle-backend/internal/application/settings"
	"wealthcircle-backend/internal/config"
	"wealthcircle-backend/internal/domain"
	"wealthcircle-backend/internal/infrastructure/database"
	"wealthcircle-backend/internal/infrastructure/rates"
	authhandler "wealthcircle-backend/internal/interfaces/handlers/auth"
	disthandler "wealthcircle-backend/internal/interfaces/handlers/distributions"
	healthhandler "wealthcircle-backend/internal/interfaces/handlers/health"
	portfoliohandler "wealthcircle-backend/internal/interfaces/handlers/portfolios"
	profithandler "wealthcircle-backend/internal/interfaces/handlers/profits"
	reporthandler "wealthcircle-backend/internal/interfaces/handlers/reports"
	settingshandler "wealthcircle-backend/internal/interfaces/handlers/settings"
	"wealthcircle-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{Rdb: rdb, RatesAPIURL: cfg.RatesAPIURL}
	app.Get("/health", hh.Live)
	app.Get("/health/json", hh.JSON)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{UserFinder: userFinder, Rdb: rdb, Config: sessionCfg}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil {
		cacheDB, err := database.OpenCache(cfg.LocalCachePath)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrateCache(cacheDB); err != nil {
			return nil, nil, nil, err
		}

		var ratesClient rates.Client
		if cfg.RatesAPIURL != "" {
			ratesClient = rates.NewClient(cfg.RatesAPIURL)
		}
		ss := &settingsvc.Service{DB: db, Rates: ratesClient}
		ps := &profitsvc.Service{DB: db}
		pfs := &portfoliosvc.Service{DB: db}
		ds := &distsvc.Service{
			DB:       db,
			Remote:   &distsvc.GormLedgerStore{DB: db, Source: domain.SourceRemote},
			Local:    &distsvc.GormLedgerStore{DB: cacheDB, Source: domain.SourceLocal},
			Settings: ss,
		}

		ph := &profithandler.Handlers{Service: ps, Settings: ss}
		pg := app.Group("/api/v1/profits", middleware.RequireAuth())
		pg.Get("/", ph.List)
		pg.Post("/", ph.Create)
		pg.Patch("/:id", ph.Update)
		pg.Delete("/:id", ph.Delete)
		pg.Post("/:id/mark-distributed", ph.MarkDistributed)
		pg.Post("/:id/partner-payment", ph.AddPayment)

		dh := &disthandler.Handlers{Service: ds}
		dg := app.Group("/api/v1/distributions", middleware.RequireAuth())
		dg.Get("/", dh.List)
		dg.Post("/monthly", dh.Distribute)
		dg.Patch("/:id", dh.Update)
		dg.Delete("/:id", dh.Delete)

		rh := &reporthandler.Handlers{Profits: ps, Portfolios: pfs, Settings: ss}
		rg := app.Group("/api/v1/reports", middleware.RequireAuth())
		rg.Get("/summary", rh.Summary)
		rg.Get("/monthly", rh.Monthly)
		rg.Get("/bank-benchmark", rh.Benchmark)

		pfh := &portfoliohandler.Handlers{Service: pfs, Settings: ss}
		pfg := app.Group("/api/v1/portfolios", middleware.RequireAuth())
		pfg.Get("/", pfh.List)
		pfg.Get("/summary", pfh.Summary)
		pfg.Post("/", pfh.Create)
		pfg.Patch("/:id", pfh.Update)
		pfg.Delete("/:id", pfh.Delete)

		sh := &settingshandler.Handlers{Service: ss}
		sg := app.Group("/api/v1/settings", middleware.RequireAuth())
		sg.Get("/", sh.Get)
		sg.Put("/", sh.Update)
		sg.Post("/sync-rates", sh.SyncRates)
	}

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
