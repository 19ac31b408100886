package main

import (
	"context"
	"fmt"

	settingsvc "wealthcircle-backend/internal/application/settings"
	"wealthcircle-backend/internal/config"
	"wealthcircle-backend/internal/infrastructure/rates"
	"wealthcircle-backend/internal/interfaces/router"
	"wealthcircle-backend/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load: " + err.Error())
	}
	app, db, rdb, err := router.CreateApp(cfg)
	if err != nil {
		panic("app create: " + err.Error())
	}

	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			panic("Postgres: get DB: " + err.Error())
		}
		if err := sqlDB.Ping(); err != nil {
			panic("Postgres connection failed: " + err.Error())
		}
		fmt.Println("Postgres connected")
	}
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			panic("Redis connection failed: " + err.Error())
		}
		fmt.Println("Redis connected")
	}

	if db != nil && cfg.RatesAPIURL != "" {
		ss := &settingsvc.Service{DB: db, Rates: rates.NewClient(cfg.RatesAPIURL)}
		cronRunner, err := scheduler.Start(cfg.RatesSyncSpec, ss)
		if err != nil {
			panic("scheduler start: " + err.Error())
		}
		defer cronRunner.Stop()
	}

	fmt.Printf("Server running at http://localhost:%s\n", cfg.Port)
	fmt.Printf("Health check: http://localhost:%s/health/json\n", cfg.Port)
	fmt.Println("---")

	if err := app.Listen(":" + cfg.Port); err != nil {
		panic(err)
	}
}
