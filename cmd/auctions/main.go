package main

import (
	"context"

	"wikimart/internal/config"
	"wikimart/internal/http/server"
	applog "wikimart/internal/log"
	"wikimart/internal/repos"
)

func main() {
	cfg := config.Load()

	closer, err := applog.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		applog.Fatal("log.setup", err)
	}
	defer closer.Close()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		applog.Fatal("db.open", err)
	}
	defer db.Close()

	if cfg.SeedDemo {
		if err := repos.SeedDemo(context.Background(), db); err != nil {
			applog.Fatal("db.seed", err)
		}
	}

	app, err := server.NewAuctions(cfg, db)
	if err != nil {
		applog.Fatal("server.build", err)
	}
	applog.Info(nil, "server.listen", map[string]any{"app": "auctions", "addr": cfg.AuctionsAddr})
	if err := app.Listen(cfg.AuctionsAddr); err != nil {
		applog.Fatal("server.listen", err)
	}
}
