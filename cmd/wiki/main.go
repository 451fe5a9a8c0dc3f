package main

import (
	"wikimart/internal/config"
	"wikimart/internal/http/server"
	applog "wikimart/internal/log"
	"wikimart/internal/wiki"
)

func main() {
	cfg := config.Load()

	closer, err := applog.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		applog.Fatal("log.setup", err)
	}
	defer closer.Close()

	store, err := wiki.NewStore(cfg.EntriesDir)
	if err != nil {
		applog.Fatal("wiki.store", err)
	}
	if seeded, err := wiki.SeedIfEmpty(store); err != nil {
		applog.Fatal("wiki.seed", err)
	} else if seeded {
		applog.Info(nil, "wiki.seeded", map[string]any{"dir": store.Dir})
	}

	app, err := server.NewWiki(cfg, store)
	if err != nil {
		applog.Fatal("server.build", err)
	}
	applog.Info(nil, "server.listen", map[string]any{"app": "wiki", "addr": cfg.WikiAddr})
	if err := app.Listen(cfg.WikiAddr); err != nil {
		applog.Fatal("server.listen", err)
	}
}
