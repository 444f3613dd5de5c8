package main

import (
	"github.com/AlanVogel/ChatAppSample/internal/config"
	"github.com/AlanVogel/ChatAppSample/internal/db"
	clog "github.com/AlanVogel/ChatAppSample/internal/log"
	"github.com/AlanVogel/ChatAppSample/internal/server"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	clog.Init(cfg.Env)

	gdb, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	r := server.SetupRouter(cfg, gdb)
	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
