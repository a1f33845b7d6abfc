package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/cache"
	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/config"
	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/rules"
	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/store"
	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/tablebase"
	"github.com/thehugegatsby/ChessEndgameTrainer-sub002/trainer"
)

var debug = flag.Bool("debug", false, "log at debug level")

func main() {
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Default()

	var positions store.Store
	if cfg.PositionDBPath != "" {
		s, err := store.OpenSQLiteStore(cfg.PositionDBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.PositionDBPath).Msg("failed to open position db")
		}
		defer s.Close()
		positions = s
	} else {
		positions = store.NewSeededStore()
	}

	service := tablebase.NewService(
		tablebase.NewClient(cfg),
		cache.New(cfg.CacheCapacity),
	)
	session := trainer.NewSession(positions, rules.NewEngine(), service)

	if err := shellLoop(session, positions); err != nil {
		log.Fatal().Err(err).Msg("")
	}
}
