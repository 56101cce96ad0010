// main.go
//
// Entry point. Loads .env, configures zerolog, opens SQLite, and wires the
// in-memory session store + arena service into the HTTP server.

package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stonegarden/goban/internal/arena"
	"github.com/stonegarden/goban/internal/httpserver"
	"github.com/stonegarden/goban/internal/store"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	dbPath := getEnv("DB_PATH", "./data/goban.db")
	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", dbPath).Msg("open database")
	}
	defer db.Close()
	if err := ensureSchema(db); err != nil {
		log.Fatal().Err(err).Msg("apply schema")
	}

	svc := arena.NewService(store.NewMemory())
	srv := httpserver.New(svc, db)

	addr := ":" + getEnv("PORT", "8080")
	log.Info().Str("addr", addr).Msg("listening")
	if err := srv.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
