// Command tokengen issues and inspects bearer tokens for local use of the quiz API.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	_ = godotenv.Load("configs/.env")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
