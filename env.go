package main

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

type Env struct {
	IsProd   bool   `env:"PROD" envDefault:"false"`
	Token    string `env:"DISCORD_BOT_TOKEN,required,notEmpty"`
	ServerID string `env:"SERVER_ID"`

	APIURL       string        `env:"CHESSCOM_API_URL" envDefault:"https://api.chess.com"`
	UserAgent    string        `env:"USER_AGENT" envDefault:"chess-stats-bot"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"2s"`
}

func NewEnv() *Env {
	log.Info("Setting up environment")

	// A .env file is optional, variables may just as well be set directly.
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Fatal("Failed to load .env file", "err", err)
		}
		log.Debug("No .env file found")
	}

	e, err := parseEnv()
	if err != nil {
		log.Fatal("Invalid environment", "err", err)
	}

	return e
}

func parseEnv() (*Env, error) {
	e := &Env{}
	if err := env.Parse(e); err != nil {
		return nil, err
	}

	return e, nil
}
