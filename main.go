package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"chess-stats/session"

	"github.com/charmbracelet/log"
)

func main() {
	env := NewEnv()
	if env.IsProd {
		log.SetFormatter(log.JSONFormatter)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.DebugLevel)
	}

	bot := NewBot(env)

	s, err := session.NewSession(env.Token, env.ServerID)
	if err != nil {
		log.Fatal("Failed to create session", "sID", env.ServerID, "err", err)
	}

	if err := s.Open(bot.Commands()); err != nil {
		log.Fatal("Failed to open session", "sID", env.ServerID, "err", err)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Bot is running", "api", env.APIURL)
	<-ctx.Done()
	log.Info("Shutting down")
}
