package main

import (
	"log"

	"github.com/joho/godotenv"

	corecmd "github.com/m3rciful/gymbot/core/cmd"
	"github.com/m3rciful/gymbot/internal/bot"
)

func main() {
	// .env is a local development convenience; absence is fine.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        bot.LoadConfig,
		Bootstrap:         bot.Bootstrap,
	})
	if err != nil {
		log.Fatalf("gymbot: %v", err)
	}
}
