package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/53Karthik/Summary-Q-A-Insight-Engine/app/server"
	"github.com/53Karthik/Summary-Q-A-Insight-Engine/types"
)

func init() {
	loadEnvVariables()
}

func main() {
	cfg := types.LoadConfig()
	if cfg.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY is not set, upstream calls will be rejected")
	}

	s := server.NewServer(cfg)

	go s.Run()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	<-sigch
	log.Println("Received shutdown signal, shutting down server...")
	s.Stop()
}

// loadEnvVariables is best-effort: a missing .env just means the
// configuration comes from the real environment.
func loadEnvVariables() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, using environment as-is")
	}
}
