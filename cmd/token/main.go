// Command token mints a bearer token for local testing of the API.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"questbot-backend/internal/auth"
	"questbot-backend/internal/config"
)

func main() {
	userID := flag.Int("user", 1, "user id to put in the token")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET environment variable is required")
	}
	if *userID <= 0 {
		logger.Fatal("user id must be positive", zap.Int("user", *userID))
	}

	token, err := auth.GenerateToken([]byte(cfg.JWTSecret), *userID)
	if err != nil {
		logger.Fatal("failed to sign token", zap.Error(err))
	}
	fmt.Fprintln(os.Stdout, token)
}
