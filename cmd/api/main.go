package main

import (
	"os"

	"github.com/skillkhoj/backend/internal/pkg/logger"
	"github.com/skillkhoj/backend/internal/server"
)

// @title Skill Khoj API
// @version 1.0
// @description API for the Skill Khoj job and learning marketplace

// @host localhost:5000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Bearer <token>" as returned by /auth/login

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
