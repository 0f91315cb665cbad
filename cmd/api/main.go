package main

import (
	"context"
	"os"

	"github.com/yigit/campusportal/internal/pkg/logger"
	"github.com/yigit/campusportal/internal/server"
)

// @title Campus Portal API
// @version 1.0
// @description Sections, students, files, news and a knowledge base, with real-time updates over /ws.

// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	ctx := context.Background()

	srv, err := server.NewServer(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal
	if err := srv.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
