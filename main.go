package main

import (
	"trainhub/core/logger"
	"trainhub/core/server"
)

// @title TrainHub Scheduling API
// @version 1.0
// @description Meeting-time negotiation and conflict detection for the TrainHub learning platform

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
