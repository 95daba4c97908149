package main

import (
	"os"

	"vera/internal/app/server"
	"vera/internal/app/server/config"
	"vera/internal/utils/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	if err := server.Run(cfg, log); err != nil {
		log.Error("server stopped", logger.Err(err))
		os.Exit(1)
	}
}
