package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/threadkeep/threadkeep/backend/internal/router"
	"github.com/threadkeep/threadkeep/backend/internal/setup"
	"github.com/threadkeep/threadkeep/shared/config"
	"github.com/threadkeep/threadkeep/shared/logger"
)

func main() {
	var configFolder string
	var inMemory bool
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.BoolVar(&inMemory, "in_memory", false, "keep comments in process memory instead of postgres")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(cfg, inMemory)
	if err != nil {
		logger.Log.Error("failed to initialize dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Cleanup()

	r := router.New(deps)

	httpPort := os.Getenv("PORT")
	if httpPort == "" {
		httpPort = strconv.Itoa(cfg.Public.Port)
	}
	if httpPort == "0" || httpPort == "" {
		httpPort = "8080"
	}

	logger.Log.Info("server started", "port", httpPort)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", httpPort), r); err != nil {
		logger.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
