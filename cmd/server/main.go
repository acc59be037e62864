package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/kenread/kenread/internal/config"
	handlerhttp "github.com/kenread/kenread/internal/handler/http"
	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/internal/maintenance"
	"github.com/kenread/kenread/internal/server"
	"github.com/kenread/kenread/internal/service"
	"github.com/kenread/kenread/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log := logger.NewLogger("kenread-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	repos := store.NewRepositories(db, log)
	services := service.NewServices(repos, cfg.App, log)
	handler := handlerhttp.NewHandler(services, cfg.Catalog, log)

	trimJob := maintenance.NewTrimJob(services.DocumentService, log)
	if err = trimJob.Start(cfg.Server.TrimSchedule); err != nil {
		log.Fatal().Err(err).Msg("error starting trim job")
	}
	defer trimJob.Stop()

	srv, err := server.NewServer(handler.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
