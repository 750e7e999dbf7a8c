package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ark-network/launchsite/internal/config"
	"github.com/ark-network/launchsite/internal/core/application"
	grpcservice "github.com/ark-network/launchsite/internal/interface/grpc"
	log "github.com/sirupsen/logrus"
)

// Set at build time with -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	log.SetLevel(log.Level(cfg.LogLevel))

	cfg.BuildInfo = application.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	svcConfig := grpcservice.Config{
		Port:  cfg.Port,
		NoTLS: cfg.NoTLS,
	}

	svc, err := grpcservice.NewService(svcConfig, cfg)
	if err != nil {
		log.Fatal(err)
	}

	log.RegisterExitHandler(svc.Stop)

	log.Info("starting service...")
	if err := svc.Start(); err != nil {
		log.Fatal(err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT, os.Interrupt)
	<-sigChan

	log.Info("shutting down service...")
	log.Exit(0)
}
