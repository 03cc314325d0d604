package app

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spivx/devcontext-sub000/internal/gateway/config"
	"github.com/spivx/devcontext-sub000/internal/gateway/handler/rpc"
	"github.com/spivx/devcontext-sub000/internal/gateway/repository/scanstore"
	"github.com/spivx/devcontext-sub000/internal/gateway/server"
	gatewayscan "github.com/spivx/devcontext-sub000/internal/gateway/service/scan"
	"github.com/spivx/devcontext-sub000/internal/github"
	"github.com/spivx/devcontext-sub000/internal/logging"
	"github.com/spivx/devcontext-sub000/internal/scan"
	"github.com/spivx/devcontext-sub000/internal/wizard"
)

type App struct {
	server *server.Server
	scans  *scanstore.Store
	logs   io.Closer
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logs := logging.Setup(cfg.LogFile)

	// Dependencies
	synth := wizard.NewDefault(cfg.ConventionsDir)
	gh := github.NewClient(
		github.WithBaseURL(cfg.GitHub.APIURL),
		github.WithToken(cfg.GitHub.Token),
	)
	scans := scanstore.Open(cfg.ScanStore.DSN, cfg.ScanStore.Path)
	log.Printf("scan store: %s", scans.Backend())
	artifacts, err := initArtifactStore(cfg, scans)
	if err != nil {
		_ = scans.Close()
		_ = logs.Close()
		return nil, err
	}
	if cfg.GitHub.Token == "" {
		log.Printf("github: no token configured, unauthenticated rate limits apply")
	}

	scanSvc := gatewayscan.New(gatewayscan.Deps{
		Sources:  func(r github.Repo) scan.Source { return gh.Source(r) },
		Scanner:  scan.NewScanner(synth.Vocabulary),
		Synth:    synth,
		Store:    scans,
		Artifact: artifacts,
		CacheTTL: cfg.ScanCacheTTL,
	})
	scanHandler := rpc.NewScanHandler(scanSvc)

	// Routing & Server
	mux := server.NewMux(scanHandler, cfg.CORSOrigins)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		scans:  scans,
		logs:   logs,
	}, nil
}

// Run serves until ctx is done, then releases the stores and log file.
func (a *App) Run(ctx context.Context) error {
	err := a.server.Run(ctx, server.DefaultShutdownGrace)
	if cerr := a.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (a *App) Close() error {
	err := a.scans.Close()
	_ = a.logs.Close()
	return err
}
