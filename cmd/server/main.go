package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"

	"github.com/courtside/stringdesk/internal/auth"
	"github.com/courtside/stringdesk/internal/config"
	"github.com/courtside/stringdesk/internal/repository"
	"github.com/courtside/stringdesk/internal/server"
	"github.com/courtside/stringdesk/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	flag.Parse()

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithName("stringdesk"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(goerrors.ToSlogAttributes),
	)
	log := lgr.GetLogger("main")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		log.Error("could not open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := store.Migrate(ctx, db); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	if err := store.SeedCategories(ctx, db); err != nil {
		log.Error("category seed failed", "error", err)
		os.Exit(1)
	}

	repo := repository.NewManager(db)
	if err := repo.Validate(); err != nil {
		log.Error("repository wiring error", "error", err)
		os.Exit(1)
	}

	hasher := auth.NewHasher(cfg.Auth.BcryptCost)

	tokens, err := auth.NewTokenService(
		[]byte(cfg.JWT.Secret),
		cfg.JWT.Algorithm,
		cfg.JWT.Issuer,
		cfg.JWT.GetAccessTTL(),
		cfg.JWT.GetRefreshTTL(),
		lgr.GetLogger("tokens"),
	)
	if err != nil {
		log.Error("token service error", "error", err)
		os.Exit(1)
	}

	if admin, err := store.BootstrapAdmin(ctx, repo.Users(), hasher, cfg.Auth); err != nil {
		log.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	} else if admin != nil {
		log.Info("bootstrapped admin account", "username", admin.Username)
	}

	auther := auth.NewAuthenticator(repo.Users(), repo, hasher, tokens, lgr.GetLogger("auth"))

	srv := server.New(cfg, lgr.GetLogger("http"), repo, auther)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
		if err := srv.Shutdown(); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}
}
