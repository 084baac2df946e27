package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dmitrijs2005/oddsup/internal/buildinfo"
	"github.com/dmitrijs2005/oddsup/internal/client/api"
	"github.com/dmitrijs2005/oddsup/internal/client/biometric"
	"github.com/dmitrijs2005/oddsup/internal/client/cli"
	"github.com/dmitrijs2005/oddsup/internal/client/config"
	"github.com/dmitrijs2005/oddsup/internal/client/credentials"
	"github.com/dmitrijs2005/oddsup/internal/client/session"
	"github.com/dmitrijs2005/oddsup/internal/common"
	"github.com/dmitrijs2005/oddsup/internal/filex"
	"github.com/dmitrijs2005/oddsup/internal/logging"
)

const (
	dbFile     = "credentials.db"
	secretFile = "device.key"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "oddsup:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogBackend, cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	if s, ok := logger.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return err
	}

	secret := []byte(cfg.DeviceSecret)
	if len(secret) == 0 {
		if secret, err = credentials.LoadOrCreateSecret(filepath.Join(dir, secretFile)); err != nil {
			return err
		}
	}

	db, err := credentials.OpenDatabase(ctx, filepath.Join(dir, dbFile))
	if err != nil {
		return err
	}
	defer db.Close()

	creds, err := credentials.NewSQLiteStore(ctx, db, secret)
	common.WipeByteArray(secret)
	if err != nil {
		return err
	}
	deviceID, err := creds.DeviceID(ctx)
	if err != nil {
		return err
	}

	apiCfg := api.DefaultConfig(cfg.ServerURL)
	apiCfg.Timeout = cfg.RequestTimeout
	apiCfg.Headers[common.DeviceIDHeaderName] = deviceID
	client := api.NewHTTPClient(apiCfg)
	defer client.Close()

	gate := biometric.NewCommandGate(cfg.BiometricCommand, biometric.ParseKind(cfg.BiometricKind))

	store := session.New(client, creds, gate,
		session.WithLogger(logger),
		session.WithTimeout(cfg.RequestTimeout),
	)

	logger.Info(ctx, "starting", "server", cfg.ServerURL, "data_dir", dir)
	cli.NewApp(store, os.Stdin, os.Stdout, logger).Run(ctx)
	return nil
}
