////////////////////////////////////////////////////////////////////////////////
// charcoin: staking, charity governance and treasury core for the CHAR token
////////////////////////////////////////////////////////////////////////////////

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"charcoin/config"
	"charcoin/contract"
	"charcoin/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfgFile := flag.String("config", "", "optional config file (yaml, json or toml)")
	flag.Parse()

	if err := run(*cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	log, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	backend, err := openStore(cfg.Store, log)
	if err != nil {
		return err
	}
	metrics, err := contract.NewMetrics(prometheus.DefaultRegisterer, cfg.Metrics.Namespace)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	engine := contract.NewEngine(backend,
		contract.WithLogger(log),
		contract.WithMetrics(metrics),
		contract.WithUnstakeCooldown(cfg.Staking.UnstakeCooldown),
	)
	defer engine.Close()

	state, err := engine.GetConfig(context.Background())
	switch {
	case errors.Is(err, contract.ErrNotInitialized):
		log.Info("store is empty, waiting for initialize", zap.String("backend", cfg.Store.Backend))
		return nil
	case err != nil:
		return err
	}
	log.Info("charcoin state loaded",
		zap.String("backend", cfg.Store.Backend),
		zap.String("mint", state.TokenMint.String()),
		zap.String("operator", state.Operator.String()),
		zap.Bool("halted", state.Halted),
		zap.Uint64("burned", uint64(state.TotalBurned)),
		zap.Uint64("charities", state.NextCharityID),
		zap.Uint64("proposals", state.NextProposalID),
		zap.Uint64("stakes", state.NextStakingID))
	return nil
}

func openStore(sc config.StoreConfig, log *zap.Logger) (contract.Backend, error) {
	switch sc.Backend {
	case "badger":
		return contract.OpenBadger(sc.Path, log)
	default:
		if sc.Path == "" {
			return contract.NewMemoryBackend(), nil
		}
		return contract.OpenMemoryBackend(sc.Path)
	}
}
