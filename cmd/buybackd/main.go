package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"buybackScope/internal/chain"
	"buybackScope/internal/config"
	"buybackScope/internal/server"
	"buybackScope/internal/snapshot"
)

func main() {
	root := &cobra.Command{
		Use:          "buybackd",
		Short:        "Buyback telemetry server",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the /price and /robot read endpoints",
		RunE:  runServe,
	}

	serveCmd.Flags().String("rpc", "", "chain RPC URL")
	serveCmd.Flags().String("listen", ":8080", "listen address")
	serveCmd.Flags().String("robot", "", "buyback robot contract address")
	serveCmd.Flags().String("token", "", "default token address (optional, overrides the robot's bound token)")
	serveCmd.Flags().String("factory", "", "AMM factory address")
	serveCmd.Flags().String("base", "", "wrapped native asset address")
	serveCmd.Flags().String("oracle-feed", "", "base/USD price feed address")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	addrs, defaultToken, err := resolveAddresses(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	builder := snapshot.New(addrs,
		chain.NewTokenReader(chainClient),
		chain.NewFactoryReader(chainClient),
		chain.NewPairReader(chainClient),
		chain.NewOracleReader(chainClient),
		chain.NewRobotReader(chainClient),
		chainClient,
		logger,
	)

	handler := server.NewHandler(builder, defaultToken, logger)
	engine := server.NewRouter(handler, logger)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("server start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("listen", cfg.Listen),
		zap.String("robot", addrs.Robot.Hex()),
		zap.String("factory", addrs.Factory.Hex()),
		zap.String("base", addrs.Base.Hex()),
		zap.String("oracle_feed", addrs.OracleFeed.Hex()),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func resolveAddresses(cfg config.Config) (snapshot.Addresses, common.Address, error) {
	if cfg.Robot == "" {
		return snapshot.Addresses{}, common.Address{}, fmt.Errorf("robot contract address is required")
	}

	var addrs snapshot.Addresses
	for _, field := range []struct {
		name  string
		value string
		dst   *common.Address
	}{
		{"robot", cfg.Robot, &addrs.Robot},
		{"factory", cfg.Factory, &addrs.Factory},
		{"base", cfg.Base, &addrs.Base},
		{"oracle-feed", cfg.OracleFeed, &addrs.OracleFeed},
	} {
		if !common.IsHexAddress(field.value) {
			return snapshot.Addresses{}, common.Address{}, fmt.Errorf("invalid %s address: %q", field.name, field.value)
		}
		*field.dst = common.HexToAddress(field.value)
	}

	if cfg.Token != "" {
		if !common.IsHexAddress(cfg.Token) {
			return snapshot.Addresses{}, common.Address{}, fmt.Errorf("invalid token address: %q", cfg.Token)
		}
		addrs.DefaultToken = common.HexToAddress(cfg.Token)
	}

	return addrs, addrs.DefaultToken, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
