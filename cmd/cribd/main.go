package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"
	"google.golang.org/grpc"

	"github.com/RowanDark/cribdrag/internal/config"
	"github.com/RowanDark/cribdrag/internal/logging"
	"github.com/RowanDark/cribdrag/internal/rpc"
)

var version = "dev"

const shutdownGrace = 2 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}

	addr := flag.String("addr", cfg.Server.Addr, "address for the gRPC server to listen on")
	token := flag.String("token", cfg.Server.AuthToken, "bearer token required from clients (empty disables auth)")
	maxConns := flag.Int("max-conns", cfg.Server.MaxConns, "maximum concurrent connections (0 = unlimited)")
	auditLog := flag.String("audit-log", cfg.AuditLog, "path to the JSONL audit log (empty writes to stdout)")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("cribd %s\n", version)
		return
	}

	cfg.Server.Addr = *addr
	cfg.Server.AuthToken = *token
	cfg.Server.MaxConns = *maxConns
	cfg.AuditLog = *auditLog
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	lis, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
	}
	if cfg.Server.MaxConns > 0 {
		lis = netutil.LimitListener(lis, cfg.Server.MaxConns)
	}
	defer func() {
		_ = lis.Close()
	}()

	return serve(ctx, lis, cfg)
}

func openAudit(cfg config.Config) (*logging.AuditLogger, error) {
	var opts []logging.Option
	if cfg.AuditLog != "" {
		opts = append(opts, logging.WithoutStdout(), logging.WithFile(cfg.AuditLog))
	}
	if cfg.AuditPlaintext {
		opts = append(opts, logging.WithPlaintext())
	}
	return logging.NewAuditLogger("cribd", opts...)
}

func serve(ctx context.Context, lis net.Listener, cfg config.Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With("component", "cribd")

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return err
	}
	audit, err := openAudit(cfg)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer audit.Close()

	if cfg.Server.AuthToken == "" {
		logger.Warn("no auth token configured; every caller is accepted")
	}

	svc := rpc.NewServer(rpc.Options{
		Engine:       engineCfg,
		MaxPositions: cfg.MaxPositions,
		ReadableOnly: cfg.ReadableOnly,
		Audit:        audit,
		Logger:       logger,
	})
	srv := rpc.NewGRPCServer(svc, cfg.Server.AuthToken)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")

		done := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(shutdownGrace):
			srv.Stop()
		}
	}()

	logger.Info("serving", "addr", lis.Addr().String(), "version", version, "mode", cfg.Mode, "workers", engineCfg.Workers)
	if err := srv.Serve(lis); err != nil {
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
	return nil
}
