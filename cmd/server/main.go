// Command regolith-server starts the record store HTTP API and its admin gRPC health endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/regolith/internal/blob"
	"github.com/and161185/regolith/internal/config"
	"github.com/and161185/regolith/internal/migrate"
	"github.com/and161185/regolith/internal/realtime"
	"github.com/and161185/regolith/internal/repository"
	"github.com/and161185/regolith/internal/repository/memory"
	"github.com/and161185/regolith/internal/repository/postgres"
	grpcserver "github.com/and161185/regolith/internal/server/grpc"
	httpserver "github.com/and161185/regolith/internal/server/http"
	"github.com/and161185/regolith/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

const (
	storePostgres = "postgres"
	storeMemory   = "memory"
)

type repos struct {
	items    repository.ItemRepository
	users    repository.UserRepository
	messages repository.MessageRepository
	pinger   grpcserver.Pinger
	close    func()
}

type alwaysUp struct{}

func (alwaysUp) Ping(context.Context) error { return nil }

// main loads configuration, runs migrations, and serves HTTP and admin gRPC until signalled.
func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	// Flags override the environment
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flag.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "admin gRPC listen address (empty disables)")
	flag.StringVar(&cfg.DatabaseURL, "dsn", cfg.DatabaseURL, "PostgreSQL DSN")
	flag.StringVar(&cfg.BlobBackend, "blob", cfg.BlobBackend, "blob backend: fs or s3")
	flag.StringVar(&cfg.MediaRoot, "media", cfg.MediaRoot, "media root for the fs blob backend")
	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	flag.BoolVar(&cfg.Dev, "dev", cfg.Dev, "development logging and gRPC reflection")
	storeKind := flag.String("store", storePostgres, "record store: postgres or memory")
	flag.Parse()

	logger := newLogger(cfg.Dev)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
		zap.String("store", *storeKind),
		zap.String("blob", cfg.BlobBackend),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rp, err := openStore(ctx, *storeKind, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer rp.close()

	blobs, err := blob.New(cfg.Blob())
	if err != nil {
		logger.Fatal("open blob store", zap.Error(err))
	}

	// Observers
	reg := realtime.NewRegistry()
	bc := realtime.NewBroadcaster(reg, logger, cfg.SendTimeout)
	defer bc.Close()

	// Services
	itemSvc := service.NewItemService(rp.items, bc)
	userSvc := service.NewUserService(rp.users, bc)
	msgSvc := service.NewMessageService(rp.messages, bc)

	api := httpserver.New(httpserver.Deps{
		Items:          itemSvc,
		Users:          userSvc,
		Messages:       msgSvc,
		Blobs:          blobs,
		Registry:       reg,
		Notifier:       bc,
		Log:            logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	hsrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("listening (http)", zap.String("addr", cfg.Addr))
		if err := hsrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var admin *grpcserver.Admin
	if cfg.HealthAddr != "" {
		admin = grpcserver.NewAdmin(logger, cfg.Dev)
		lis, err := net.Listen("tcp", cfg.HealthAddr)
		if err != nil {
			logger.Fatal("listen", zap.Error(err))
		}
		go admin.Monitor(ctx, rp.pinger, cfg.HealthInterval)
		go func() {
			logger.Info("listening (grpc health)", zap.String("addr", cfg.HealthAddr))
			errCh <- admin.Serve(lis)
		}()
	}

	// Wait for stop
	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	// graceful shutdown; open websockets are hijacked and end with the process
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := hsrv.Shutdown(sctx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if admin != nil {
		admin.Stop(cfg.ShutdownTimeout)
	}

	logger.Info("shutdown complete", zap.Int("observers", reg.Len()))
}

func newLogger(dev bool) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func openStore(ctx context.Context, kind, dsn string, log *zap.Logger) (repos, error) {
	switch kind {
	case storeMemory:
		s := memory.New()
		return repos{
			items:    s.Items(),
			users:    s.Users(),
			messages: s.Messages(),
			pinger:   alwaysUp{},
			close:    func() {},
		}, nil
	case storePostgres:
		if err := migrate.Up(ctx, dsn, log); err != nil {
			return repos{}, err
		}
		db, err := postgres.New(ctx, dsn)
		if err != nil {
			return repos{}, err
		}
		return repos{
			items:    postgres.NewItemRepo(db),
			users:    postgres.NewUserRepo(db),
			messages: postgres.NewMessageRepo(db),
			pinger:   db,
			close:    db.Close,
		}, nil
	default:
		return repos{}, errors.New("unknown store " + kind)
	}
}
