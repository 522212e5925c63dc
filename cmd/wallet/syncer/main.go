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

	"github.com/goodnatureofminers/shieldsync-backend/internal/metrics"
	"github.com/goodnatureofminers/shieldsync-backend/internal/pkg/lightwalletd"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/archive"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/broker"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/domain"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/keys"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/ledger"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/repository/clickhouse"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/repository/pebble"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/service/blaze"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type config struct {
	LightwalletdAddr string           `long:"lightwalletd-addr" env:"SHIELDSYNC_LIGHTWALLETD_ADDR" description:"lightwalletd gRPC address" default:"127.0.0.1:9067"`
	LightwalletdTLS  bool             `long:"lightwalletd-tls" env:"SHIELDSYNC_LIGHTWALLETD_TLS" description:"connect to lightwalletd over TLS"`
	Network          model.Network    `long:"network" env:"SHIELDSYNC_NETWORK" description:"network name" required:"true"`
	KeyFile          string           `long:"key-file" env:"SHIELDSYNC_KEY_FILE" description:"JSON file with viewing keys and transparent addresses" required:"true"`
	SnapshotPath     string           `long:"snapshot-path" env:"SHIELDSYNC_SNAPSHOT_PATH" description:"Pebble directory for ledger snapshots" default:"data/wallet"`
	ClickhouseDSN    string           `long:"clickhouse-dsn" env:"SHIELDSYNC_CLICKHOUSE_DSN" description:"ClickHouse DSN for the block archive mirror, empty disables it"`
	BrokerDriver     string           `long:"broker-driver" env:"SHIELDSYNC_BROKER_DRIVER" description:"event broker: none, kafka, nats or rabbitmq" default:"none"`
	BrokerURL        string           `long:"broker-url" env:"SHIELDSYNC_BROKER_URL" description:"event broker URL"`
	BrokerTopic      string           `long:"broker-topic" env:"SHIELDSYNC_BROKER_TOPIC" description:"event topic, subject or queue" default:"shieldsync.events"`
	MemoPolicy       model.MemoPolicy `long:"memos" env:"SHIELDSYNC_MEMOS" description:"full transaction downloads: none, wallet or all" default:"wallet"`
	MaxOutputs       int              `long:"max-outputs" env:"SHIELDSYNC_MAX_OUTPUTS" description:"skip the rest of a block after a transaction with more shielded outputs, 0 disables"`
	TrialWorkers     int              `long:"trial-workers" env:"SHIELDSYNC_TRIAL_WORKERS" description:"concurrent trial decryption batches" default:"4"`
	SyncInterval     time.Duration    `long:"sync-interval" env:"SHIELDSYNC_SYNC_INTERVAL" description:"pause between iterations once at the tip" default:"30s"`
	Birthday         uint64           `long:"birthday" env:"SHIELDSYNC_BIRTHDAY" description:"first height that can hold wallet transactions"`
	Mempool          bool             `long:"mempool" env:"SHIELDSYNC_MEMPOOL" description:"watch the mempool for wallet transactions"`
	MaxLag           uint64           `long:"max-lag" env:"SHIELDSYNC_MAX_LAG" description:"blocks behind the tip before health turns unavailable" default:"10"`
	MetricsAddr      string           `long:"metrics-addr" env:"SHIELDSYNC_METRICS_ADDR" description:"address for metrics server" default:":2112"`
	Addr             string           `long:"addr" env:"SHIELDSYNC_ADDR" description:"health gRPC address" default:":8000"`
	RestAddr         string           `long:"rest-addr" env:"SHIELDSYNC_REST_ADDR" description:"health REST address" default:":8001"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("wallet syncer failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	logger = logger.With(zap.String("network", string(cfg.Network)))
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	conn, err := lightwalletd.Dial(cfg.LightwalletdAddr, cfg.LightwalletdTLS, logger.Named("lightwalletd"))
	if err != nil {
		return fmt.Errorf("dial lightwalletd: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()
	client := lightwalletd.NewClient(conn, metrics.NewRPCClient(cfg.Network))

	keyStore, err := keys.LoadFile(cfg.KeyFile, cfg.Network)
	if err != nil {
		return fmt.Errorf("load keys: %w", err)
	}

	store, err := pebble.Open(cfg.SnapshotPath, cfg.Network)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("close snapshot store", zap.Error(closeErr))
		}
	}()
	l, err := loadLedger(ctx, store, logger)
	if err != nil {
		return err
	}

	var mirror archive.Mirror
	if cfg.ClickhouseDSN != "" {
		repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return fmt.Errorf("init repository: %w", err)
		}
		defer func() {
			_ = repo.Close()
		}()
		m := archive.NewClickhouseMirror(repo, cfg.Network, metrics.NewArchiveMirror(cfg.Network), logger)
		if err := m.Start(ctx); err != nil {
			return err
		}
		defer m.Stop()
		mirror = m
	}

	br, err := broker.Open(ctx, broker.Config{Driver: cfg.BrokerDriver, URL: cfg.BrokerURL, Topic: cfg.BrokerTopic}, logger)
	if err != nil {
		return fmt.Errorf("open broker: %w", err)
	}
	defer func() {
		if closeErr := br.Close(); closeErr != nil {
			logger.Error("close broker", zap.Error(closeErr))
		}
	}()
	publisher, err := broker.NewPublisher(br, cfg.Network, logger)
	if err != nil {
		return err
	}

	domains := []blaze.Domain{
		domain.NewSapling(domain.NewFFIPrimitives(model.Sapling)),
		domain.NewOrchard(domain.NewFFIPrimitives(model.Orchard)),
	}
	blazeMetrics := metrics.NewBlazeSync(cfg.Network)
	scanner := blaze.NewScanner(domains, keyStore, l, logger)
	newArchive := func(start, end uint64) blaze.Archive {
		return archive.New(start, end, mirror, logger)
	}
	session := blaze.NewSession(client, domains, keyStore, l, scanner, newArchive, blazeMetrics, blaze.SessionConfig{
		MemoPolicy:   cfg.MemoPolicy,
		TrialWorkers: cfg.TrialWorkers,
		MaxOutputs:   cfg.MaxOutputs,
	}, logger)

	syncer, err := blaze.NewSyncerService(
		client,
		l,
		session,
		store,
		publisher,
		metrics.NewSyncer(cfg.Network),
		cfg.Network,
		cfg.Birthday,
		cfg.SyncInterval,
		logger,
	)
	if err != nil {
		return err
	}

	if err := startHealthServers(ctx, cfg.Addr, cfg.RestAddr, syncer, cfg.MaxLag, logger); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return syncer.Run(gctx) })
	if cfg.Mempool {
		monitor := blaze.NewMempoolMonitor(client, scanner, l, publisher, blazeMetrics, logger)
		g.Go(func() error { return monitor.Run(gctx) })
	}
	return g.Wait()
}

// loadLedger restores the latest snapshot, or starts an empty ledger when there is none.
func loadLedger(ctx context.Context, store *pebble.SnapshotStore, logger *zap.Logger) (*ledger.Ledger, error) {
	l := ledger.New()
	data, height, err := store.Load(ctx)
	if errors.Is(err, pebble.ErrNoSnapshot) {
		logger.Info("no ledger snapshot, starting from birthday")
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger snapshot: %w", err)
	}
	if err := l.Load(data); err != nil {
		return nil, fmt.Errorf("decode ledger snapshot at %d: %w", height, err)
	}
	logger.Info("ledger snapshot loaded", zap.Uint64("height", height), zap.Uint64("synced", l.LastSyncedHeight()))
	return l, nil
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
