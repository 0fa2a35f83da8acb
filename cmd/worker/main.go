package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ardhipoetra/faasm/config"
	"github.com/ardhipoetra/faasm/engine"
	"github.com/ardhipoetra/faasm/intrinsics"
	"github.com/ardhipoetra/faasm/objectstore"
	"github.com/ardhipoetra/faasm/queue"
	"github.com/ardhipoetra/faasm/vfs"
	"github.com/ardhipoetra/faasm/worker"
)

func main() {
	var configPath string
	var functionDir string
	flag.StringVar(&configPath, "config", "", "path to a YAML config file")
	flag.StringVar(&functionDir, "function-dir", "", "local directory of <name>.wasm files, used when the object store is not configured")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer zlog.Sync()
	engine.SetLogger(zlog.Named("engine"))
	worker.SetLogger(zlog.Named("worker"))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	eng, err := engine.New(ctx, engine.Config{MemoryLimitPages: cfg.MemoryLimitPages})
	if err != nil {
		zlog.Fatal("create engine", zap.Error(err))
	}
	defer eng.Close(ctx)

	if err := intrinsics.Register(ctx, eng.Runtime()); err != nil {
		zlog.Fatal("register intrinsics", zap.Error(err))
	}

	var blobs vfs.BlobStore
	var loader worker.Loader = worker.FileLoader{Dir: functionDir}
	if cfg.ObjectStoreConfigured() {
		store, err := objectstore.New(ctx, objectstore.Config{
			Endpoint: cfg.ObjectStoreEndpoint,
			Bucket:   cfg.ObjectStoreBucket,
			User:     cfg.ObjectStoreUser,
			Password: cfg.ObjectStorePassword,
		})
		if err != nil {
			zlog.Fatal("create object store client", zap.Error(err))
		}
		blobs = store
		loader = worker.ObjectStoreLoader{Client: store}
	}

	root := vfs.New(cfg.SharedRoot, blobs)

	var calls queue.CallQueue
	var chains queue.Publisher
	if cfg.QueueEndpoint != "" {
		rq, err := queue.NewRedisCallQueue(cfg.QueueEndpoint)
		if err != nil {
			zlog.Fatal("create call queue", zap.Error(err))
		}
		calls = rq
		pub, err := queue.NewRedisPublisher(cfg.QueueEndpoint)
		if err != nil {
			zlog.Fatal("create chain publisher", zap.Error(err))
		}
		chains = pub
	} else {
		calls = queue.NewLocalCallQueue(64)
		chains = queue.NoopPublisher{}
	}
	defer calls.Close()
	defer chains.Close()

	pool := &worker.Pool{
		Engine:        eng,
		VFS:           root,
		Loader:        loader,
		Calls:         calls,
		Chains:        chains,
		Executors:     cfg.Executors,
		CaptureStdout: cfg.CaptureStdout,
	}

	zlog.Info("starting worker pool", zap.Int("executors", cfg.Executors), zap.String("sharedRoot", cfg.SharedRoot))
	pool.Run(ctx)
	zlog.Info("worker pool stopped")
}

func buildLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
