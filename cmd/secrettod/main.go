package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"secretto/internal/domain"
	"secretto/internal/lifecycle"
	"secretto/internal/log"
	"secretto/internal/presence"
	"secretto/internal/router"
	"secretto/internal/server"
	"secretto/internal/server/config"
	"secretto/internal/store/memstore"
	"secretto/internal/store/postgres"
	"secretto/internal/store/redisblob"
)

func main() {
	cfgFile := flag.String("f", "secrettod.toml", "Path to the config file.")
	flag.Parse()

	cfg, err := config.LoadFile(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config file '%v': %v\n", *cfgFile, err)
		os.Exit(-1)
	}

	logBackend, err := log.New(cfg.Logging.File, cfg.Logging.Level, cfg.Logging.Disable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(-1)
	}
	logger := logBackend.GetLogger("secrettod")

	var (
		sessions domain.SessionStore
		keys     domain.KeyDirectory
		blobs    domain.BlobStore
	)
	mem := memstore.New(uuid.NewString)
	sessions, keys, blobs = mem, mem, mem

	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			logger.Errorf("open postgres: %v", err)
			os.Exit(-1)
		}
		defer db.Close()
		pg := postgres.NewStore(db)
		if err := pg.Migrate(); err != nil {
			logger.Errorf("migrate: %v", err)
			os.Exit(-1)
		}
		sessions, keys = pg, pg
		logger.Notice("using PostgreSQL session store")
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		blobs = redisblob.New(rdb, cfg.BlobTTL)
		logger.Notice("using Redis blob store")
	}

	pres := presence.New()
	rt := router.New(sessions, pres, logBackend)
	srv := server.New(sessions, keys, blobs, pres, rt, logBackend)

	sweeper := lifecycle.New(sessions, pres, cfg.SweepInterval, logBackend)
	sweeper.Start()
	defer sweeper.Halt()

	httpSrv := &http.Server{Addr: cfg.Addr, Handler: srv.Handler()}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		logger.Notice("shutdown requested")
		if err := httpSrv.Shutdown(context.Background()); err != nil {
			logger.Errorf("shutdown: %v", err)
		}
	}()

	logger.Noticef("secrettod listening on %s", cfg.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Errorf("listen: %v", err)
		os.Exit(-1)
	}
}
