package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"decision-review-api/internal/config"
	"decision-review-api/internal/httpapi"
	"decision-review-api/internal/kstream"
	"decision-review-api/internal/lock"
	"decision-review-api/internal/policy"
	"decision-review-api/internal/processing"
	"decision-review-api/internal/rejections"
	"decision-review-api/internal/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer db.Close()

	rdb := lock.NewClient(cfg.RedisAddr)
	defer rdb.Close()

	producer := kstream.NewProducer(cfg.KafkaBroker)
	defer func() {
		if err := producer.Close(); err != nil {
			log.Printf("close producer: %v", err)
		}
	}()

	reviews := processing.NewService(
		&store.VeteranRepo{DB: db},
		policy.NewService(rdb),
		lock.New(rdb, cfg.IntakeLockTTL),
		&store.IntakeRepo{DB: db},
		producer,
	)

	var wg sync.WaitGroup
	if cfg.ConsumersEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Println("Starting rejections consumer...")
			err := kstream.ConsumeRejectedTopic(ctx, cfg.KafkaBroker, rejections.NewStore(cfg.RejectionsDir))
			if err != nil && !stopped(err) {
				log.Printf("Rejections consumer error: %v", err)
			}
		}()
	}

	r := mux.NewRouter()
	httpapi.NewHandler(reviews, producer).RegisterRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("Decision review API listening on %s", cfg.HTTPAddr)
	if err := serve(server, ln, sig, cancel); err != nil {
		log.Fatalf("server error: %v", err)
	}
	wg.Wait()
}

// serve runs server on ln until a signal arrives on stop, then cancels the
// background work and drains in-flight requests. It returns only once the
// drain has finished, so callers may close shared resources afterwards.
func serve(server *http.Server, ln net.Listener, stop <-chan os.Signal, cancel context.CancelFunc) error {
	drained := make(chan error, 1)

	// Graceful shutdown
	go func() {
		<-stop
		log.Println("Shutting down...")
		cancel()
		ctx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		drained <- server.Shutdown(ctx)
	}()

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-drained
}

// stopped reports whether a background worker exited because of shutdown.
func stopped(err error) bool {
	return errors.Is(err, context.Canceled)
}
