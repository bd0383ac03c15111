package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"toystore/internal/bootstrap"
	"toystore/internal/config"
	"toystore/internal/transport/ws"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to toystore.yaml (watched for changes; default: built-in demo)")
		addr       = flag.String("addr", "", "http listen address (overrides config)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if a := strings.TrimSpace(*addr); a != "" {
		cfg.Server.Addr = a
	}

	res, err := bootstrap.Store(cfg, logger)
	if err != nil {
		logger.Fatalf("build store: %v", err)
	}
	logger.Printf("store ready: pool=%d/%d records=%d seed=%d", res.Store.Len(), res.Store.Cap(), len(res.Store.Records()), res.Seed)

	srv := ws.NewServer(res.Store, cfg.Server.MaxDrawsPerRequest, logger)
	mux := http.NewServeMux()
	srv.Register(mux)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signalContext()
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Printf("listening on %s", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		return httpSrv.Shutdown(ctx2)
	})
	if *configPath != "" {
		g.Go(func() error {
			return config.Watch(gctx, *configPath, logger, func(next config.Config) {
				reloadStore(srv, next, logger)
			})
		})
	}

	if err := g.Wait(); err != nil {
		logger.Fatalf("server: %v", err)
	}
}

// reloadStore rebuilds the store from next and swaps it in. The listen
// address is not reloadable.
func reloadStore(srv *ws.Server, next config.Config, logger *log.Logger) bool {
	res, err := bootstrap.Store(next, logger)
	if err != nil {
		logger.Printf("reload: keeping previous store: %v", err)
		return false
	}
	srv.SetStore(res.Store, next.Server.MaxDrawsPerRequest)
	logger.Printf("reload: pool=%d/%d seed=%d", res.Store.Len(), res.Store.Cap(), res.Seed)
	return true
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
