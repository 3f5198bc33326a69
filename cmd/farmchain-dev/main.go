// Command farmchain-dev serves the in-memory FarmChainX backend for local work.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya91-code/Farmchaingpt/internal/config"
	"github.com/Adithya91-code/Farmchaingpt/internal/devserver"
	"github.com/Adithya91-code/Farmchaingpt/internal/obs"
)

var version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	addr := flag.String("addr", cfg.DevAddr, "listen address")
	seed := flag.Bool("seed", false, "create demo users and a crop that has passed through every stage")
	rate := flag.Int("rate", 20, "requests per second allowed per client IP (0 disables)")
	flag.Parse()

	obs.Init()
	obs.InitBuildInfo("farmchain-dev", version)

	dev := devserver.New(devserver.Config{
		Secret:     []byte(cfg.AuthSecret),
		RatePerSec: *rate,
		RateBurst:  *rate * 2,
	})
	if *seed {
		if err := seedDemo(dev); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           dev.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting farmchain-dev %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
