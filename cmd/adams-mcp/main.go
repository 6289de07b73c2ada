package main

import (
	"log"
	"net/http"

	"github.com/tamu-aesl/adams/internal/bootstrap"
	"github.com/tamu-aesl/adams/internal/config"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.New(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	if cfg.MetricsPort != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", app.Metrics.Handler())
			if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
				app.Logger.Error("metrics_server_failed", "error", err)
			}
		}()
	}

	app.Logger.Info("serving", "transport", "stdio")
	if err := app.Server.ServeStdio(); err != nil {
		log.Fatalf("serve error: %v", err)
	}
}
