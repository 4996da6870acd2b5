// Package internal runs the HTTP server hosting the face analysis API.
package internal

import (
	"context"
	"face-analysis/internal/pkg/handler"
	"face-analysis/internal/pkg/service"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

func RunServer(srvs *service.Service) {

	server := handler.NewServer(srvs)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("gin error: %s\n", err)
		}
	}()

	<-ctx.Done()

	stop()
	log.Println("shutting down gracefully, press Ctrl+C again to force")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
