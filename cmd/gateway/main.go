package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spivx/devcontext-sub000/internal/gateway/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New()
	if err != nil {
		log.Fatalf("gateway: init: %v", err)
	}
	if err := a.Run(ctx); err != nil {
		stop()
		log.Fatalf("gateway: %v", err)
	}
	log.Println("gateway: stopped")
}
