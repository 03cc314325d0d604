package server

import (
	"net/http"

	"github.com/spivx/devcontext-sub000/internal/gateway/handler/rpc"
	"github.com/spivx/devcontext-sub000/internal/gateway/middleware"
)

func NewMux(scanHandler *rpc.ScanHandler, corsOrigins []string) http.Handler {
	mux := http.NewServeMux()

	// RPC Handlers
	mux.Handle(rpc.NewScanServiceHandler(scanHandler))

	// Streaming
	mux.HandleFunc("/ws/scan", scanHandler.HandleScanWS)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	// Middleware
	return middleware.CORS(corsOrigins, mux)
}
