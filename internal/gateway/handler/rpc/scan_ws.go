package rpc

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/gorilla/websocket"

	"github.com/spivx/devcontext-sub000/internal/gateway/service/scan"
)

const (
	scanWSWriteWait = 10 * time.Second
	scanWSPongWait  = 60 * time.Second
	scanWSPingEvery = (scanWSPongWait * 9) / 10
)

var scanWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type scanWSOutbound struct {
	Type    string `json:"type"`
	Stage   string `json:"stage,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Scan    *Scan  `json:"scan,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// HandleScanWS runs one scan per connection and streams its stages. The
// query carries repo, and optionally output and refresh=true.
func (h *ScanHandler) HandleScanWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	repo := strings.TrimSpace(q.Get("repo"))
	if repo == "" {
		http.Error(w, "repo is required", http.StatusBadRequest)
		return
	}
	req := scan.Request{
		Repo:    repo,
		Output:  strings.TrimSpace(q.Get("output")),
		Refresh: strings.EqualFold(strings.TrimSpace(q.Get("refresh")), "true"),
	}

	conn, err := scanWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(scanWSPongWait)); err != nil {
		log.Printf("scan ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(scanWSPongWait))
	})

	// Reading drives pong handling; a read error means the client left.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	writeCh := make(chan scanWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(scanWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out, ok := <-writeCh:
				if !ok {
					_ = conn.SetWriteDeadline(time.Now().Add(scanWSWriteWait))
					_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
				if err := conn.SetWriteDeadline(time.Now().Add(scanWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(scanWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	rec, err := h.svc.Scan(ctx, req, func(stage scan.Stage, detail string) {
		pushScanWS(ctx, writeCh, scanWSOutbound{Type: "progress", Stage: string(stage), Detail: detail})
	})
	if err != nil {
		pushScanWS(ctx, writeCh, scanWSOutbound{
			Type:    "error",
			Code:    connect.CodeOf(toConnectError(err)).String(),
			Message: err.Error(),
		})
	} else {
		view := toScan(rec)
		pushScanWS(ctx, writeCh, scanWSOutbound{Type: "result", Scan: &view})
	}
	close(writeCh)
	<-writerDone
}

// pushScanWS blocks until the writer takes out or ctx ends.
func pushScanWS(ctx context.Context, writeCh chan<- scanWSOutbound, out scanWSOutbound) {
	select {
	case writeCh <- out:
	case <-ctx.Done():
	}
}
