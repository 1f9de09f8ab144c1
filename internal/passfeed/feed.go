// Package passfeed streams live pass status over a WebSocket. The
// browser shows its own countdown; this feed is the server-enforced
// word on when the pass actually lapses.
package passfeed

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/nicheproof/nicheproof/internal/pass"
)

const defaultInterval = 5 * time.Second

// Frame is one pass status update pushed to the client.
type Frame struct {
	Granted          bool   `json:"granted"`
	SecondsRemaining int64  `json:"secondsRemaining,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// Handler upgrades /ws/pass requests and pushes status frames until the
// pass is denied or the client goes away.
type Handler struct {
	checker       pass.Checker
	allowedOrigin string
	isDev         bool
	interval      time.Duration
}

// NewHandler creates a pass feed handler.
func NewHandler(checker pass.Checker, allowedOrigin string, isDev bool) *Handler {
	return &Handler{
		checker:       checker,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
		interval:      defaultInterval,
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id query parameter is required", http.StatusBadRequest)
		return
	}

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "feed ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	// CloseRead cancels the context when the client disconnects; the
	// feed is write-only.
	ctx := ws.CloseRead(r.Context())

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		decision := h.checker.Check(ctx, sessionID)
		if err := h.writeFrame(ctx, ws, frameFor(decision)); err != nil {
			slog.Debug("Pass feed write failed", "session_id", sessionID, "error", err)
			return
		}
		if !decision.Granted {
			// Final frame sent; the pass never flips back to granted.
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func frameFor(d pass.Decision) Frame {
	if !d.Granted {
		return Frame{Granted: false, Reason: string(d.Reason)}
	}
	return Frame{Granted: true, SecondsRemaining: int64(d.Remaining.Seconds())}
}

func (h *Handler) writeFrame(ctx context.Context, ws *websocket.Conn, f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return ws.Write(writeCtx, websocket.MessageText, data)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev || h.allowedOrigin == "" {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || strings.HasPrefix(origin, h.allowedOrigin)
}
