package ws

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cthunline/cthunline-web-sub002/internal/hub"
	"github.com/cthunline/cthunline-web-sub002/internal/room"
	"github.com/cthunline/cthunline-web-sub002/internal/types"
)

const writeTimeout = 3 * time.Second

// Handler joins the caller to the room named by the {code} URL parameter
// and relays snapshots both ways until the socket closes.
func Handler(h *hub.Hub, originPatterns []string, logger *zap.Logger) http.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		rm := h.Room(code)
		if rm == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			logger.Warn("websocket accept", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")
		conn.SetReadLimit(types.MaxMessageBytes)

		out := make(chan room.Snapshot, 8)
		clientID := randID()
		log := logger.With(zap.String("room", code), zap.String("client", clientID))

		rm.Inbox() <- room.Join{ClientID: clientID, Outbox: out}
		defer func() { rm.Inbox() <- room.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case snap, ok := <-out:
					if !ok {
						// Dropped as slow, or the room shut down.
						conn.Close(websocket.StatusGoingAway, "room closed")
						return
					}
					msg := types.ServerMessage{Type: types.MsgSketch, Version: snap.Version, Sketch: &snap.Sketch}
					if err := write(writeCtx, conn, msg); err != nil {
						log.Debug("write snapshot", zap.Error(err))
					}
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					if !errors.Is(err, context.Canceled) {
						log.Debug("read", zap.Error(err))
					}
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = write(r.Context(), conn, types.ServerMessage{Type: types.MsgError, Error: "bad json"})
				continue
			}
			if cm.Type != types.MsgSketch || cm.Sketch == nil {
				_ = write(r.Context(), conn, types.ServerMessage{Type: types.MsgError, Error: "unsupported message"})
				continue
			}
			rm.Inbox() <- room.FromClient{ClientID: clientID, Sketch: *cm.Sketch}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}

func randID() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
