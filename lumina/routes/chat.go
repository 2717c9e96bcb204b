package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"lumina/lumina/controllers"
	"lumina/lumina/services/transcript"
	httputils "lumina/lumina/utils/http"
	"lumina/lumina/utils/logging"
	"lumina/lumina/utils/types"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func ChatRoutes(ctrl *controllers.ChatController, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	// POST /chat/ : send a message, answer with the settled reply
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputils.WriteError(w, http.StatusBadRequest, "error", err.Error())
			return
		}
		msg, err := ctrl.Chat(r.Context(), req)
		switch {
		case errors.Is(err, transcript.ErrEmptyInput):
			httputils.WriteError(w, http.StatusBadRequest, "error", err.Error())
		case errors.Is(err, transcript.ErrBusy):
			httputils.WriteError(w, http.StatusConflict, "busy", ctrl.BusyNotice())
		case err != nil:
			httputils.WriteError(w, http.StatusInternalServerError, "error", err.Error())
		default:
			httputils.WriteJSON(w, http.StatusOK, msg)
		}
	})

	// GET /chat/messages : the whole transcript
	r.Get("/messages", func(w http.ResponseWriter, r *http.Request) {
		httputils.WriteJSON(w, http.StatusOK, ctrl.Messages())
	})

	// GET /chat/ws : snapshot, then live events; client frames are chat requests
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, acceptOptions(allowedOrigins))
		if err != nil {
			logging.ErrorLogger.Error("websocket accept", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		events, unsubscribe := ctrl.Events()
		defer unsubscribe()

		if err := wsjson.Write(ctx, conn, ctrl.Snapshot()); err != nil {
			return
		}

		go func() {
			for ev := range events {
				if err := wsjson.Write(ctx, conn, ev); err != nil {
					return
				}
			}
			// dropped as a slow subscriber
			conn.Close(websocket.StatusTryAgainLater, "too slow")
		}()

		for {
			typ, data, err := conn.Read(ctx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					conn.Close(websocket.StatusNormalClosure, "")
				}
				return
			}
			if typ != websocket.MessageText {
				conn.Close(websocket.StatusUnsupportedData, "unsupported data")
				return
			}
			var req types.ChatRequest
			if err := json.Unmarshal(data, &req); err != nil {
				writeWSError(ctx, conn, "error", "invalid json")
				continue
			}
			go func(req types.ChatRequest) {
				_, err := ctrl.Chat(ctx, req)
				switch {
				case errors.Is(err, transcript.ErrBusy):
					writeWSError(ctx, conn, "busy", ctrl.BusyNotice())
				case err != nil:
					writeWSError(ctx, conn, "error", err.Error())
				}
			}(req)
		}
	})
	return r
}

// acceptOptions turns CORS origins into websocket origin patterns (hosts, no scheme).
func acceptOptions(allowedOrigins []string) *websocket.AcceptOptions {
	opts := &websocket.AcceptOptions{}
	for _, o := range allowedOrigins {
		if o == "*" {
			opts.InsecureSkipVerify = true
			return opts
		}
		o = strings.TrimPrefix(o, "https://")
		o = strings.TrimPrefix(o, "http://")
		opts.OriginPatterns = append(opts.OriginPatterns, strings.TrimRight(o, "/"))
	}
	return opts
}

func writeWSError(ctx context.Context, conn *websocket.Conn, kind, msg string) {
	_ = wsjson.Write(ctx, conn, types.ErrorResponse{Type: kind, Error: msg})
}
