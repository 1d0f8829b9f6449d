package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/tournament-registration/brackets"
)

type WebSocketHandler struct {
	hub      *brackets.Hub
	views    tournamentViewer
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler разрешает подключения только с allowedOrigins; "*" снимает проверку.
func NewWebSocketHandler(hub *brackets.Hub, views tournamentViewer, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:   hub,
		views: views,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") {
			return true
		}
		return slices.Contains(allowed, origin)
	}
}

// ServeWs godoc
// @Summary Подписка на изменения турнира
// @Tags tournament
// @Description WebSocket. Сразу после подключения приходит SNAPSHOT, затем ROSTER_UPDATED, FIXTURES_GENERATED и REGISTRATION_TOGGLED.
// @Router /ws/tournament [get]
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту ошибкой
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: brackets.TournamentRoom,
	}

	if snapshot, err := snapshotMessage(r.Context(), h.views); err != nil {
		h.logger.Error("failed to encode tournament snapshot", slog.Any("error", err))
	} else {
		client.Send <- snapshot
	}

	if !h.hub.Join(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func snapshotMessage(ctx context.Context, views tournamentViewer) ([]byte, error) {
	view := views.LoadBestEffort(ctx)
	return json.Marshal(brackets.WebSocketMessage{
		Type:    brackets.MessageSnapshot,
		Payload: view,
		RoomID:  brackets.TournamentRoom,
	})
}
