package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub           *live.Hub
	gameService   services.GameService
	switchService services.SwitchService
	upgrader      websocket.Upgrader
}

func NewWebSocketHandler(hub *live.Hub, gameService services.GameService, switchService services.SwitchService, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:           hub,
		gameService:   gameService,
		switchService: switchService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// ServeGame godoc
// @Summary Live feed of a game
// @Description Upgrades to a WebSocket that receives status, roster, period and penalty events of the game.
// @Tags games
// @Param gameID path int true "Game ID"
// @Success 101 "Switching protocols"
// @Failure 403 {object} map[string]string "Live feed disabled"
// @Failure 404 {object} map[string]string "Game not found"
// @Router /ws/games/{gameID} [get]
func (h *WebSocketHandler) ServeGame(w http.ResponseWriter, r *http.Request) {
	if !h.switchService.IsActive(r.Context(), models.SwitchLiveGameFeed) {
		mapServiceErrorToHTTP(w, r, services.ErrFeatureDisabled)
		return
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.gameService.Get(r.Context(), gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client.
		slog.WarnContext(r.Context(), "websocket upgrade failed", slog.Int("game_id", gameID), slog.Any("error", err))
		return
	}

	room := live.GameRoom(gameID)
	slog.InfoContext(r.Context(), "live feed client connected", slog.String("room", room))
	live.NewClient(h.hub, conn, room).Serve()
}
