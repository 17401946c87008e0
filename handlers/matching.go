package handlers

import (
	"net/http"

	"saubio/middleware"
	"saubio/services/matching"
	"saubio/services/planner"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// MatchingHandler exposes matching progress as a snapshot or a live websocket stream.
type MatchingHandler struct {
	ctrl     *planner.Controller
	tracker  *matching.Tracker
	upgrader *websocket.Upgrader
}

func NewMatchingHandler(ctrl *planner.Controller, tracker *matching.Tracker, upgrader *websocket.Upgrader) *MatchingHandler {
	return &MatchingHandler{ctrl: ctrl, tracker: tracker, upgrader: upgrader}
}

// Progress uses the "key" query parameter, or the key of the tab's current draft.
func (h *MatchingHandler) Progress(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		view := h.ctrl.Draft(c.Request.Context(), middleware.ScopeFrom(c))
		key = matching.KeyForDraft(view.Draft)
	}

	if websocket.IsWebSocketUpgrade(c.Request) {
		matching.Stream(h.upgrader, h.tracker, getLogger(c), c.Writer, c.Request, key)
		return
	}
	c.JSON(http.StatusOK, h.tracker.Snapshot(key))
}

// NewUpgrader accepts browser origins from allowed; an empty list or "*" accepts any.
// Requests without an Origin header are not from a browser and pass.
func NewUpgrader(allowed []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowed) == 0 {
				return true
			}
			for _, o := range allowed {
				if o == "*" || o == origin {
					return true
				}
			}
			return false
		},
	}
}
