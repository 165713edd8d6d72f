package server

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/neo/passwordanalyzer/internal/logging"
)

// maxLiveMessageBytes bounds a single WebSocket frame
const maxLiveMessageBytes = 64 * 1024

// Origin checking is left to the upgrader default, which only accepts same-host origins
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleLiveAnalysis answers every {"password": "..."} message with an AnalyzeResponse
func (s *Server) handleLiveAnalysis(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warn("Failed to upgrade connection", map[string]interface{}{
			"request_id": c.GetString(RequestIDKey),
			"error":      err.Error(),
		})
		return
	}
	defer ws.Close()

	ws.SetReadLimit(maxLiveMessageBytes)

	for {
		var req AnalyzeRequest
		if err := ws.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn("WebSocket read failed", map[string]interface{}{
					"request_id": c.GetString(RequestIDKey),
					"error":      err.Error(),
				})
			}
			return
		}

		if err := ws.WriteJSON(s.analyze("live", req.Password)); err != nil {
			logging.Warn("WebSocket write failed", map[string]interface{}{
				"request_id": c.GetString(RequestIDKey),
				"error":      err.Error(),
			})
			return
		}
	}
}
