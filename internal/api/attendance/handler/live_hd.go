package attendanceHandler

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

// handleLiveWebSocket streams per-frame liveness feedback to a kiosk while
// the person lines up with the camera. Clients send binary frames and get a
// JSON verdict back for each one; nothing here touches the ledger.
func (h *AttendanceHandler) handleLiveWebSocket(c *websocket.Conn) {
	h.log.Info("Liveness preview WebSocket client connected")
	defer h.log.Info("Liveness preview WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Errorf("Liveness preview WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.BinaryMessage {
			continue
		}

		preview := h.attendanceService.Verify().PreviewLiveness(message)

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(preview); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}
