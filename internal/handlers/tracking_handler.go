package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"ambudispatch/internal/config"
	"ambudispatch/internal/models"
	"ambudispatch/internal/tracking"
	"ambudispatch/internal/utils"
	"ambudispatch/pkg/logger"
)

const maxClientMessageSize = 512

type TrackingHandler struct {
	hub       *tracking.Hub
	simulator *tracking.Simulator
	appCfg    *config.AppConfig
	wsCfg     *config.TrackingConfig
	upgrader  websocket.Upgrader
	logger    *logger.Logger
}

func NewTrackingHandler(
	hub *tracking.Hub,
	simulator *tracking.Simulator,
	appCfg *config.AppConfig,
	wsCfg *config.TrackingConfig,
	log *logger.Logger,
) *TrackingHandler {
	return &TrackingHandler{
		hub:       hub,
		simulator: simulator,
		appCfg:    appCfg,
		wsCfg:     wsCfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  wsCfg.ReadBufferSize,
			WriteBufferSize: wsCfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true // Configure properly in production
			},
		},
		logger: log,
	}
}

// PushLocation ingests one GPS update from the driver/operator app and fans
// it out to connected viewers.
func (h *TrackingHandler) PushLocation(c *gin.Context) {
	var update models.TrackingUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	tripID := c.Param("trip_id")
	snapshot, listeners := h.hub.PushLocation(tripID, &update)

	utils.SuccessResponse(c, "Location updated", gin.H{
		"listeners": listeners,
		"snapshot":  snapshot,
	})
}

// GetLocation is the REST poll fallback for clients without WebSockets.
func (h *TrackingHandler) GetLocation(c *gin.Context) {
	snapshot, err := h.hub.GetLatest(c.Param("trip_id"))
	if err != nil {
		utils.NotFoundResponse(c, "Tracking data")
		return
	}

	utils.SuccessResponse(c, "Latest location retrieved", snapshot)
}

// Stream upgrades to a WebSocket and pushes every snapshot for the trip. The
// client may send the text "ping" and gets "pong" back; everything else it
// sends is ignored.
func (h *TrackingHandler) Stream(c *gin.Context) {
	tripID := c.Param("trip_id")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).WithTripID(tripID).Warn("WebSocket upgrade failed")
		return
	}

	sub := h.hub.Subscribe(tripID)
	defer h.hub.Unsubscribe(tripID, sub)
	defer conn.Close()

	pings := make(chan struct{}, 1)
	done := make(chan struct{})
	go h.readPump(conn, pings, done)

	h.writePump(conn, sub, pings, done)
}

// readPump drains client frames so pongs are processed, forwarding "ping"
// texts for the writer to answer. The connection dies when reads fail.
func (h *TrackingHandler) readPump(conn *websocket.Conn, pings chan<- struct{}, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxClientMessageSize)
	conn.SetReadDeadline(time.Now().Add(h.wsCfg.PongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.wsCfg.PongTimeout))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if string(message) == "ping" {
			select {
			case pings <- struct{}{}:
			default:
			}
		}
	}
}

// writePump is the connection's only writer: snapshots, pong texts and
// protocol pings all go out from here.
func (h *TrackingHandler) writePump(conn *websocket.Conn, sub *tracking.Subscriber, pings <-chan struct{}, done <-chan struct{}) {
	ticker := time.NewTicker(h.wsCfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case snapshot, ok := <-sub.C:
			conn.SetWriteDeadline(time.Now().Add(h.wsCfg.WriteWait))
			if !ok {
				// Pruned for falling behind.
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(snapshot); err != nil {
				return
			}

		case <-pings:
			conn.SetWriteDeadline(time.Now().Add(h.wsCfg.WriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte("pong")); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(h.wsCfg.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}

// Simulate starts a demo journey for the trip. Development only.
func (h *TrackingHandler) Simulate(c *gin.Context) {
	if !h.appCfg.IsDevelopment() {
		utils.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", "Simulation is only available in development mode")
		return
	}

	tripID := c.Param("trip_id")
	h.simulator.Start(c.Request.Context(), tripID)

	utils.SuccessResponse(c, fmt.Sprintf("Simulation started for trip %s", tripID), gin.H{
		"duration_seconds": int(h.simulator.Duration().Seconds()),
	})
}
