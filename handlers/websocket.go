package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Harish-hex/SIH-HealthTwin/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const alertWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// alertFrame is what dashboards receive for each published services.AlertEvent.
type alertFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// LiveAlerts streams alert events to dashboards over a websocket. The token
// query parameter must hold a token issued by /auth/login.
func LiveAlerts(cache *services.CacheService, authService *services.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token query parameter"})
			return
		}
		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		if !cache.Available() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live alerts unavailable"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		ctx := watchDisconnect(c.Request.Context(), conn)
		pubsub := cache.Subscribe(ctx, services.AlertChannel)
		defer pubsub.Close()

		log := logger.With(zap.String("username", claims.Username))
		log.Info("alert stream opened")
		sent, err := relayAlerts(ctx, conn, pubsub)
		if err != nil {
			log.Warn("alert stream write failed", zap.Int("sent", sent), zap.Error(err))
			return
		}
		log.Info("alert stream closed", zap.Int("sent", sent))
	}
}

// watchDisconnect returns a context cancelled once the client goes away.
// Client frames are read and dropped.
func watchDisconnect(parent context.Context, conn *websocket.Conn) context.Context {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return ctx
}

func relayAlerts(ctx context.Context, conn *websocket.Conn, pubsub *redis.PubSub) (int, error) {
	sent := 0
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return sent, nil
		case msg, ok := <-ch:
			if !ok {
				return sent, nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(alertWriteTimeout))
			frame := alertFrame{Type: "health_alert", Data: json.RawMessage(msg.Payload)}
			if err := conn.WriteJSON(frame); err != nil {
				return sent, err
			}
			sent++
		}
	}
}
