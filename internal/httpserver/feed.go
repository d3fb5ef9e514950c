package httpserver

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const feedWriteWait = 5 * time.Second

type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsClient) Send(payload []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.SetWriteDeadline(time.Now().Add(feedWriteWait)); err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.TextMessage, payload)
}

func (w *wsClient) Close() error {
	return w.conn.Close()
}

func (h *handlers) upgrader() websocket.Upgrader {
	origins := h.deps.CORSOrigins
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(origins) == 0 || slices.Contains(origins, "*") {
				return true
			}
			return slices.Contains(origins, origin)
		},
	}
}

// orderFeed streams order events to a staff screen until the socket drops.
func (h *handlers) orderFeed(c *gin.Context) {
	up := h.upgrader()
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("feed: upgrade failed", zap.Error(err))
		return
	}
	client := &wsClient{conn: conn}
	unsubscribe := h.deps.Feed.Subscribe(client)
	defer func() {
		unsubscribe()
		_ = client.Close()
	}()

	actor := actorFrom(c)
	h.logger.Info("feed: staff connected", zap.String("actor", actor.ID))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.logger.Info("feed: staff disconnected", zap.String("actor", actor.ID))
			return
		}
	}
}
