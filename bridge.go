package pagebind

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Bridge carries the host message protocol over a websocket connection. It
// reads one Request at a time and writes the synchronous Response back, so
// message handling order matches arrival order on the connection.
type Bridge struct {
	component *Component
	upgrader  *websocket.Upgrader
	logger    *log.Logger
}

// NewBridge creates a websocket bridge for one component.
func NewBridge(c *Component) *Bridge {
	return &Bridge{
		component: c,
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log.Default(),
	}
}

// ServeHTTP upgrades the connection and serves host messages until the peer
// disconnects.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Printf("pagebind: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				b.logger.Printf("pagebind: websocket read failed: %v", err)
			}
			return
		}
		if err := conn.WriteJSON(b.component.HandleMessage(req)); err != nil {
			b.logger.Printf("pagebind: websocket write failed: %v", err)
			return
		}
	}
}
