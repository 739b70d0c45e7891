package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const alertWriteTimeout = 5 * time.Second

// subscriber pairs a websocket connection with a write lock. gorilla
// connections support at most one concurrent writer, and Broadcast is
// called from every handler goroutine that finishes a critical batch.
type subscriber struct {
	conn *websocket.Conn

	writeMu sync.Mutex
}

func (s *subscriber) send(msg CriticalAlertMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(alertWriteTimeout))
	return s.conn.WriteJSON(msg)
}

// AlertHub fans critical-alert messages out to websocket subscribers.
// Delivery is best effort: a subscriber that cannot keep up is dropped, and
// the audit trail remains the durable record of critical events.
type AlertHub struct {
	logger   *logrus.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*subscriber]struct{}
	closed  bool
}

// NewAlertHub creates an alert hub with no subscribers.
func NewAlertHub(logger *logrus.Logger) *AlertHub {
	return &AlertHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API is CORS-open; the alert stream follows suit.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*subscriber]struct{}),
	}
}

// Handle upgrades the request to a websocket subscription.
func (h *AlertHub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	sub := &subscriber{conn: conn}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[sub] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.WithField("subscribers", count).Info("Alert stream subscriber connected")

	// Drain inbound frames so pings and close messages are processed; the
	// stream is one-way.
	go func() {
		defer h.remove(sub)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends the message to every subscriber. Failed writes drop the
// subscriber.
func (h *AlertHub) Broadcast(msg CriticalAlertMessage) {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.clients))
	for sub := range h.clients {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.send(msg); err != nil {
			h.logger.WithError(err).Debug("Dropping alert stream subscriber")
			h.remove(sub)
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *AlertHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all subscribers and rejects new ones.
func (h *AlertHub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*subscriber, 0, len(h.clients))
	for sub := range h.clients {
		subs = append(subs, sub)
	}
	h.clients = make(map[*subscriber]struct{})
	h.mu.Unlock()

	for _, sub := range subs {
		sub.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(alertWriteTimeout))
		sub.conn.Close()
	}
}

func (h *AlertHub) remove(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.clients[sub]
	delete(h.clients, sub)
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
	}
}
