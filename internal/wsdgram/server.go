package wsdgram

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nerrad567/sound-logic-core/internal/infrastructure/config"
)

const (
	// sendBufferSize is the per-client outbound frame buffer. Level
	// meter traffic is bursty; a slow client drops frames rather than
	// stalling the fanout.
	sendBufferSize = 256

	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second

	gracefulShutdownTimeout = 10 * time.Second
)

// Handler receives one inbound OSC packet from a WebSocket client.
type Handler func(packet []byte) error

// Logger is the logging surface the server needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Server accepts WebSocket connections and relays OSC packets.
type Server struct {
	cfg     config.WebSocketConfig
	logger  Logger
	handler Handler

	server *http.Server

	clients map[string]*client
	mu      sync.RWMutex
}

// client is one connected WebSocket peer.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Local control surface; the bind address is the access control.
		return true
	},
}

// New creates a Server. handler receives every inbound packet; it is
// called from per-connection goroutines and must be safe for
// concurrent use (the bridge serializes internally).
func New(cfg config.WebSocketConfig, handler Handler, logger Logger) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		handler: handler,
		clients: make(map[string]*client),
	}
}

// routes builds the HTTP mux: a health endpoint beside the upgrade path.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get(s.cfg.Path, s.handleUpgrade)
	return r
}

// Start begins serving. It blocks until ctx is cancelled or the
// listener fails, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("websocket gateway listening", "addr", addr, "path", s.cfg.Path)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("wsdgram: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.closeAll()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("wsdgram: shutdown: %w", err)
	}
	return nil
}

// Broadcast fans one outbound OSC packet out to every connected client.
// Safe to call from any goroutine; slow clients drop the frame.
func (s *Server) Broadcast(packet []byte) {
	s.mu.RLock()
	clients := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		c.trySend(packet)
	}
}

// trySend queues one frame for the client. unregister can close the
// send channel between the snapshot in Broadcast and the send here; a
// client leaving mid-broadcast must drop the frame, not panic the
// sender.
func (c *client) trySend(packet []byte) {
	defer func() {
		recover() //nolint:errcheck // Absorb send-on-closed-channel panic
	}()

	select {
	case c.send <- packet:
	default:
		// Buffer full, skip this client.
	}
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","clients":%d}`, s.ClientCount())
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	s.register(c)

	go s.writePump(c)
	go s.readPump(c)
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()
	s.logger.Debug("websocket client connected", "client", c.id, "clients", s.ClientCount())
}

// unregister removes a client. Only the goroutine that actually removes
// it closes the send channel, preventing double-close during shutdown.
func (s *Server) unregister(c *client) {
	s.mu.Lock()
	_, existed := s.clients[c.id]
	delete(s.clients, c.id)
	s.mu.Unlock()

	if existed {
		close(c.send)
	}
	s.logger.Debug("websocket client disconnected", "client", c.id, "clients", s.ClientCount())
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.clients {
		close(c.send)
		c.conn.Close()
		delete(s.clients, id)
	}
}

// readPump delivers inbound frames to the handler until the connection
// drops.
func (s *Server) readPump(c *client) {
	defer func() {
		s.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(int64(s.cfg.MaxMessageSize))
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck // Best-effort deadline
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, packet, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error", "client", c.id, "error", err)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			// OSC packets are binary; ignore stray text frames.
			continue
		}
		if err := s.handler(packet); err != nil {
			s.logger.Debug("dropped packet from websocket client",
				"client", c.id, "error", err)
		}
	}
}

// writePump forwards outbound frames and keeps the connection alive
// with protocol-level pings.
func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case packet, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil) //nolint:errcheck // Best-effort close
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // Write error caught below
			if err := c.conn.WriteMessage(websocket.BinaryMessage, packet); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // Ping error caught below
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
