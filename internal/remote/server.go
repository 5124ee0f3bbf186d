// ABOUTME: WebSocket remote-control server
// ABOUTME: Accepts transport commands and broadcasts playback position
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/waveplay/waveplay-go/internal/version"
)

// Transport is the playback surface remote commands drive. The app
// adapts the engine onto this so the server never owns playback state.
type Transport interface {
	Play()
	Pause()
	Stop()
	Reset()
	SeekTo(seconds float64)
	SetVolume(v float64)

	// Status returns one consistent snapshot; separate per-field
	// accessors could mix two transport states in a single update
	Status() PositionUpdate
}

// Server exposes transport control over WebSocket at /waveplay
type Server struct {
	transport  Transport
	playerName string
	upgrader   websocket.Upgrader
	mux        *http.ServeMux
	httpServer *http.Server

	clientsMu sync.RWMutex
	clients   map[string]*client
}

// client is one connected remote
type client struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// NewServer creates the remote-control server
func NewServer(transport Transport, playerName string) *Server {
	s := &Server{
		transport:  transport,
		playerName: playerName,
		upgrader: websocket.Upgrader{
			// Remotes are LAN tools; same-origin enforcement is not useful here
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		mux:     http.NewServeMux(),
		clients: make(map[string]*client),
	}
	s.mux.HandleFunc("/waveplay", s.handleWS)
	return s
}

// Handler exposes the mux (used directly by tests)
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens on the given port
func (s *Server) Start(port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("remote listen failed: %w", err)
	}

	s.httpServer = &http.Server{Handler: s.mux}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("Remote server error: %v", err)
		}
	}()

	log.Printf("Remote control listening on :%d", port)
	return nil
}

// Shutdown disconnects all remotes and stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	s.clientsMu.Lock()
	for id, c := range s.clients {
		c.conn.Close()
		delete(s.clients, id)
	}
	s.clientsMu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Broadcast sends a position update to every connected remote
func (s *Server) Broadcast(u PositionUpdate) {
	msg := Message{Type: TypePosition, Payload: u}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		if err := c.send(msg); err != nil {
			log.Printf("Remote %s write failed: %v", c.id, err)
		}
	}
}

// Snapshot returns the transport state sent to newly connected remotes
func (s *Server) Snapshot() PositionUpdate {
	return s.transport.Status()
}

// handleWS upgrades the connection and runs the read loop
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Remote upgrade failed: %v", err)
		return
	}

	c := &client{id: uuid.NewString(), conn: conn}

	s.clientsMu.Lock()
	s.clients[c.id] = c
	s.clientsMu.Unlock()

	log.Printf("Remote connected: %s", c.id)

	// Hello plus an immediate state snapshot so the remote can render
	// without waiting for the next broadcast
	c.send(Message{Type: TypeHello, Payload: Hello{
		Product:    version.Product,
		Version:    version.Version,
		PlayerName: s.playerName,
	}})
	c.send(Message{Type: TypePosition, Payload: s.Snapshot()})

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, c.id)
		s.clientsMu.Unlock()
		conn.Close()
		log.Printf("Remote disconnected: %s", c.id)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.handleMessage(data)
	}
}

// handleMessage routes one inbound JSON message
func (s *Server) handleMessage(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Remote: bad message: %v", err)
		return
	}

	switch msg.Type {
	case TypeCommand:
		payloadBytes, _ := json.Marshal(msg.Payload)
		var cmd Command
		if err := json.Unmarshal(payloadBytes, &cmd); err != nil {
			log.Printf("Remote: bad command payload: %v", err)
			return
		}
		s.apply(cmd)
	default:
		log.Printf("Remote: unknown message type: %s", msg.Type)
	}
}

// apply executes a transport command
func (s *Server) apply(cmd Command) {
	switch cmd.Action {
	case ActionPlay:
		s.transport.Play()
	case ActionPause:
		s.transport.Pause()
	case ActionStop:
		s.transport.Stop()
	case ActionReset:
		s.transport.Reset()
	case ActionSeek:
		s.transport.SeekTo(cmd.Position)
	case ActionVolume:
		s.transport.SetVolume(cmd.Volume)
	default:
		log.Printf("Remote: unknown action: %s", cmd.Action)
	}
}

// send writes one message, serialized per client
func (c *client) send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}
