package server

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/cardtable/blackjack/internal/config"
)

// DefaultActionTimeout is how long a seated player may stall before their
// remaining hands are stood automatically.
const DefaultActionTimeout = 30 * time.Second

// Server hosts the WebSocket endpoint and the configured tables
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	tables      map[string]*Table
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewServer creates a server with one table per configuration entry
func NewServer(cfg *config.Config, logger *log.Logger, clock quartz.Clock) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr: cfg.GetServerAddress(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				// In production, implement proper origin checking
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		tables:      make(map[string]*Table),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}

	timeout := DefaultActionTimeout
	if cfg.Server.ActionTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Server.ActionTimeoutSeconds) * time.Second
	}

	for _, tc := range cfg.Tables {
		table := NewTable(tc, logger, clock, timeout)
		name := table.Name
		table.SetNotify(func(msg *Message) {
			s.BroadcastToTable(name, msg)
		})
		s.tables[name] = table
	}

	return s
}

// Start starts the WebSocket server
func (s *Server) Start() error {
	go s.run()

	// Create a dedicated mux for this server instance
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.logger.Info("Starting WebSocket server", "addr", s.addr, "tables", len(s.tables))
	return http.ListenAndServe(s.addr, mux)
}

// Stop stops the WebSocket server
func (s *Server) Stop() error {
	s.cancel()

	// Close all connections
	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", len(s.connections))

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn]
			if ok {
				delete(s.connections, conn)
				_ = conn.Close() // Ignore close errors during unregistration
			}
			s.mu.Unlock()

			// Vacate the seat outside the lock, Leave broadcasts the new state
			if ok {
				if name := conn.GetTable(); name != "" {
					if table := s.tables[name]; table != nil {
						s.logger.Info("Cleaning up disconnected player", "player", conn.PlayerID(), "table", name)
						_ = table.Leave(conn.PlayerID()) // Ignore errors during cleanup
					}
				}
			}
			s.logger.Info("Client disconnected", "total", len(s.connections))

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s)
	s.register <- client
	client.Start()

	// Connection cleanup is handled by the connection itself
	go func() {
		<-client.ctx.Done()
		s.unregister <- client
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

// GetTable returns a table by name, or nil
func (s *Server) GetTable(name string) *Table {
	return s.tables[name]
}

// ListTables summarises every table, sorted by name
func (s *Server) ListTables() []TableInfo {
	infos := make([]TableInfo, 0, len(s.tables))
	for _, table := range s.tables {
		infos = append(infos, table.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// BroadcastToTable sends a message to all connections at a specific table
func (s *Server) BroadcastToTable(table string, msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.GetTable() == table {
			if err := conn.SendMessage(msg); err != nil {
				s.logger.Error("Failed to send message to client", "error", err, "player", conn.PlayerID())
			} else {
				count++
			}
		}
	}

	s.logger.Debug("Broadcasted message to table", "table", table, "type", msg.Type, "recipients", count)
}

// SendToPlayer sends a message to a specific player
func (s *Server) SendToPlayer(playerID string, msg *Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.PlayerID() == playerID {
			return conn.SendMessage(msg)
		}
	}

	return fmt.Errorf("player not found: %s", playerID)
}
