package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	playerID  string
	tableName string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	server    *Server
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, server *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:     conn,
		send:     make(chan *Message, 256),
		playerID: uuid.NewString(),
		logger:   logger.WithPrefix("conn"),
		ctx:      ctx,
		cancel:   cancel,
		server:   server,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

// PlayerID returns the identifier assigned to this connection
func (c *Connection) PlayerID() string {
	return c.playerID
}

// SetTable associates this connection with a table
func (c *Connection) SetTable(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tableName = table
}

// GetTable returns the associated table name
func (c *Connection) GetTable() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tableName
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.PlayerID())

	switch msg.Type {
	case MessageTypeJoinTable:
		var data JoinTableData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join table data")
			return
		}
		c.handleJoinTable(data)

	case MessageTypeLeaveTable:
		c.handleLeaveTable()

	case MessageTypeListTables:
		c.handleListTables()

	case MessageTypePlaceBet:
		var data PlaceBetData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse place bet data")
			return
		}
		c.handlePlaceBet(data)

	case MessageTypePlayerAction:
		var data PlayerActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse player action data")
			return
		}
		c.handlePlayerAction(data)

	case MessageTypeNextRound:
		c.handleNextRound()

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg) // Ignore send errors during error handling
}

// sendEngineError translates a table or engine failure into a protocol error
func (c *Connection) sendEngineError(err error) {
	c.sendError(errorCode(err), err.Error())
}

func (c *Connection) handleJoinTable(data JoinTableData) {
	c.logger.Info("Join table request", "table", data.Table, "playerName", data.PlayerName)

	if data.PlayerName == "" {
		c.sendError("invalid_join", "Player name required")
		return
	}
	if c.GetTable() != "" {
		c.sendError("already_seated", "Leave the current table first")
		return
	}

	table := c.server.GetTable(data.Table)
	if table == nil {
		c.sendError("table_not_found", "No such table: "+data.Table)
		return
	}

	if err := table.Join(c.PlayerID(), data.PlayerName); err != nil {
		c.sendEngineError(err)
		return
	}
	c.SetTable(data.Table)

	response, _ := NewMessage(MessageTypeTableJoined, TableJoinedData{
		PlayerID: c.PlayerID(),
		Table:    data.Table,
		Snapshot: table.Snapshot(),
	})
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) handleLeaveTable() {
	c.logger.Info("Leave table request", "player", c.PlayerID())

	table := c.server.GetTable(c.GetTable())
	if table == nil {
		c.sendError("not_seated", "Not seated at a table")
		return
	}

	if err := table.Leave(c.PlayerID()); err != nil {
		c.sendEngineError(err)
		return
	}
	c.SetTable("")

	response, _ := NewMessage(MessageTypeTableLeft, TableLeftData{Table: table.Name})
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) handleListTables() {
	response, _ := NewMessage(MessageTypeTableList, TableListData{
		Tables: c.server.ListTables(),
	})
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) handlePlaceBet(data PlaceBetData) {
	c.logger.Info("Place bet", "player", c.PlayerID(), "amount", data.Amount)

	table := c.server.GetTable(c.GetTable())
	if table == nil {
		c.sendError("not_seated", "Not seated at a table")
		return
	}

	if err := table.PlaceBet(c.PlayerID(), data.Amount); err != nil {
		c.sendEngineError(err)
	}
	// No direct response, the table broadcasts its new state
}

func (c *Connection) handlePlayerAction(data PlayerActionData) {
	c.logger.Info("Player action", "player", c.PlayerID(), "action", data.Action)

	table := c.server.GetTable(c.GetTable())
	if table == nil {
		c.sendError("not_seated", "Not seated at a table")
		return
	}

	if err := table.Action(c.PlayerID(), data.Action); err != nil {
		c.sendEngineError(err)
	}
}

func (c *Connection) handleNextRound() {
	table := c.server.GetTable(c.GetTable())
	if table == nil {
		c.sendError("not_seated", "Not seated at a table")
		return
	}

	if err := table.NextRound(c.PlayerID()); err != nil {
		c.sendEngineError(err)
	}
}
