package server

import (
	"encoding/json"
	"time"

	"github.com/cardtable/blackjack/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type JoinTableData struct {
	Table      string `json:"table"`
	PlayerName string `json:"playerName"`
}

type PlaceBetData struct {
	Amount int `json:"amount"`
}

type PlayerActionData struct {
	Action string `json:"action"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TableJoinedData struct {
	PlayerID string        `json:"playerId"`
	Table    string        `json:"table"`
	Snapshot game.Snapshot `json:"snapshot"`
}

type TableLeftData struct {
	Table string `json:"table"`
}

type TableStateData struct {
	Table    string        `json:"table"`
	Snapshot game.Snapshot `json:"snapshot"`
}

type PlayerTimeoutData struct {
	Table          string `json:"table"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type TableInfo struct {
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
	Seats       int    `json:"seats"`
	MinBet      int    `json:"minBet"`
	MaxBet      int    `json:"maxBet"`
	State       string `json:"state"`
}

type TableListData struct {
	Tables []TableInfo `json:"tables"`
}
