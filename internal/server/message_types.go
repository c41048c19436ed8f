package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants for the client-server protocol
const (
	// Client to server messages
	MessageTypeJoinTable    MessageType = "join_table"
	MessageTypeLeaveTable   MessageType = "leave_table"
	MessageTypeListTables   MessageType = "list_tables"
	MessageTypePlaceBet     MessageType = "place_bet"
	MessageTypePlayerAction MessageType = "player_action"
	MessageTypeNextRound    MessageType = "next_round"

	// Server to client messages
	MessageTypeError         MessageType = "error"
	MessageTypeTableJoined   MessageType = "table_joined"
	MessageTypeTableLeft     MessageType = "table_left"
	MessageTypeTableList     MessageType = "table_list"
	MessageTypeTableState    MessageType = "table_state"
	MessageTypePlayerTimeout MessageType = "player_timeout"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
