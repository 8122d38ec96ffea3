package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tyrowin/boardchat/internal/models"
	"github.com/Tyrowin/boardchat/internal/monitor"
)

// Kind names an event on the wire.
type Kind string

// Client to server.
const (
	KindAuthenticate      Kind = "authenticate"
	KindSendMessage       Kind = "send_message"
	KindGetMonitoring     Kind = "get_monitoring"
	KindPingLatency       Kind = "ping_latency"
	KindGetConnectedUsers Kind = "get_connected_users"
	KindGetBoardItems     Kind = "get_board_items"
	KindCreateBoardItem   Kind = "create_board_item"
	KindUpdateBoardItem   Kind = "update_board_item"
	KindDeleteBoardItem   Kind = "delete_board_item"
)

// Server to client.
const (
	KindAuthenticated    Kind = "authenticated"
	KindMessageHistory   Kind = "message_history"
	KindNewMessage       Kind = "new_message"
	KindUserList         Kind = "user_list"
	KindConnectedUsers   Kind = "connected_users"
	KindUserJoined       Kind = "user_joined"
	KindUserLeft         Kind = "user_left"
	KindMonitoringData   Kind = "monitoring_data"
	KindPongLatency      Kind = "pong_latency"
	KindError            Kind = "error"
	KindBoardItems       Kind = "board_items"
	KindBoardItemCreated Kind = "board_item_created"
	KindBoardItemUpdated Kind = "board_item_updated"
	KindBoardItemDeleted Kind = "board_item_deleted"
)

type envelope struct {
	Event Kind            `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound is an event received from a client. The set of implementations is
// closed; see Decode.
type Inbound interface {
	Kind() Kind
	isInbound()
}

// Authenticate binds a connection to the account owning Token.
type Authenticate struct {
	Token string `json:"token"`
}

// SendMessage posts Content to the chat.
type SendMessage struct {
	Content string `json:"content"`
}

// GetMonitoring asks for a monitoring_data snapshot.
type GetMonitoring struct{}

// PingLatency carries an opaque client payload that is echoed back.
type PingLatency struct {
	Payload json.RawMessage
}

// GetConnectedUsers asks for the connected_users list.
type GetConnectedUsers struct{}

// GetBoardItems asks for every board item.
type GetBoardItems struct{}

// CreateBoardItem adds an item to the board. Column defaults to todo.
type CreateBoardItem struct {
	Title      string        `json:"title"`
	Content    string        `json:"content"`
	Column     models.Column `json:"column"`
	AssignedTo *string       `json:"assigned_to"`
}

// UpdateBoardItem changes the fields present in the embedded patch.
type UpdateBoardItem struct {
	ID int64 `json:"id"`
	models.BoardPatch
}

// DeleteBoardItem removes the item with ID.
type DeleteBoardItem struct {
	ID int64 `json:"id"`
}

func (*Authenticate) Kind() Kind      { return KindAuthenticate }
func (*SendMessage) Kind() Kind       { return KindSendMessage }
func (*GetMonitoring) Kind() Kind     { return KindGetMonitoring }
func (*PingLatency) Kind() Kind       { return KindPingLatency }
func (*GetConnectedUsers) Kind() Kind { return KindGetConnectedUsers }
func (*GetBoardItems) Kind() Kind     { return KindGetBoardItems }
func (*CreateBoardItem) Kind() Kind   { return KindCreateBoardItem }
func (*UpdateBoardItem) Kind() Kind   { return KindUpdateBoardItem }
func (*DeleteBoardItem) Kind() Kind   { return KindDeleteBoardItem }

func (*Authenticate) isInbound()      {}
func (*SendMessage) isInbound()       {}
func (*GetMonitoring) isInbound()     {}
func (*PingLatency) isInbound()       {}
func (*GetConnectedUsers) isInbound() {}
func (*GetBoardItems) isInbound()     {}
func (*CreateBoardItem) isInbound()   {}
func (*UpdateBoardItem) isInbound()   {}
func (*DeleteBoardItem) isInbound()   {}

var inboundKinds = map[Kind]func() Inbound{
	KindAuthenticate:      func() Inbound { return &Authenticate{} },
	KindSendMessage:       func() Inbound { return &SendMessage{} },
	KindGetMonitoring:     func() Inbound { return &GetMonitoring{} },
	KindPingLatency:       func() Inbound { return &PingLatency{} },
	KindGetConnectedUsers: func() Inbound { return &GetConnectedUsers{} },
	KindGetBoardItems:     func() Inbound { return &GetBoardItems{} },
	KindCreateBoardItem:   func() Inbound { return &CreateBoardItem{} },
	KindUpdateBoardItem:   func() Inbound { return &UpdateBoardItem{} },
	KindDeleteBoardItem:   func() Inbound { return &DeleteBoardItem{} },
}

// Decode parses a client frame into its Inbound event. Unknown kinds and
// payloads that do not match the kind's shape are errors.
func Decode(raw []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	factory, ok := inboundKinds[env.Event]
	if !ok {
		return nil, fmt.Errorf("unknown event %q", env.Event)
	}
	ev := factory()

	if ping, ok := ev.(*PingLatency); ok {
		ping.Payload = env.Data
		return ping, nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return ev, nil
	}
	if err := json.Unmarshal(env.Data, ev); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", env.Event, err)
	}
	return ev, nil
}

// Outbound is an event sent to clients.
type Outbound interface {
	Kind() Kind
}

// Authenticated answers an Authenticate.
type Authenticated struct {
	Success  bool   `json:"success"`
	Username string `json:"username,omitempty"`
	Error    string `json:"error,omitempty"`
}

// MessageHistory is the recent chat, oldest first.
type MessageHistory []models.ChatMessage

// NewMessage is a stored chat message broadcast to every session.
type NewMessage struct {
	models.ChatMessage
}

// UserList is the full set of connected usernames.
type UserList struct {
	Users []string `json:"users"`
}

// ConnectedUsers is the bare list form of UserList.
type ConnectedUsers []string

// UserJoined announces the first session of a user.
type UserJoined struct {
	Username string `json:"username"`
}

// UserLeft announces that a user's last session closed.
type UserLeft struct {
	Username string `json:"username"`
}

// MonitoringData reports connection and message counters.
type MonitoringData struct {
	monitor.Snapshot
}

// PongLatency echoes the payload of a PingLatency.
type PongLatency json.RawMessage

// ErrorEvent reports a failed request to the sender only.
type ErrorEvent struct {
	Message string `json:"message"`
}

// BoardItems is the whole board.
type BoardItems []models.BoardItem

// BoardItemCreated broadcasts a new item.
type BoardItemCreated struct {
	models.BoardItem
}

// BoardItemUpdated encodes only the id, the new timestamp and the fields
// present in Patch.
type BoardItemUpdated struct {
	ID        int64
	Patch     models.BoardPatch
	UpdatedAt time.Time
}

// BoardItemDeleted broadcasts a removed item id.
type BoardItemDeleted struct {
	ID int64 `json:"id"`
}

func (Authenticated) Kind() Kind    { return KindAuthenticated }
func (MessageHistory) Kind() Kind   { return KindMessageHistory }
func (NewMessage) Kind() Kind       { return KindNewMessage }
func (UserList) Kind() Kind         { return KindUserList }
func (ConnectedUsers) Kind() Kind   { return KindConnectedUsers }
func (UserJoined) Kind() Kind       { return KindUserJoined }
func (UserLeft) Kind() Kind         { return KindUserLeft }
func (MonitoringData) Kind() Kind   { return KindMonitoringData }
func (PongLatency) Kind() Kind      { return KindPongLatency }
func (ErrorEvent) Kind() Kind       { return KindError }
func (BoardItems) Kind() Kind       { return KindBoardItems }
func (BoardItemCreated) Kind() Kind { return KindBoardItemCreated }
func (BoardItemUpdated) Kind() Kind { return KindBoardItemUpdated }
func (BoardItemDeleted) Kind() Kind { return KindBoardItemDeleted }

func (p PongLatency) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return json.RawMessage(p).MarshalJSON()
}

func (u BoardItemUpdated) MarshalJSON() ([]byte, error) {
	fields := map[string]any{
		"id":         u.ID,
		"updated_at": u.UpdatedAt,
	}
	if u.Patch.Title.Set {
		fields["title"] = u.Patch.Title.Value
	}
	if u.Patch.Content.Set {
		fields["content"] = u.Patch.Content.Value
	}
	if u.Patch.Column.Set {
		fields["column_name"] = u.Patch.Column.Value
	}
	if u.Patch.AssignedTo.Set {
		fields["assigned_to"] = u.Patch.AssignedTo.Value
	}
	return json.Marshal(fields)
}

// Encode renders ev as a wire frame.
func Encode(ev Outbound) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.Kind(), err)
	}
	return json.Marshal(envelope{Event: ev.Kind(), Data: data})
}
