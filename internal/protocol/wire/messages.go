package wire

import (
	"encoding/json"
	"fmt"
)

// ChatTypeWire is the on-the-wire shape of domain.ChatType.
type ChatTypeWire struct {
	Group           bool `json:"group"`
	MaxParticipants int  `json:"max_participants,omitempty"`
}

// ClientMessageType tags which variant of ClientMessage is populated.
type ClientMessageType string

const (
	ClientCreateChat  ClientMessageType = "create_chat"
	ClientJoinChat    ClientMessageType = "join_chat"
	ClientSendMessage ClientMessageType = "send_message"
	ClientLeaveChat   ClientMessageType = "leave_chat"
)

// ClientMessage is the tagged union of every message a client may send to
// the relay. Exactly one of the pointer fields matching Type is non-nil.
type ClientMessage struct {
	Type ClientMessageType `json:"type"`

	CreateChat  *CreateChat  `json:"create_chat,omitempty"`
	JoinChat    *JoinChat    `json:"join_chat,omitempty"`
	SendMessage *SendMessage `json:"send_message,omitempty"`
	LeaveChat   *LeaveChat   `json:"leave_chat,omitempty"`
}

// CreateChat asks the relay to create a new room for room_id (the client
// already derived it locally; the relay never sees the chat code).
type CreateChat struct {
	RoomID   string       `json:"room_id"`
	ChatType ChatTypeWire `json:"chat_type"`
	Username string       `json:"username"`
}

// JoinChat asks the relay to add the sender to an existing room.
type JoinChat struct {
	RoomID   string `json:"room_id"`
	Username string `json:"username"`
}

// SendMessage carries an opaque, already-encrypted envelope for fan-out.
type SendMessage struct {
	RoomID           string `json:"room_id"`
	EncryptedPayload []byte `json:"encrypted_payload"`
	MessageID        string `json:"message_id"`
}

// LeaveChat asks the relay to remove the sender from a room.
type LeaveChat struct {
	RoomID string `json:"room_id"`
}

// ServerMessageType tags which variant of ServerMessage is populated.
type ServerMessageType string

const (
	ServerChatCreated     ServerMessageType = "chat_created"
	ServerJoinedChat      ServerMessageType = "joined_chat"
	ServerError           ServerMessageType = "error"
	ServerMessageReceived ServerMessageType = "message_received"
	ServerMessageAck      ServerMessageType = "message_ack"
	ServerUserJoined      ServerMessageType = "user_joined"
	ServerUserLeft        ServerMessageType = "user_left"
)

// ServerMessage is the tagged union of every message the relay may send to
// a client. Exactly one of the pointer fields matching Type is non-nil.
type ServerMessage struct {
	Type ServerMessageType `json:"type"`

	ChatCreated     *ChatCreated     `json:"chat_created,omitempty"`
	JoinedChat      *JoinedChat      `json:"joined_chat,omitempty"`
	Error           *Error           `json:"error,omitempty"`
	MessageReceived *MessageReceived `json:"message_received,omitempty"`
	MessageAck      *MessageAck      `json:"message_ack,omitempty"`
	UserJoined      *UserJoined      `json:"user_joined,omitempty"`
	UserLeft        *UserLeft        `json:"user_left,omitempty"`
}

type ChatCreated struct {
	RoomID   string       `json:"room_id"`
	ChatType ChatTypeWire `json:"chat_type"`
}

type JoinedChat struct {
	RoomID           string       `json:"room_id"`
	ChatType         ChatTypeWire `json:"chat_type"`
	ParticipantCount int          `json:"participant_count"`
}

type Error struct {
	Message string `json:"message"`
}

// MessageReceived carries a fanned-out ciphertext. Timestamp is relay-side
// wall-clock time, a display hint only: it is never covered by the
// sender's signature and must not be trusted for ordering or freshness.
type MessageReceived struct {
	RoomID           string `json:"room_id"`
	EncryptedPayload []byte `json:"encrypted_payload"`
	MessageID        string `json:"message_id"`
	Timestamp        int64  `json:"timestamp"`
}

// MessageAck confirms the relay accepted a SendMessage for fan-out. It is
// sent to the originating connection only, before the broadcast happens.
type MessageAck struct {
	MessageID string `json:"message_id"`
}

type UserJoined struct {
	RoomID   string `json:"room_id"`
	Username string `json:"username"`
}

type UserLeft struct {
	RoomID   string `json:"room_id"`
	Username string `json:"username"`
}

// EncodeClient serializes a ClientMessage to its wire payload (without the
// length-prefix framing, which WriteFrame adds separately).
func EncodeClient(msg ClientMessage) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode client message: %w", err)
	}
	return b, nil
}

// DecodeClient parses a client message payload.
func DecodeClient(payload []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("decode client message: %w", err)
	}
	return msg, nil
}

// EncodeServer serializes a ServerMessage to its wire payload.
func EncodeServer(msg ServerMessage) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode server message: %w", err)
	}
	return b, nil
}

// DecodeServer parses a server message payload.
func DecodeServer(payload []byte) (ServerMessage, error) {
	var msg ServerMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return ServerMessage{}, fmt.Errorf("decode server message: %w", err)
	}
	return msg, nil
}
