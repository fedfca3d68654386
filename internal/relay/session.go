package relay

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"rchat/internal/domain"
	"rchat/internal/protocol/wire"
)

// Session drives one client connection: a writer goroutine draining an
// outbound queue onto the wire, and a reader loop dispatching incoming
// frames against the room registry. It mirrors the original relay's
// per-connection task pair (a send task plus a receive loop), translated
// to a goroutine and a channel.
type Session struct {
	conn     net.Conn
	registry *Registry
	log      *slog.Logger
	connID   string

	outbound chan wire.ServerMessage

	inRoom        bool
	roomID        domain.RoomID
	participantID domain.ParticipantID
}

// NewSession wraps an accepted connection.
func NewSession(conn net.Conn, registry *Registry, log *slog.Logger, connID string) *Session {
	return &Session{
		conn:     conn,
		registry: registry,
		log:      log,
		connID:   connID,
		outbound: make(chan wire.ServerMessage, domain.OutboundQueueCapacity),
	}
}

// Serve runs the session until the connection closes or a protocol
// violation is observed, then cleans up the participant's room membership.
func (s *Session) Serve() {
	defer s.conn.Close()

	done := make(chan struct{})
	go s.writeLoop(done)
	defer close(done)

	s.readLoop()
	s.cleanupOnDisconnect()
}

// writeLoop serializes every queued ServerMessage onto the connection
// until done is closed.
func (s *Session) writeLoop(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg := <-s.outbound:
			payload, err := wire.EncodeServer(msg)
			if err != nil {
				s.log.Error("encode server message", "conn", s.connID, "error", err)
				continue
			}
			if err := wire.WriteFrame(s.conn, payload); err != nil {
				return
			}
		}
	}
}

// readLoop reads and dispatches frames until the peer disconnects or sends
// something the relay cannot parse.
func (s *Session) readLoop() {
	for {
		payload, err := wire.ReadFrame(s.conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Debug("read frame", "conn", s.connID, "error", err)
			}
			return
		}

		msg, err := wire.DecodeClient(payload)
		if err != nil {
			s.log.Warn("malformed client message, closing connection", "conn", s.connID, "error", err)
			return
		}

		if !s.dispatch(msg) {
			return
		}
	}
}

// dispatch handles one client message, returning false if the session
// should close.
func (s *Session) dispatch(msg wire.ClientMessage) bool {
	switch msg.Type {
	case wire.ClientCreateChat:
		if msg.CreateChat != nil {
			s.handleCreateChat(*msg.CreateChat)
		}
	case wire.ClientJoinChat:
		if msg.JoinChat != nil {
			s.handleJoinChat(*msg.JoinChat)
		}
	case wire.ClientSendMessage:
		if msg.SendMessage != nil {
			s.handleSendMessage(*msg.SendMessage)
		}
	case wire.ClientLeaveChat:
		if msg.LeaveChat != nil {
			s.handleLeaveChat(*msg.LeaveChat)
		}
	default:
		s.log.Warn("unknown client message type, closing connection", "conn", s.connID, "type", msg.Type)
		return false
	}
	return true
}

func (s *Session) handleCreateChat(m wire.CreateChat) {
	chatType := domain.ChatType{Group: m.ChatType.Group, MaxParticipants: m.ChatType.MaxParticipants}
	roomID := domain.RoomID(m.RoomID)

	room := s.registry.GetOrCreate(roomID, chatType)
	participant, _, err := room.Join(m.Username, s.outbound)
	if err != nil {
		s.sendError(err.Error())
		return
	}
	s.inRoom, s.roomID, s.participantID = true, roomID, participant.ID

	s.outbound <- wire.ServerMessage{
		Type: wire.ServerChatCreated,
		ChatCreated: &wire.ChatCreated{
			RoomID:   m.RoomID,
			ChatType: m.ChatType,
		},
	}
	s.log.Info("chat created", "conn", s.connID, "room", m.RoomID, "chat_type", chatType)
}

func (s *Session) handleJoinChat(m wire.JoinChat) {
	roomID := domain.RoomID(m.RoomID)
	room, ok := s.registry.Get(roomID)
	if !ok {
		s.sendError(domain.ErrRoomNotFound.Error())
		return
	}

	participant, count, err := room.Join(m.Username, s.outbound)
	if err != nil {
		s.sendError(err.Error())
		return
	}
	s.inRoom, s.roomID, s.participantID = true, roomID, participant.ID

	chatTypeWire := wire.ChatTypeWire{Group: room.ChatType().Group, MaxParticipants: room.ChatType().MaxParticipants}
	s.outbound <- wire.ServerMessage{
		Type: wire.ServerJoinedChat,
		JoinedChat: &wire.JoinedChat{
			RoomID:           m.RoomID,
			ChatType:         chatTypeWire,
			ParticipantCount: count,
		},
	}

	sent := room.Broadcast(wire.ServerMessage{
		Type:       wire.ServerUserJoined,
		UserJoined: &wire.UserJoined{RoomID: m.RoomID, Username: m.Username},
	}, participant.ID, s.log)
	s.log.Info("user joined", "conn", s.connID, "room", m.RoomID, "username", m.Username, "notified", sent)
}

func (s *Session) handleSendMessage(m wire.SendMessage) {
	// ACK before broadcast: the sender learns the relay accepted the
	// ciphertext for delivery before fan-out happens, decoupling "the
	// relay has it" from "everyone has received it".
	s.outbound <- wire.ServerMessage{
		Type:       wire.ServerMessageAck,
		MessageAck: &wire.MessageAck{MessageID: m.MessageID},
	}

	roomID := domain.RoomID(m.RoomID)
	room, ok := s.registry.Get(roomID)
	if !ok {
		return
	}

	// Echo to the sender too: the client dedupes its own message by
	// MessageID rather than relying on the relay to distinguish senders,
	// which keeps "did my message actually get delivered" observable.
	room.Broadcast(wire.ServerMessage{
		Type: wire.ServerMessageReceived,
		MessageReceived: &wire.MessageReceived{
			RoomID:           m.RoomID,
			EncryptedPayload: m.EncryptedPayload,
			MessageID:        m.MessageID,
			Timestamp:        time.Now().Unix(),
		},
	}, "", s.log)
}

func (s *Session) handleLeaveChat(m wire.LeaveChat) {
	if !s.inRoom || string(s.roomID) != m.RoomID {
		return
	}
	s.leaveCurrentRoom()
}

// leaveCurrentRoom broadcasts UserLeft before removing the participant, so
// the departure notification still reaches everyone else in the room.
func (s *Session) leaveCurrentRoom() {
	room, ok := s.registry.Get(s.roomID)
	if !ok {
		s.inRoom = false
		return
	}
	username, ok := room.Username(s.participantID)
	if ok {
		room.Broadcast(wire.ServerMessage{
			Type:     wire.ServerUserLeft,
			UserLeft: &wire.UserLeft{RoomID: string(s.roomID), Username: username},
		}, s.participantID, s.log)
	}
	room.Remove(s.participantID)
	if room.Count() == 0 {
		s.registry.Drop(s.roomID)
	}
	s.inRoom = false
}

// cleanupOnDisconnect runs the same leave sequence for a client that
// disconnected without sending LeaveChat.
func (s *Session) cleanupOnDisconnect() {
	if !s.inRoom {
		return
	}
	s.log.Info("client disconnected, cleaning up room membership", "conn", s.connID, "room", s.roomID)
	s.leaveCurrentRoom()
}

func (s *Session) sendError(message string) {
	s.outbound <- wire.ServerMessage{
		Type:  wire.ServerError,
		Error: &wire.Error{Message: message},
	}
}
