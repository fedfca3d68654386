package relay

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"rchat/internal/domain"
	"rchat/internal/protocol/wire"
)

// Participant is one connected client within a Room.
type Participant struct {
	ID       domain.ParticipantID
	Username string
	Outbound chan wire.ServerMessage
}

// Room holds one chat's participants and enforces its capacity.
type Room struct {
	mu           sync.Mutex
	chatType     domain.ChatType
	participants map[domain.ParticipantID]*Participant
}

// NewRoom creates an empty room of the given type.
func NewRoom(chatType domain.ChatType) *Room {
	return &Room{
		chatType:     chatType,
		participants: make(map[domain.ParticipantID]*Participant),
	}
}

// ChatType returns the room's chat type.
func (r *Room) ChatType() domain.ChatType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chatType
}

// CanJoin reports whether the room has a free slot.
func (r *Room) CanJoin() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants) < r.chatType.Capacity()
}

// Join admits username, generating its participant id as
// "{username}_{uuidv4}", and returns the new participant and the room's
// resulting size. It fails with domain.ErrRoomFull if the room had no
// free slot.
func (r *Room) Join(username string, outbound chan wire.ServerMessage) (*Participant, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.participants) >= r.chatType.Capacity() {
		return nil, 0, domain.ErrRoomFull
	}

	p := &Participant{
		ID:       domain.ParticipantID(username + "_" + uuid.NewString()),
		Username: username,
		Outbound: outbound,
	}
	r.participants[p.ID] = p
	return p, len(r.participants), nil
}

// Remove drops a participant and returns its username, if present.
func (r *Room) Remove(id domain.ParticipantID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return "", false
	}
	delete(r.participants, id)
	return p.Username, true
}

// Username looks up a participant's display name without removing it.
func (r *Room) Username(id domain.ParticipantID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return "", false
	}
	return p.Username, true
}

// Count returns the current number of participants.
func (r *Room) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants)
}

// Broadcast enqueues msg on every participant's outbound channel except
// exclude (pass "" to exclude no one). A full outbound channel is logged
// and skipped rather than allowed to block the rest of the fan-out or tear
// down the room.
func (r *Room) Broadcast(msg wire.ServerMessage, exclude domain.ParticipantID, log *slog.Logger) int {
	r.mu.Lock()
	targets := make([]*Participant, 0, len(r.participants))
	for id, p := range r.participants {
		if id == exclude {
			continue
		}
		targets = append(targets, p)
	}
	r.mu.Unlock()

	sent := 0
	for _, p := range targets {
		select {
		case p.Outbound <- msg:
			sent++
		default:
			if log != nil {
				log.Warn("dropping message to slow participant", "participant", p.ID, "username", p.Username)
			}
		}
	}
	return sent
}
